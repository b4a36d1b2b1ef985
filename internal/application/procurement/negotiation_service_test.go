package procurement

import (
	"context"
	"errors"
	"testing"

	"github.com/reponha/backend/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newNegotiationFixture(t *testing.T) (*NegotiationService, *MockOrderRepository, *procurement.PurchaseOrder, uuid.UUID) {
	t.Helper()
	repo := new(MockOrderRepository)
	service := NewNegotiationService(repo, zap.NewNop())

	tenantID := uuid.New()
	supplier := newServiceTestSupplier(t, tenantID)
	order := newServiceTestOrder(t, tenantID, supplier)
	require.NoError(t, order.SendToSupplier())
	order.ClearDomainEvents()
	return service, repo, order, tenantID
}

func TestNegotiationService_SubmitAndRespond(t *testing.T) {
	service, repo, order, tenantID := newNegotiationFixture(t)
	ctx := context.Background()
	item := &order.Items[0]

	repo.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)
	repo.On("SaveWithLock", ctx, order).Return(nil)

	resp, err := service.Submit(ctx, tenantID, order.ID, procurement.PartySupplier, SubmitSuggestionRequest{
		Lines: []SuggestionLineInput{
			{OrderItemID: item.ID, Quantity: decimal.NewFromInt(20), DiscountPercent: decimal.NewFromInt(10)},
		},
		Note:    "melhor preço em volume",
		Version: order.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, procurement.OrderStatusSuggestionPending, resp.Status)
	require.Len(t, resp.Suggestions, 1)

	resp, err = service.Respond(ctx, tenantID, order.ID, procurement.PartyBuyer, RespondSuggestionRequest{
		Accept:  true,
		Version: order.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, procurement.OrderStatusAccepted, resp.Status)
	assert.Equal(t, "20", resp.Items[0].Quantity.String())
}

func TestNegotiationService_Respond_SelfResponse(t *testing.T) {
	service, repo, order, tenantID := newNegotiationFixture(t)
	ctx := context.Background()
	item := &order.Items[0]
	_, err := order.SubmitSuggestion(procurement.PartySupplier, []procurement.SuggestionLineInput{
		{OrderItemID: item.ID, Quantity: item.Quantity},
	}, nil, "")
	require.NoError(t, err)
	order.ClearDomainEvents()

	repo.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)

	_, err = service.Respond(ctx, tenantID, order.ID, procurement.PartySupplier, RespondSuggestionRequest{
		Accept:  true,
		Version: order.Version,
	})
	assert.True(t, errors.Is(err, procurement.ErrSelfResponseForbidden))
	repo.AssertNotCalled(t, "SaveWithLock", ctx, order)
}

func TestNegotiationService_Submit_StaleVersion(t *testing.T) {
	service, repo, order, tenantID := newNegotiationFixture(t)
	ctx := context.Background()

	repo.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)

	_, err := service.Submit(ctx, tenantID, order.ID, procurement.PartySupplier, SubmitSuggestionRequest{
		Lines:   []SuggestionLineInput{{OrderItemID: order.Items[0].ID, Quantity: decimal.NewFromInt(5)}},
		Version: order.Version + 3,
	})
	var stale *procurement.StaleStateError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, procurement.OrderStatusSentToSupplier, stale.CurrentStatus)
}

func TestNegotiationService_History(t *testing.T) {
	service, repo, order, tenantID := newNegotiationFixture(t)
	ctx := context.Background()
	item := &order.Items[0]
	_, err := order.SubmitSuggestion(procurement.PartySupplier, []procurement.SuggestionLineInput{
		{OrderItemID: item.ID, Quantity: item.Quantity},
	}, nil, "primeira rodada")
	require.NoError(t, err)

	repo.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)

	history, err := service.History(ctx, tenantID, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, procurement.PartySupplier, history[0].Author)
	assert.Equal(t, "primeira rodada", history[0].Note)
}
