package procurement

import (
	"errors"
	"testing"
	"time"

	"github.com/reponha/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder(uuid.New(), "PC-2026-0001", uuid.New(), "Distribuidora Aurora")
	require.NoError(t, err)
	return order
}

func addTestItem(t *testing.T, order *PurchaseOrder, description string, quantity, price float64) *OrderItem {
	t.Helper()
	item, err := order.AddItem(uuid.New(), description, "un",
		decimal.NewFromFloat(quantity), valueobject.NewMoneyBRLFromFloat(price), decimal.Zero)
	require.NoError(t, err)
	return item
}

func sendTestOrder(t *testing.T, order *PurchaseOrder) {
	t.Helper()
	require.NoError(t, order.SendToSupplier())
}

func submitSupplierSuggestion(t *testing.T, order *PurchaseOrder) *Suggestion {
	t.Helper()
	item := &order.Items[0]
	s, err := order.SubmitSuggestion(PartySupplier, []SuggestionLineInput{
		{OrderItemID: item.ID, Quantity: item.Quantity},
	}, nil, "")
	require.NoError(t, err)
	return s
}

// ============================================
// OrderStatus Tests
// ============================================

func TestOrderStatus_IsValid(t *testing.T) {
	valid := []OrderStatus{
		OrderStatusDraft, OrderStatusSentToSupplier, OrderStatusSuggestionPending,
		OrderStatusCounterProposalPending, OrderStatusAccepted, OrderStatusRejected,
		OrderStatusFinalized, OrderStatusCancelled,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, OrderStatus("INVALID").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	all := []OrderStatus{
		OrderStatusDraft, OrderStatusSentToSupplier, OrderStatusSuggestionPending,
		OrderStatusCounterProposalPending, OrderStatusAccepted, OrderStatusRejected,
		OrderStatusFinalized, OrderStatusCancelled,
	}

	// The authoritative edge set; anything absent is illegal.
	legal := map[OrderStatus][]OrderStatus{
		OrderStatusDraft:                  {OrderStatusSentToSupplier, OrderStatusCancelled},
		OrderStatusSentToSupplier:         {OrderStatusSuggestionPending, OrderStatusCancelled},
		OrderStatusSuggestionPending:      {OrderStatusAccepted, OrderStatusRejected, OrderStatusCounterProposalPending, OrderStatusCancelled},
		OrderStatusCounterProposalPending: {OrderStatusAccepted, OrderStatusRejected, OrderStatusCancelled},
		OrderStatusRejected:               {OrderStatusSentToSupplier, OrderStatusCancelled},
		OrderStatusAccepted:               {OrderStatusFinalized, OrderStatusCancelled},
		OrderStatusFinalized:              {},
		OrderStatusCancelled:              {},
	}

	for _, from := range all {
		allowed := make(map[OrderStatus]bool)
		for _, to := range legal[from] {
			allowed[to] = true
		}
		for _, to := range all {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				assert.Equal(t, allowed[to], from.CanTransitionTo(to))
			})
		}
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, OrderStatusFinalized.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusAccepted.IsTerminal())
	assert.False(t, OrderStatusRejected.IsTerminal())
}

func TestPartyRole_Other(t *testing.T) {
	assert.Equal(t, PartySupplier, PartyBuyer.Other())
	assert.Equal(t, PartyBuyer, PartySupplier.Other())
	assert.False(t, PartyRole("intern").IsValid())
}

// ============================================
// PurchaseOrder aggregate tests
// ============================================

func TestNewPurchaseOrder(t *testing.T) {
	order := createTestOrder(t)
	assert.Equal(t, OrderStatusDraft, order.Status)
	assert.Equal(t, 1, order.Version)
	assert.Empty(t, order.Items)
	assert.Len(t, order.GetDomainEvents(), 1)

	_, err := NewPurchaseOrder(uuid.New(), "", uuid.New(), "X")
	assert.Error(t, err)
	_, err = NewPurchaseOrder(uuid.New(), "PC-1", uuid.Nil, "X")
	assert.Error(t, err)
	_, err = NewPurchaseOrder(uuid.New(), "PC-1", uuid.New(), "")
	assert.Error(t, err)
}

func TestPurchaseOrder_TotalsInvariant(t *testing.T) {
	order := createTestOrder(t)

	item, err := order.AddItem(uuid.New(), "Arroz 5kg", "cx",
		decimal.NewFromInt(10), valueobject.NewMoneyBRLFromFloat(100), decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.Equal(t, "1000", order.Subtotal.String())
	assert.Equal(t, "50", order.TaxSurcharge.String()) // 5% of 1000

	require.NoError(t, order.SetFreight(valueobject.NewMoneyBRLFromFloat(80), true))
	require.NoError(t, order.SetManualDiscount(valueobject.NewMoneyBRLFromFloat(100)))

	// total = subtotal - discount + freight + tax
	assert.Equal(t, "1030", order.Total.String())

	// Freight not chargeable is excluded from the total
	require.NoError(t, order.SetFreight(valueobject.NewMoneyBRLFromFloat(80), false))
	assert.Equal(t, "950", order.Total.String())

	// Invariant holds after every line change
	require.NoError(t, order.UpdateItemQuantity(item.ID, decimal.NewFromInt(20)))
	expected := order.Subtotal.Sub(order.Discount).Add(order.TaxSurcharge)
	assert.True(t, order.Total.Equal(expected))
}

func TestPurchaseOrder_AddItem_Rules(t *testing.T) {
	order := createTestOrder(t)
	productID := uuid.New()

	_, err := order.AddItem(productID, "Feijão", "un", decimal.NewFromInt(5), valueobject.NewMoneyBRLFromFloat(10), decimal.Zero)
	require.NoError(t, err)

	_, err = order.AddItem(productID, "Feijão", "un", decimal.NewFromInt(3), valueobject.NewMoneyBRLFromFloat(10), decimal.Zero)
	assert.Error(t, err, "duplicate product must be rejected")

	_, err = order.AddItem(uuid.New(), "", "un", decimal.NewFromInt(5), valueobject.NewMoneyBRLFromFloat(10), decimal.Zero)
	assert.Error(t, err)
	_, err = order.AddItem(uuid.New(), "Café", "un", decimal.Zero, valueobject.NewMoneyBRLFromFloat(10), decimal.Zero)
	assert.Error(t, err)
	_, err = order.AddItem(uuid.New(), "Café", "un", decimal.NewFromInt(1), valueobject.NewMoneyBRLFromFloat(-1), decimal.Zero)
	assert.Error(t, err)
}

func TestPurchaseOrder_SendToSupplier(t *testing.T) {
	order := createTestOrder(t)

	err := order.SendToSupplier()
	require.Error(t, err, "empty order cannot be sent")

	addTestItem(t, order, "Açúcar", 10, 5)
	require.NoError(t, order.SendToSupplier())
	assert.Equal(t, OrderStatusSentToSupplier, order.Status)
	assert.NotNil(t, order.SentAt)

	// Sending twice is illegal
	err = order.SendToSupplier()
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, OrderStatusSentToSupplier, invalid.From)
}

func TestPurchaseOrder_FinalizeFromWrongState(t *testing.T) {
	order := createTestOrder(t)
	addTestItem(t, order, "Óleo", 10, 8)
	sendTestOrder(t, order)
	submitSupplierSuggestion(t, order)

	err := order.Finalize()
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, OrderStatusSuggestionPending, invalid.From)
	assert.Equal(t, OrderStatusFinalized, invalid.To)
}

func TestPurchaseOrder_CancelFromAnyNonTerminal(t *testing.T) {
	states := []func(t *testing.T) *PurchaseOrder{
		func(t *testing.T) *PurchaseOrder { // draft
			return createTestOrder(t)
		},
		func(t *testing.T) *PurchaseOrder { // sent
			o := createTestOrder(t)
			addTestItem(t, o, "Sal", 5, 2)
			sendTestOrder(t, o)
			return o
		},
		func(t *testing.T) *PurchaseOrder { // suggestion pending
			o := createTestOrder(t)
			addTestItem(t, o, "Sal", 5, 2)
			sendTestOrder(t, o)
			submitSupplierSuggestion(t, o)
			return o
		},
		func(t *testing.T) *PurchaseOrder { // accepted
			o := createTestOrder(t)
			addTestItem(t, o, "Sal", 5, 2)
			sendTestOrder(t, o)
			submitSupplierSuggestion(t, o)
			require.NoError(t, o.RespondToSuggestion(PartyBuyer, true, ""))
			return o
		},
	}

	for _, build := range states {
		order := build(t)
		require.NoError(t, order.Cancel(PartyBuyer, "fornecedor sem estoque"))
		assert.Equal(t, OrderStatusCancelled, order.Status)
		assert.Equal(t, "fornecedor sem estoque", order.CancelReason)
		assert.Equal(t, string(PartyBuyer), order.CancelledBy)
	}

	// Terminal states cannot be cancelled
	order := createTestOrder(t)
	require.NoError(t, order.Cancel(PartySupplier, "sem interesse"))
	err := order.Cancel(PartyBuyer, "de novo")
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
}

func TestPurchaseOrder_Finalize(t *testing.T) {
	order := createTestOrder(t)
	addTestItem(t, order, "Farinha", 20, 4)
	sendTestOrder(t, order)
	submitSupplierSuggestion(t, order)
	require.NoError(t, order.RespondToSuggestion(PartyBuyer, true, ""))

	require.NoError(t, order.Finalize())
	assert.Equal(t, OrderStatusFinalized, order.Status)
	assert.NotNil(t, order.FinalizedAt)

	// Monetary snapshot is immutable after finalization
	_, err := order.AddItem(uuid.New(), "Extra", "un", decimal.NewFromInt(1), valueobject.NewMoneyBRLFromFloat(1), decimal.Zero)
	assert.Error(t, err)
	assert.Error(t, order.SetFreight(valueobject.NewMoneyBRLFromFloat(10), true))
	assert.Error(t, order.RegenerateInstallments(ScheduleSpec{Count: 2}, time.Now()))
}

func TestPurchaseOrder_ERPAttachment(t *testing.T) {
	order := createTestOrder(t)
	addTestItem(t, order, "Leite", 10, 3)

	err := order.AttachERPReference("BLG-123")
	assert.Error(t, err, "only finalized orders carry an ERP reference")

	sendTestOrder(t, order)
	submitSupplierSuggestion(t, order)
	require.NoError(t, order.RespondToSuggestion(PartyBuyer, true, ""))
	require.NoError(t, order.Finalize())

	order.RecordERPSyncWarning("bling unreachable")
	assert.Equal(t, OrderStatusFinalized, order.Status, "sync failure never reverts the workflow")
	assert.NotEmpty(t, order.ERPSyncWarning)

	require.NoError(t, order.AttachERPReference("BLG-123"))
	assert.Equal(t, "BLG-123", order.ERPForeignID)
	assert.Empty(t, order.ERPSyncWarning)
}

func TestPurchaseOrder_ExternalStatusIsAdvisory(t *testing.T) {
	order := createTestOrder(t)
	require.NoError(t, order.SetExternalStatus(ExternalStatusInProgress))
	assert.Equal(t, OrderStatusDraft, order.Status, "external status never drives workflow")

	assert.Error(t, order.SetExternalStatus(ExternalStatus("weird")))
}

func TestPurchaseOrder_CheckVersion(t *testing.T) {
	order := createTestOrder(t)
	require.NoError(t, order.CheckVersion(1))

	addTestItem(t, order, "Trigo", 5, 7) // bumps version

	err := order.CheckVersion(1)
	var stale *StaleStateError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, OrderStatusDraft, stale.CurrentStatus)
	assert.Equal(t, 1, stale.ExpectedVersion)
	assert.Equal(t, order.Version, stale.CurrentVersion)
}

func TestPurchaseOrder_ApplyPolicy(t *testing.T) {
	order := createTestOrder(t)
	addTestItem(t, order, "Molho", 100, 10) // subtotal 1000

	policy, err := NewPurchasePolicy(order.TenantID, order.SupplierID, "Atacado",
		decimal.NewFromInt(500), decimal.NewFromInt(5), decimal.Zero, 7, []int{30, 60})
	require.NoError(t, err)

	require.NoError(t, order.ApplyPolicy(policy))
	assert.Equal(t, "50", order.Discount.String())
	assert.Equal(t, "950", order.Total.String())
	assert.Equal(t, 7, order.LeadTimeDays)
	require.NotNil(t, order.AppliedPolicyID)
	assert.Equal(t, policy.ID, *order.AppliedPolicyID)

	policy.Deactivate()
	assert.Error(t, order.ApplyPolicy(policy), "inactive policies cannot be applied")
}

// ============================================
// Negotiation protocol tests
// ============================================

func TestNegotiation_HappyPath(t *testing.T) {
	order := createTestOrder(t)
	item := addTestItem(t, order, "Café torrado", 100, 20)
	sendTestOrder(t, order)

	// Supplier proposes: more quantity, 10% line discount, 10% bonus
	ten := decimal.NewFromInt(10)
	_, err := order.SubmitSuggestion(PartySupplier, []SuggestionLineInput{
		{OrderItemID: item.ID, Quantity: decimal.NewFromInt(120), DiscountPercent: ten, BonusPercent: ten},
	}, nil, "melhor preço acima de 120 unidades")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusSuggestionPending, order.Status)
	assert.Equal(t, 1, order.PendingSuggestionCount())

	// Buyer accepts; lines are merged atomically
	require.NoError(t, order.RespondToSuggestion(PartyBuyer, true, "fechado"))
	assert.Equal(t, OrderStatusAccepted, order.Status)
	assert.Equal(t, 0, order.PendingSuggestionCount())

	merged := order.Items[0]
	assert.Equal(t, "120", merged.Quantity.String())
	assert.Equal(t, "18", merged.UnitPrice.String(), "10% off 20.00")
	assert.Equal(t, "12", merged.BonusQuantity.String(), "floor(120*10/100) free units")
	assert.Equal(t, "2160", order.Subtotal.String(), "bonus units never enter the priced amount")

	require.NoError(t, order.Finalize())
}

func TestNegotiation_SelfResponseForbidden(t *testing.T) {
	order := createTestOrder(t)
	addTestItem(t, order, "Chá", 10, 6)
	sendTestOrder(t, order)
	submitSupplierSuggestion(t, order)

	err := order.RespondToSuggestion(PartySupplier, true, "")
	assert.True(t, errors.Is(err, ErrSelfResponseForbidden))
	assert.Equal(t, OrderStatusSuggestionPending, order.Status, "rejected response must not mutate state")
}

func TestNegotiation_DuplicatePendingSuggestion(t *testing.T) {
	order := createTestOrder(t)
	item := addTestItem(t, order, "Mate", 10, 6)
	sendTestOrder(t, order)
	submitSupplierSuggestion(t, order)

	_, err := order.SubmitSuggestion(PartySupplier, []SuggestionLineInput{
		{OrderItemID: item.ID, Quantity: decimal.NewFromInt(5)},
	}, nil, "")
	assert.True(t, errors.Is(err, ErrDuplicatePendingSuggestion))
	assert.Equal(t, 1, order.PendingSuggestionCount(), "submission must not replace the pending suggestion")
}

func TestNegotiation_RejectLeavesOrderActionable(t *testing.T) {
	order := createTestOrder(t)
	addTestItem(t, order, "Biscoito", 30, 3)
	sendTestOrder(t, order)
	submitSupplierSuggestion(t, order)

	require.NoError(t, order.RespondToSuggestion(PartyBuyer, false, "quantidade alta demais"))
	assert.Equal(t, OrderStatusRejected, order.Status)

	// Buyer may re-send rather than cancel
	require.NoError(t, order.SendToSupplier())
	assert.Equal(t, OrderStatusSentToSupplier, order.Status)
}

func TestNegotiation_CounterProposal(t *testing.T) {
	order := createTestOrder(t)
	item := addTestItem(t, order, "Granola", 50, 12)
	sendTestOrder(t, order)
	supplierSuggestion := submitSupplierSuggestion(t, order)

	// Buyer counters instead of accept/reject; supplier's round is superseded
	five := decimal.NewFromInt(5)
	counter, err := order.SubmitSuggestion(PartyBuyer, []SuggestionLineInput{
		{OrderItemID: item.ID, Quantity: decimal.NewFromInt(60), DiscountPercent: five},
	}, nil, "fecho 60 com 5%")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCounterProposalPending, order.Status)
	assert.Equal(t, 1, order.PendingSuggestionCount())
	assert.Equal(t, SuggestionStatusRejected, order.Suggestions[0].Status)
	assert.Equal(t, supplierSuggestion.ID, order.Suggestions[0].ID)
	assert.Equal(t, PartyBuyer, counter.Author)

	// Supplier accepts the counter
	require.NoError(t, order.RespondToSuggestion(PartySupplier, true, ""))
	assert.Equal(t, OrderStatusAccepted, order.Status)
	assert.Equal(t, "60", order.Items[0].Quantity.String())
}

func TestNegotiation_CounterRejectedReturnsControlToBuyer(t *testing.T) {
	order := createTestOrder(t)
	item := addTestItem(t, order, "Aveia", 40, 9)
	sendTestOrder(t, order)
	submitSupplierSuggestion(t, order)

	_, err := order.SubmitSuggestion(PartyBuyer, []SuggestionLineInput{
		{OrderItemID: item.ID, Quantity: decimal.NewFromInt(45)},
	}, nil, "")
	require.NoError(t, err)

	require.NoError(t, order.RespondToSuggestion(PartySupplier, false, "não consigo nesse preço"))
	assert.Equal(t, OrderStatusRejected, order.Status)

	// Not auto-cancelled: buyer can re-send or cancel
	require.NoError(t, order.SendToSupplier())
}

func TestNegotiation_TermsOverrideOnAccept(t *testing.T) {
	order := createTestOrder(t)
	item := addTestItem(t, order, "Azeite", 100, 30) // subtotal 3000
	sendTestOrder(t, order)

	discount := decimal.NewFromInt(8)
	lead := 10
	_, err := order.SubmitSuggestion(PartySupplier, []SuggestionLineInput{
		{OrderItemID: item.ID, Quantity: decimal.NewFromInt(100)},
	}, &SuggestionTerms{DiscountPercent: &discount, LeadTimeDays: &lead}, "")
	require.NoError(t, err)

	require.NoError(t, order.RespondToSuggestion(PartyBuyer, true, ""))
	assert.Equal(t, "240", order.Discount.String(), "8% of 3000")
	assert.Equal(t, "2760", order.Total.String())
	assert.Equal(t, 10, order.LeadTimeDays)
}

func TestNegotiation_GeneralBonusFillsLinesWithoutOwn(t *testing.T) {
	order := createTestOrder(t)
	a := addTestItem(t, order, "Item A", 50, 10)
	b := addTestItem(t, order, "Item B", 33, 10)
	sendTestOrder(t, order)

	general := decimal.NewFromInt(10)
	twenty := decimal.NewFromInt(20)
	_, err := order.SubmitSuggestion(PartySupplier, []SuggestionLineInput{
		{OrderItemID: a.ID, Quantity: decimal.NewFromInt(50), BonusPercent: twenty},
		{OrderItemID: b.ID, Quantity: decimal.NewFromInt(33)},
	}, &SuggestionTerms{BonusPercent: &general}, "")
	require.NoError(t, err)
	require.NoError(t, order.RespondToSuggestion(PartyBuyer, true, ""))

	assert.Equal(t, "10", order.Items[0].BonusQuantity.String(), "line bonus wins: floor(50*20%)")
	assert.Equal(t, "3", order.Items[1].BonusQuantity.String(), "general bonus: floor(33*10%)")
}

func TestNegotiation_NoPendingSuggestion(t *testing.T) {
	order := createTestOrder(t)
	addTestItem(t, order, "Vinagre", 10, 4)
	sendTestOrder(t, order)

	err := order.RespondToSuggestion(PartyBuyer, true, "")
	assert.True(t, errors.Is(err, ErrNoPendingSuggestion))
}

func TestNegotiation_SuggestionValidation(t *testing.T) {
	order := createTestOrder(t)
	item := addTestItem(t, order, "Pimenta", 10, 4)
	sendTestOrder(t, order)

	// Unknown line
	_, err := order.SubmitSuggestion(PartySupplier, []SuggestionLineInput{
		{OrderItemID: uuid.New(), Quantity: decimal.NewFromInt(5)},
	}, nil, "")
	assert.Error(t, err)

	// Non-positive quantity
	_, err = order.SubmitSuggestion(PartySupplier, []SuggestionLineInput{
		{OrderItemID: item.ID, Quantity: decimal.Zero},
	}, nil, "")
	assert.Error(t, err)

	// Discount out of range
	_, err = order.SubmitSuggestion(PartySupplier, []SuggestionLineInput{
		{OrderItemID: item.ID, Quantity: decimal.NewFromInt(5), DiscountPercent: decimal.NewFromInt(101)},
	}, nil, "")
	assert.Error(t, err)

	// Empty proposal
	_, err = order.SubmitSuggestion(PartySupplier, nil, nil, "")
	assert.Error(t, err)

	// Nothing stuck pending after failed submissions
	assert.Equal(t, 0, order.PendingSuggestionCount())
	assert.Equal(t, OrderStatusSentToSupplier, order.Status)
}
