package procurement

import (
	"context"

	"github.com/reponha/backend/internal/domain/procurement"
	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NegotiationService handles the suggestion protocol on purchase orders.
// The acting party is always passed explicitly by the caller; it is never
// inferred from ambient state.
type NegotiationService struct {
	orderRepo      procurement.PurchaseOrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewNegotiationService creates a new NegotiationService
func NewNegotiationService(orderRepo procurement.PurchaseOrderRepository, logger *zap.Logger) *NegotiationService {
	return &NegotiationService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *NegotiationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Submit records a new negotiation round authored by the given party
func (s *NegotiationService) Submit(ctx context.Context, tenantID, orderID uuid.UUID, author procurement.PartyRole, req SubmitSuggestionRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.CheckVersion(req.Version); err != nil {
		return nil, err
	}

	lines := make([]procurement.SuggestionLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, procurement.SuggestionLineInput{
			OrderItemID:     line.OrderItemID,
			Quantity:        line.Quantity,
			DiscountPercent: line.DiscountPercent,
			BonusPercent:    line.BonusPercent,
			ValidUntil:      line.ValidUntil,
		})
	}

	suggestion, err := order.SubmitSuggestion(author, lines, req.Terms, req.Note)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	s.logger.Info("suggestion submitted",
		zap.String("order_number", order.OrderNumber),
		zap.String("author", string(author)),
		zap.String("suggestion_id", suggestion.ID.String()))

	response := ToOrderResponse(order)
	return &response, nil
}

// Respond accepts or rejects the pending suggestion on behalf of the given
// party. Accepting merges the proposal into the order atomically.
func (s *NegotiationService) Respond(ctx context.Context, tenantID, orderID uuid.UUID, responder procurement.PartyRole, req RespondSuggestionRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.CheckVersion(req.Version); err != nil {
		return nil, err
	}

	if err := order.RespondToSuggestion(responder, req.Accept, req.Note); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// History returns the order's negotiation rounds, newest last
func (s *NegotiationService) History(ctx context.Context, tenantID, orderID uuid.UUID) ([]SuggestionResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	responses := make([]SuggestionResponse, 0, len(order.Suggestions))
	for idx := range order.Suggestions {
		responses = append(responses, ToSuggestionResponse(&order.Suggestions[idx]))
	}
	return responses, nil
}

func (s *NegotiationService) publishEvents(ctx context.Context, order *procurement.PurchaseOrder) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, order.GetDomainEvents()...); err != nil {
		s.logger.Warn("failed to publish domain events",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}
	order.ClearDomainEvents()
}
