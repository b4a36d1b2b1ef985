package inventory

import (
	"context"
	"errors"

	"github.com/reponha/backend/internal/domain/catalog"
	"github.com/reponha/backend/internal/domain/inventory"
	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryService handles stock levels and movement history
type InventoryService struct {
	productRepo    catalog.ProductRepository
	stockRepo      inventory.StockItemRepository
	movementRepo   inventory.StockMovementRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	productRepo catalog.ProductRepository,
	stockRepo inventory.StockItemRepository,
	movementRepo inventory.StockMovementRepository,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		productRepo:  productRepo,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Receive records an inbound movement, creating the stock record on first receipt
func (s *InventoryService) Receive(ctx context.Context, tenantID, actorID uuid.UUID, req MovementRequest) (*MovementResponse, error) {
	item, err := s.findOrCreateItem(ctx, tenantID, req.ProductID)
	if err != nil {
		return nil, err
	}

	movement, err := item.Receive(req.Quantity, req.Reason, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.stockRepo.SaveWithMovement(ctx, item, movement); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, item)

	s.logger.Info("stock received",
		zap.String("product_id", req.ProductID.String()),
		zap.String("quantity", req.Quantity.String()),
		zap.String("balance", item.Quantity.String()))

	response := ToMovementResponse(movement)
	return &response, nil
}

// Issue records an outbound movement; stock cannot go negative
func (s *InventoryService) Issue(ctx context.Context, tenantID, actorID uuid.UUID, req MovementRequest) (*MovementResponse, error) {
	item, err := s.stockRepo.FindByProduct(ctx, tenantID, req.ProductID)
	if err != nil {
		return nil, err
	}

	movement, err := item.Issue(req.Quantity, req.Reason, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.stockRepo.SaveWithMovement(ctx, item, movement); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, item)

	response := ToMovementResponse(movement)
	return &response, nil
}

// Adjust sets the counted on-hand quantity, recording the delta
func (s *InventoryService) Adjust(ctx context.Context, tenantID, actorID uuid.UUID, req AdjustmentRequest) (*MovementResponse, error) {
	item, err := s.findOrCreateItem(ctx, tenantID, req.ProductID)
	if err != nil {
		return nil, err
	}

	movement, err := item.Adjust(req.CountedQuantity, req.Reason, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.stockRepo.SaveWithMovement(ctx, item, movement); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, item)

	s.logger.Info("stock adjusted",
		zap.String("product_id", req.ProductID.String()),
		zap.String("delta", movement.Quantity.String()),
		zap.String("reason", req.Reason))

	response := ToMovementResponse(movement)
	return &response, nil
}

// GetStock retrieves a product's on-hand stock
func (s *InventoryService) GetStock(ctx context.Context, tenantID, productID uuid.UUID) (*StockItemResponse, error) {
	item, err := s.stockRepo.FindByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	response := ToStockItemResponse(item)
	return &response, nil
}

// ListStock retrieves stock levels for a tenant
func (s *InventoryService) ListStock(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockItemResponse, error) {
	items, err := s.stockRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]StockItemResponse, 0, len(items))
	for idx := range items {
		responses = append(responses, ToStockItemResponse(&items[idx]))
	}
	return responses, nil
}

// MovementHistory retrieves a product's movement history with pagination
func (s *InventoryService) MovementHistory(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[MovementResponse], error) {
	movements, err := s.movementRepo.FindByProduct(ctx, tenantID, productID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.movementRepo.CountByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	responses := make([]MovementResponse, 0, len(movements))
	for idx := range movements {
		responses = append(responses, ToMovementResponse(&movements[idx]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

func (s *InventoryService) findOrCreateItem(ctx context.Context, tenantID, productID uuid.UUID) (*inventory.StockItem, error) {
	item, err := s.stockRepo.FindByProduct(ctx, tenantID, productID)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	// first movement for this product; make sure it exists in the catalog
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return nil, err
	}
	return inventory.NewStockItem(tenantID, productID)
}

func (s *InventoryService) publishEvents(ctx context.Context, item *inventory.StockItem) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, item.GetDomainEvents()...); err != nil {
		s.logger.Warn("failed to publish stock events", zap.Error(err))
	}
	item.ClearDomainEvents()
}
