package procurement

import (
	"context"

	"github.com/reponha/backend/internal/domain/catalog"
	"github.com/reponha/backend/internal/domain/inventory"
	"github.com/reponha/backend/internal/domain/partner"
	"github.com/reponha/backend/internal/domain/procurement"
	"github.com/reponha/backend/internal/domain/shared"
	"github.com/reponha/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultVelocityWindowDays is the trailing sales window used when the
// request does not name one
const DefaultVelocityWindowDays = 90

// DefaultCoverageDays is the coverage window used when no policy is applied
const DefaultCoverageDays = 30

// ReplenishmentService builds replenishment drafts from stock, sales
// velocity and policy coverage, and converts a reviewed draft into a
// purchase order
type ReplenishmentService struct {
	productRepo    catalog.ProductRepository
	stockRepo      inventory.StockItemRepository
	velocityReader inventory.SalesVelocityReader
	policyRepo     procurement.PurchasePolicyRepository
	supplierRepo   partner.SupplierRepository
	orderRepo      procurement.PurchaseOrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReplenishmentService creates a new ReplenishmentService
func NewReplenishmentService(
	productRepo catalog.ProductRepository,
	stockRepo inventory.StockItemRepository,
	velocityReader inventory.SalesVelocityReader,
	policyRepo procurement.PurchasePolicyRepository,
	supplierRepo partner.SupplierRepository,
	orderRepo procurement.PurchaseOrderRepository,
	logger *zap.Logger,
) *ReplenishmentService {
	return &ReplenishmentService{
		productRepo:    productRepo,
		stockRepo:      stockRepo,
		velocityReader: velocityReader,
		policyRepo:     policyRepo,
		supplierRepo:   supplierRepo,
		orderRepo:      orderRepo,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReplenishmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Suggest computes a replenishment draft for a supplier's products. The
// coverage window comes from the named policy when one is given, otherwise
// the default. Products without sales history are excluded; an empty draft
// for a supplier whose products never sold is reported as a typed error,
// not an empty success.
func (s *ReplenishmentService) Suggest(ctx context.Context, tenantID uuid.UUID, req ReplenishmentRequest) (*ReplenishmentResponse, error) {
	lines, coverageDays, policies, err := s.computeDraft(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}

	subtotal := procurement.SubtotalOf(lines)
	report := procurement.MatchPolicies(policies, subtotal)

	return &ReplenishmentResponse{
		SupplierID:   req.SupplierID,
		CoverageDays: coverageDays,
		Lines:        lines,
		Subtotal:     subtotal,
		PolicyReport: report,
	}, nil
}

// CreateDraftFromSuggestions recomputes the replenishment draft, applies the
// buyer's quantity overrides and turns the result into a draft purchase
// order. Overrides are snapped up to the product's box multiple before
// pricing; an override for a product outside the draft is rejected.
func (s *ReplenishmentService) CreateDraftFromSuggestions(ctx context.Context, tenantID uuid.UUID, req ReplenishmentDraftOrderRequest) (*OrderResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive() {
		return nil, shared.NewDomainError("SUPPLIER_NOT_ACTIVE", "Cannot create orders for an inactive supplier")
	}

	lines, _, _, err := s.computeDraft(ctx, tenantID, ReplenishmentRequest{
		SupplierID: req.SupplierID,
		PolicyID:   req.PolicyID,
		WindowDays: req.WindowDays,
	})
	if err != nil {
		return nil, err
	}

	lineByProduct := make(map[uuid.UUID]*procurement.ReplenishmentLine, len(lines))
	for idx := range lines {
		lineByProduct[lines[idx].ProductID] = &lines[idx]
	}
	for _, override := range req.Overrides {
		line, ok := lineByProduct[override.ProductID]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_IN_DRAFT", "Override references a product outside the replenishment draft")
		}
		if err := line.OverrideQuantity(override.Quantity); err != nil {
			return nil, err
		}
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	order, err := procurement.NewPurchaseOrder(tenantID, orderNumber, supplier.ID, supplier.Name)
	if err != nil {
		return nil, err
	}
	order.LeadTimeDays = supplier.DefaultLeadTimeDays

	for _, line := range lines {
		item, err := order.AddItem(line.ProductID, line.Description, line.Unit,
			decimal.NewFromInt(line.SuggestedQuantity), valueobject.NewMoneyBRL(line.UnitPrice), line.TaxRate)
		if err != nil {
			return nil, err
		}
		if added := order.GetItem(item.ID); added != nil {
			added.ExternalRef = line.ExternalRef
		}
	}

	if req.PolicyID != nil {
		policy, err := s.policyRepo.FindByIDForTenant(ctx, tenantID, *req.PolicyID)
		if err != nil {
			return nil, err
		}
		if policy.SupplierID != order.SupplierID {
			return nil, shared.NewDomainError("POLICY_SUPPLIER_MISMATCH", "Policy belongs to a different supplier")
		}
		if err := order.ApplyPolicy(policy); err != nil {
			return nil, err
		}
	}

	if req.CreatedBy != nil {
		order.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishReplenishmentEvents(ctx, order)

	s.logger.Info("replenishment draft converted to order",
		zap.String("order_number", order.OrderNumber),
		zap.Int("lines", len(order.Items)))

	response := ToOrderResponse(order)
	return &response, nil
}

// computeDraft runs the replenishment calculation shared by Suggest and
// CreateDraftFromSuggestions, returning the priced lines, the coverage
// window and the supplier's policies.
func (s *ReplenishmentService) computeDraft(ctx context.Context, tenantID uuid.UUID, req ReplenishmentRequest) ([]procurement.ReplenishmentLine, int, []procurement.PurchasePolicy, error) {
	products, err := s.productRepo.FindBySupplier(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, 0, nil, err
	}

	policies, err := s.policyRepo.FindBySupplier(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, 0, nil, err
	}

	coverageDays := DefaultCoverageDays
	if req.PolicyID != nil {
		policy, err := s.policyRepo.FindByIDForTenant(ctx, tenantID, *req.PolicyID)
		if err != nil {
			return nil, 0, nil, err
		}
		if days := policy.CoverageDays(); days > 0 {
			coverageDays = days
		}
	}

	windowDays := req.WindowDays
	if windowDays <= 0 {
		windowDays = DefaultVelocityWindowDays
	}

	productIDs := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	velocities, err := s.velocityReader.VelocityFor(ctx, tenantID, productIDs, windowDays)
	if err != nil {
		return nil, 0, nil, err
	}
	if len(velocities) == 0 {
		return nil, 0, nil, procurement.ErrNoSalesHistory
	}

	stocks, err := s.stockRepo.FindByProducts(ctx, tenantID, productIDs)
	if err != nil {
		return nil, 0, nil, err
	}
	stockByProduct := make(map[uuid.UUID]decimal.Decimal, len(stocks))
	for _, item := range stocks {
		stockByProduct[item.ProductID] = item.Quantity
	}

	inputs := make([]procurement.ReplenishmentInput, 0, len(products))
	for _, product := range products {
		velocity, ok := velocities[product.ID]
		if !ok {
			continue
		}
		inputs = append(inputs, procurement.ReplenishmentInput{
			ProductID:   product.ID,
			Description: product.Name,
			Unit:        product.Unit,
			ExternalRef: product.ERPForeignRef,
			Stock:       stockByProduct[product.ID],
			DailySales:  velocity.DailySales,
			UnitPrice:   product.PurchasePrice,
			BoxSize:     product.BoxSize,
			TaxRate:     product.TaxRate,
		})
	}

	lines, err := procurement.ComputeReplenishment(inputs, coverageDays)
	if err != nil {
		return nil, 0, nil, err
	}
	return lines, coverageDays, policies, nil
}

func (s *ReplenishmentService) publishReplenishmentEvents(ctx context.Context, order *procurement.PurchaseOrder) {
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
