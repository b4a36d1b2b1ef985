package procurement

import (
	"context"
	"time"

	"github.com/reponha/backend/internal/domain/catalog"
	"github.com/reponha/backend/internal/domain/partner"
	"github.com/reponha/backend/internal/domain/procurement"
	"github.com/reponha/backend/internal/domain/shared"
	"github.com/reponha/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ShareTokenStore issues and resolves supplier-facing access tokens for
// orders shared outside the authenticated app.
type ShareTokenStore interface {
	Issue(ctx context.Context, tenantID, orderID uuid.UUID, ttl time.Duration) (string, time.Time, error)
	Resolve(ctx context.Context, token string) (tenantID, orderID uuid.UUID, err error)
	Revoke(ctx context.Context, token string) error
}

// ShareLinkTTL is how long a supplier share link stays valid
const ShareLinkTTL = 7 * 24 * time.Hour

// OrderService orchestrates the purchase order lifecycle
type OrderService struct {
	orderRepo      procurement.PurchaseOrderRepository
	policyRepo     procurement.PurchasePolicyRepository
	supplierRepo   partner.SupplierRepository
	productRepo    catalog.ProductRepository
	erpGateway     procurement.ERPGateway
	tokenStore     ShareTokenStore
	shareTTL       time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo procurement.PurchaseOrderRepository,
	policyRepo procurement.PurchasePolicyRepository,
	supplierRepo partner.SupplierRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		policyRepo:   policyRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// SetERPGateway sets the external ERP collaborator
func (s *OrderService) SetERPGateway(gateway procurement.ERPGateway) {
	s.erpGateway = gateway
}

// SetShareTokenStore sets the share-token store
func (s *OrderService) SetShareTokenStore(store ShareTokenStore) {
	s.tokenStore = store
}

// SetShareLinkTTL overrides the default share link lifetime
func (s *OrderService) SetShareLinkTTL(ttl time.Duration) {
	if ttl > 0 {
		s.shareTTL = ttl
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new purchase order draft. Line description, unit, price,
// tax rate and external reference come from the catalog, not the request.
func (s *OrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive() {
		return nil, shared.NewDomainError("SUPPLIER_NOT_ACTIVE", "Cannot create orders for an inactive supplier")
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

	for _, input := range req.Items {
		if err := s.addProductLine(ctx, tenantID, order, input.ProductID, input.Quantity); err != nil {
			return nil, err
		}
	}

	if req.CreatedBy != nil {
		order.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *OrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders for a tenant with pagination
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, 0, len(orders))
	for idx := range orders {
		responses = append(responses, ToOrderResponse(&orders[idx]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListBySupplier retrieves a supplier's purchase orders
func (s *OrderService) ListBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindBySupplier(ctx, tenantID, supplierID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]OrderResponse, 0, len(orders))
	for idx := range orders {
		responses = append(responses, ToOrderResponse(&orders[idx]))
	}
	return responses, nil
}

// AddItem adds a catalog product as a new line on a draft order
func (s *OrderService) AddItem(ctx context.Context, tenantID, orderID uuid.UUID, req AddItemRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.addProductLine(ctx, tenantID, order, req.ProductID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateItemQuantity changes the paid quantity of a line on a draft order
func (s *OrderService) UpdateItemQuantity(ctx context.Context, tenantID, orderID, itemID uuid.UUID, req UpdateItemRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateItemQuantity(itemID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// RemoveItem removes a line from a draft order
func (s *OrderService) RemoveItem(ctx context.Context, tenantID, orderID, itemID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// Update updates a draft order's commercial terms and notes
func (s *OrderService) Update(ctx context.Context, tenantID, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if req.Freight != nil {
		chargeable := order.FreightChargeable
		if req.FreightChargeable != nil {
			chargeable = *req.FreightChargeable
		}
		if err := order.SetFreight(valueobject.NewMoneyBRL(*req.Freight), chargeable); err != nil {
			return nil, err
		}
	} else if req.FreightChargeable != nil {
		if err := order.SetFreight(valueobject.NewMoneyBRL(order.Freight), *req.FreightChargeable); err != nil {
			return nil, err
		}
	}

	if req.Discount != nil {
		if err := order.SetManualDiscount(valueobject.NewMoneyBRL(*req.Discount)); err != nil {
			return nil, err
		}
	}

	if req.SupplierNote != nil || req.InternalNote != nil {
		supplierNote, internalNote := order.SupplierNote, order.InternalNote
		if req.SupplierNote != nil {
			supplierNote = *req.SupplierNote
		}
		if req.InternalNote != nil {
			internalNote = *req.InternalNote
		}
		order.SetNotes(supplierNote, internalNote)
	}

	if req.ExpectedDelivery != nil {
		order.SetExpectedDelivery(*req.ExpectedDelivery)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// ApplyPolicy applies a purchase policy's commercial terms to the order
func (s *OrderService) ApplyPolicy(ctx context.Context, tenantID, orderID uuid.UUID, req ApplyPolicyRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	policy, err := s.policyRepo.FindByIDForTenant(ctx, tenantID, req.PolicyID)
	if err != nil {
		return nil, err
	}
	if policy.SupplierID != order.SupplierID {
		return nil, shared.NewDomainError("POLICY_SUPPLIER_MISMATCH", "Policy belongs to a different supplier")
	}

	if err := order.ApplyPolicy(policy); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// Send dispatches the order to the supplier. The supplier must have a usable
// contact channel; the caller's version guards against concurrent edits.
func (s *OrderService) Send(ctx context.Context, tenantID, orderID uuid.UUID, req SendOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.CheckVersion(req.Version); err != nil {
		return nil, err
	}

	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, order.SupplierID)
	if err != nil {
		return nil, err
	}
	channel, ok := supplier.ResolveContactChannel()
	if !ok {
		return nil, shared.NewDomainError("NO_CONTACT_CHANNEL", "Supplier has no email or phone to receive the order")
	}

	if err := order.SendToSupplier(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	s.logger.Info("purchase order sent",
		zap.String("order_number", order.OrderNumber),
		zap.String("supplier", order.SupplierName),
		zap.String("channel", string(channel)))

	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel cancels the order. An empty reason requires explicit confirmation.
func (s *OrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, party procurement.PartyRole, req CancelOrderRequest) (*OrderResponse, error) {
	if req.Reason == "" && !req.ConfirmEmptyReason {
		return nil, shared.NewDomainError("REASON_REQUIRED", "Provide a cancel reason or confirm cancelling without one")
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.CheckVersion(req.Version); err != nil {
		return nil, err
	}

	if err := order.Cancel(party, req.Reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// Finalize closes the accepted negotiation and pushes the order to the
// external ERP. A sync failure is attached as a warning; the local status
// stays finalized either way.
func (s *OrderService) Finalize(ctx context.Context, tenantID, orderID uuid.UUID, req FinalizeOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.CheckVersion(req.Version); err != nil {
		return nil, err
	}

	if err := order.Finalize(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	s.syncToERP(ctx, tenantID, order)

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// ScheduleInstallments regenerates the order's installment schedule
func (s *OrderService) ScheduleInstallments(ctx context.Context, tenantID, orderID uuid.UUID, req ScheduleInstallmentsRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	spec := procurement.ScheduleSpec{DayOffsets: req.DayOffsets, Count: req.Count}
	if err := order.RegenerateInstallments(spec, time.Now()); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// ShareLink issues a supplier-facing access token for the order
func (s *OrderService) ShareLink(ctx context.Context, tenantID, orderID uuid.UUID) (*ShareLinkResponse, error) {
	if s.tokenStore == nil {
		return nil, shared.NewDomainError("SHARING_UNAVAILABLE", "Share links are not configured")
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	ttl := s.shareTTL
	if ttl <= 0 {
		ttl = ShareLinkTTL
	}
	token, expiresAt, err := s.tokenStore.Issue(ctx, tenantID, order.ID, ttl)
	if err != nil {
		return nil, err
	}
	return &ShareLinkResponse{OrderID: order.ID, Token: token, ExpiresAt: expiresAt}, nil
}

// GetByShareToken resolves a share token to its order, without tenant auth
func (s *OrderService) GetByShareToken(ctx context.Context, token string) (*OrderResponse, error) {
	if s.tokenStore == nil {
		return nil, shared.NewDomainError("SHARING_UNAVAILABLE", "Share links are not configured")
	}

	tenantID, orderID, err := s.tokenStore.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, tenantID, orderID)
}

// RefreshExternalStatus pulls the fulfillment status from the external ERP
// for a synced order. Advisory only.
func (s *OrderService) RefreshExternalStatus(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if s.erpGateway == nil || order.ERPForeignID == "" {
		return nil, shared.NewDomainError("NOT_SYNCED", "Order has no external ERP reference")
	}

	status, err := s.erpGateway.FetchOrderStatus(ctx, order.ERPForeignID)
	if err != nil {
		return nil, err
	}
	if err := order.SetExternalStatus(status); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// addProductLine loads a catalog product and adds it as an order line
func (s *OrderService) addProductLine(ctx context.Context, tenantID uuid.UUID, order *procurement.PurchaseOrder, productID uuid.UUID, quantity decimal.Decimal) error {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	if !product.Active {
		return shared.NewDomainError("PRODUCT_NOT_ACTIVE", "Cannot order an inactive product")
	}

	item, err := order.AddItem(product.ID, product.Name, product.Unit, quantity, product.GetPurchasePriceMoney(), product.TaxRate)
	if err != nil {
		return err
	}
	if line := order.GetItem(item.ID); line != nil {
		line.ExternalRef = product.ERPForeignRef
	}
	return nil
}

// syncToERP pushes a finalized order to the external ERP, attaching either
// the foreign reference or a warning. Never returns an error: the local
// finalization is authoritative.
func (s *OrderService) syncToERP(ctx context.Context, tenantID uuid.UUID, order *procurement.PurchaseOrder) {
	if s.erpGateway == nil {
		return
	}

	supplierRef := ""
	if supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, order.SupplierID); err == nil {
		supplierRef = supplier.ERPForeignID
	}

	lines := make([]procurement.ERPOrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, procurement.ERPOrderLine{
			ExternalRef: item.ExternalRef,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	result, err := s.erpGateway.SyncOrder(ctx, procurement.ERPSyncRequest{
		OrderNumber:  order.OrderNumber,
		SupplierRef:  supplierRef,
		Lines:        lines,
		Total:        order.Total,
		Installments: order.Installments,
	})
	if err != nil {
		s.logger.Warn("erp sync failed after finalization",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		order.RecordERPSyncWarning(err.Error())
		return
	}

	if err := order.AttachERPReference(result.ForeignID); err != nil {
		s.logger.Warn("erp reference rejected",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}
}

// publishEvents publishes and clears the order's pending domain events
func (s *OrderService) publishEvents(ctx context.Context, order *procurement.PurchaseOrder) {
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
