package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
	SupplierStatusBlocked  SupplierStatus = "blocked" // blocked after repeated delivery or payment issues
)

// IsValid checks if the status is a valid SupplierStatus
func (s SupplierStatus) IsValid() bool {
	switch s {
	case SupplierStatusActive, SupplierStatusInactive, SupplierStatusBlocked:
		return true
	}
	return false
}

// ContactChannel is the channel an order is dispatched through
type ContactChannel string

const (
	ContactChannelEmail    ContactChannel = "email"
	ContactChannelWhatsApp ContactChannel = "whatsapp"
)

// Supplier is the aggregate root for supplier-related operations. Orders can
// only be sent to suppliers with a usable negotiation channel.
type Supplier struct {
	shared.TenantAggregateRoot
	Code                string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_supplier_tenant_code,priority:2"`
	Name                string         `gorm:"type:varchar(200);not null"`
	TradeName           string         `gorm:"type:varchar(100)"` // nome fantasia
	Status              SupplierStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName         string         `gorm:"type:varchar(100)"`
	Phone               string         `gorm:"type:varchar(50);index"` // WhatsApp-capable number
	Email               string         `gorm:"type:varchar(200);index"`
	CNPJ                string         `gorm:"type:varchar(20)"`
	City                string         `gorm:"type:varchar(100)"`
	State               string         `gorm:"type:varchar(2)"`
	DefaultLeadTimeDays int            `gorm:"not null;default:0"`
	Notes               string         `gorm:"type:text"`
	ERPForeignID        string         `gorm:"type:varchar(100)"` // supplier identifier in the external ERP
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new active supplier with required fields
func NewSupplier(tenantID uuid.UUID, code, name string) (*Supplier, error) {
	if err := validateSupplierCode(code); err != nil {
		return nil, err
	}
	if err := validateSupplierName(name); err != nil {
		return nil, err
	}

	supplier := &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              SupplierStatusActive,
	}

	supplier.AddDomainEvent(NewSupplierCreatedEvent(supplier))

	return supplier, nil
}

// Update updates the supplier's basic information
func (s *Supplier) Update(name, tradeName string) error {
	if err := validateSupplierName(name); err != nil {
		return err
	}
	if tradeName != "" && len(tradeName) > 100 {
		return shared.NewDomainError("INVALID_TRADE_NAME", "Trade name cannot exceed 100 characters")
	}

	s.Name = name
	s.TradeName = tradeName
	s.touch()

	s.AddDomainEvent(NewSupplierUpdatedEvent(s))

	return nil
}

// SetContact sets the supplier's contact information
func (s *Supplier) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	s.ContactName = contactName
	s.Phone = phone
	s.Email = email
	s.touch()

	return nil
}

// SetCNPJ sets the supplier's tax registration number
func (s *Supplier) SetCNPJ(cnpj string) error {
	if cnpj != "" && len(cnpj) > 20 {
		return shared.NewDomainError("INVALID_CNPJ", "CNPJ cannot exceed 20 characters")
	}
	s.CNPJ = cnpj
	s.touch()
	return nil
}

// SetLocation sets the supplier's city and state
func (s *Supplier) SetLocation(city, state string) error {
	if city != "" && len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}
	if state != "" && len(state) != 2 {
		return shared.NewDomainError("INVALID_STATE", "State must be a two-letter code")
	}
	s.City = city
	s.State = strings.ToUpper(state)
	s.touch()
	return nil
}

// SetDefaultLeadTime sets the delivery lead time used when no policy applies
func (s *Supplier) SetDefaultLeadTime(days int) error {
	if days < 0 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time days cannot be negative")
	}
	s.DefaultLeadTimeDays = days
	s.touch()
	return nil
}

// SetNotes sets the supplier's notes
func (s *Supplier) SetNotes(notes string) {
	s.Notes = notes
	s.touch()
}

// AttachERPReference records the supplier's identifier in the external ERP
func (s *Supplier) AttachERPReference(foreignID string) error {
	if foreignID == "" {
		return shared.NewDomainError("INVALID_ERP_REF", "ERP foreign ID cannot be empty")
	}
	s.ERPForeignID = foreignID
	s.touch()
	return nil
}

// Activate marks the supplier as active
func (s *Supplier) Activate() error {
	if s.Status == SupplierStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Supplier is already active")
	}
	s.Status = SupplierStatusActive
	s.touch()
	s.AddDomainEvent(NewSupplierStatusChangedEvent(s, SupplierStatusActive))
	return nil
}

// Deactivate marks the supplier as inactive
func (s *Supplier) Deactivate() error {
	if s.Status == SupplierStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Supplier is already inactive")
	}
	s.Status = SupplierStatusInactive
	s.touch()
	s.AddDomainEvent(NewSupplierStatusChangedEvent(s, SupplierStatusInactive))
	return nil
}

// Block marks the supplier as blocked
func (s *Supplier) Block(reason string) error {
	if s.Status == SupplierStatusBlocked {
		return shared.NewDomainError("ALREADY_BLOCKED", "Supplier is already blocked")
	}
	s.Status = SupplierStatusBlocked
	if reason != "" {
		s.Notes = strings.TrimSpace(s.Notes + "\n[blocked] " + reason)
	}
	s.touch()
	s.AddDomainEvent(NewSupplierStatusChangedEvent(s, SupplierStatusBlocked))
	return nil
}

// IsActive returns true if the supplier can receive new orders
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}

// ResolveContactChannel returns the channel an order would be dispatched
// through. Email wins when both are set. The second return is false when the
// supplier has no usable negotiation channel; orders cannot be sent then.
func (s *Supplier) ResolveContactChannel() (ContactChannel, bool) {
	if s.Email != "" {
		return ContactChannelEmail, true
	}
	if s.Phone != "" {
		return ContactChannelWhatsApp, true
	}
	return "", false
}

func (s *Supplier) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

var (
	supplierCodeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	phoneRegex        = regexp.MustCompile(`^\+?[0-9() -]{8,20}$`)
	emailRegex        = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func validateSupplierCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Supplier code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Supplier code cannot exceed 50 characters")
	}
	if !supplierCodeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Supplier code can only contain letters, numbers, hyphens and underscores")
	}
	return nil
}

func validateSupplierName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Phone number format is invalid")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 || !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}
