package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserRole enumerates the roles known to the procurement workflow
type UserRole string

const (
	RoleEmployee   UserRole = "employee"
	RoleManager    UserRole = "manager"
	RolePurchasing UserRole = "purchasing"
)

// PurchaseRequestStatus enumerates the PR lifecycle states
type PurchaseRequestStatus string

const (
	PRStatusSubmitted PurchaseRequestStatus = "submitted"
	PRStatusApproved  PurchaseRequestStatus = "approved"
	PRStatusRejected  PurchaseRequestStatus = "rejected"
	PRStatusOrdered   PurchaseRequestStatus = "ordered"
)

// PurchaseOrderStatus enumerates the PO lifecycle states. The status is
// derived from receipt totals, never set directly by callers.
type PurchaseOrderStatus string

const (
	POStatusSent              PurchaseOrderStatus = "sent"
	POStatusPartiallyReceived PurchaseOrderStatus = "partially_received"
	POStatusReceived          PurchaseOrderStatus = "received"
)

// LinkType identifies the entity a notification points at
type LinkType string

const (
	LinkTypePR LinkType = "PR"
	LinkTypePO LinkType = "PO"
	LinkTypeGR LinkType = "GR"
)

// User represents an employee, manager or purchasing staff member
type User struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	Name       string     `gorm:"not null" json:"name"`
	Email      string     `gorm:"not null" json:"email"`
	Role       UserRole   `gorm:"not null;index" json:"role"`
	Department *string    `json:"department,omitempty"`
	ManagerID  *uuid.UUID `gorm:"type:uuid" json:"manager_id,omitempty"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`
}

// Supplier represents a supplier master record
type Supplier struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Name         string    `gorm:"not null" json:"name"`
	Code         string    `gorm:"not null;uniqueIndex" json:"code"`
	ContactEmail *string   `json:"contact_email,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Address      *string   `json:"address,omitempty"`
}

// Item represents an item master record (SKU-level definition)
type Item struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	SKU         string    `gorm:"column:sku;not null;uniqueIndex" json:"sku"`
	Name        string    `gorm:"not null" json:"name"`
	UOM         string    `gorm:"column:uom;not null" json:"uom"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
}

// InventoryRecord holds the current on-hand quantity for a SKU. OnHand is
// the cumulative sum of all received quantities ever posted for the SKU.
type InventoryRecord struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	SKU       string          `gorm:"column:sku;not null;uniqueIndex" json:"sku"`
	OnHand    decimal.Decimal `gorm:"type:numeric(18,3);not null" json:"on_hand"`
	UOM       string          `gorm:"column:uom;not null" json:"uom"`
}

// PurchaseRequestLine is an immutable snapshot of a requested item taken at
// submission time
type PurchaseRequestLine struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"-"`
	PurchaseRequestID uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	SKU               string          `gorm:"column:sku;not null" json:"sku"`
	Name              string          `gorm:"not null" json:"name"`
	Qty               decimal.Decimal `gorm:"type:numeric(18,3);not null" json:"qty"`
	UOM               string          `gorm:"column:uom;not null" json:"uom"`
}

// PurchaseRequest is an employee's demand for items, pending manager approval
type PurchaseRequest struct {
	ID             uuid.UUID             `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
	EmployeeID     uuid.UUID             `gorm:"type:uuid;not null;index" json:"employee_id"`
	ManagerID      uuid.UUID             `gorm:"type:uuid;not null;index" json:"manager_id"`
	Reason         *string               `json:"reason,omitempty"`
	Status         PurchaseRequestStatus `gorm:"not null;index" json:"status"`
	ApprovedBy     *uuid.UUID            `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt     *time.Time            `json:"approved_at,omitempty"`
	RejectedReason *string               `json:"rejected_reason,omitempty"`
	POID           *uuid.UUID            `gorm:"column:po_id;type:uuid" json:"po_id,omitempty"`
	Lines          []PurchaseRequestLine `gorm:"foreignKey:PurchaseRequestID" json:"lines"`
}

// PurchaseOrderLine is copied verbatim from the source PR's lines at PO
// creation time. It is a snapshot, not a live reference.
type PurchaseOrderLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"-"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	SKU             string          `gorm:"column:sku;not null" json:"sku"`
	Name            string          `gorm:"not null" json:"name"`
	Qty             decimal.Decimal `gorm:"type:numeric(18,3);not null" json:"qty"`
	UOM             string          `gorm:"column:uom;not null" json:"uom"`
}

// PurchaseOrder is a supplier-facing order created from an approved PR
type PurchaseOrder struct {
	ID         uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
	PRID       uuid.UUID           `gorm:"column:pr_id;type:uuid;not null;index" json:"pr_id"`
	SupplierID uuid.UUID           `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Status     PurchaseOrderStatus `gorm:"not null;index" json:"status"`
	Lines      []PurchaseOrderLine `gorm:"foreignKey:PurchaseOrderID" json:"lines"`
}

// GoodsReceiptLine records the delivered quantity of one SKU
type GoodsReceiptLine struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"-"`
	GoodsReceiptID uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	SKU            string          `gorm:"column:sku;not null" json:"sku"`
	Name           string          `gorm:"not null" json:"name"`
	QtyReceived    decimal.Decimal `gorm:"type:numeric(18,3);not null" json:"qty_received"`
	UOM            string          `gorm:"column:uom;not null" json:"uom"`
}

// GoodsReceipt is an immutable record of a delivery event against a PO.
// Multiple receipts may exist per PO for partial or staged deliveries.
type GoodsReceipt struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
	POID      uuid.UUID          `gorm:"column:po_id;type:uuid;not null;index" json:"po_id"`
	Source    string             `gorm:"not null;default:api" json:"source"`
	Lines     []GoodsReceiptLine `gorm:"foreignKey:GoodsReceiptID" json:"lines"`
}

// Notification is an inbox entry fanned out by workflow side effects.
// Exactly one of ToUserID (targeted) or Role (broadcast) is set.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	ToUserID  *uuid.UUID `gorm:"type:uuid;index" json:"to_user_id,omitempty"`
	Role      *UserRole  `gorm:"index" json:"role,omitempty"`
	Title     string     `gorm:"not null" json:"title"`
	Message   string     `gorm:"not null" json:"message"`
	LinkType  LinkType   `gorm:"not null" json:"link_type"`
	LinkID    uuid.UUID  `gorm:"type:uuid;not null" json:"link_id"`
	Read      bool       `gorm:"not null;default:false;index" json:"read"`
}

// OrderedTotal sums the ordered quantity across all lines of a PO, ignoring
// SKU granularity.
func (po *PurchaseOrder) OrderedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range po.Lines {
		total = total.Add(line.Qty)
	}
	return total
}

// ReceivedTotal sums the received quantity across a set of goods receipts.
func ReceivedTotal(receipts []GoodsReceipt) decimal.Decimal {
	total := decimal.Zero
	for _, gr := range receipts {
		for _, line := range gr.Lines {
			total = total.Add(line.QtyReceived)
		}
	}
	return total
}

// DerivePurchaseOrderStatus computes a PO's status from its ordered and
// received totals: received when the receipts cover the order, otherwise
// partially_received once anything arrived, otherwise sent.
func DerivePurchaseOrderStatus(ordered, received decimal.Decimal) PurchaseOrderStatus {
	if received.GreaterThanOrEqual(ordered) {
		return POStatusReceived
	}
	if received.GreaterThan(decimal.Zero) {
		return POStatusPartiallyReceived
	}
	return POStatusSent
}

// SnapshotOrderLines copies PR lines into independent PO lines. Later changes
// to the PR's line data must never propagate to the PO.
func SnapshotOrderLines(poID uuid.UUID, lines []PurchaseRequestLine) []PurchaseOrderLine {
	copied := make([]PurchaseOrderLine, 0, len(lines))
	for _, line := range lines {
		copied = append(copied, PurchaseOrderLine{
			ID:              uuid.New(),
			PurchaseOrderID: poID,
			SKU:             line.SKU,
			Name:            line.Name,
			Qty:             line.Qty,
			UOM:             line.UOM,
		})
	}
	return copied
}

// SetupModels configures GORM models and runs migrations
func SetupModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Supplier{},
		&Item{},
		&InventoryRecord{},
		&PurchaseRequest{},
		&PurchaseRequestLine{},
		&PurchaseOrder{},
		&PurchaseOrderLine{},
		&GoodsReceipt{},
		&GoodsReceiptLine{},
		&Notification{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to run auto migrations")
	}

	return nil
}
