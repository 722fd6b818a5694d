package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxStockIn  TransactionType = "stock_in"
	TxStockOut TransactionType = "stock_out"
	// TxAdjustment sets the stock to an absolute target value. The quantity
	// field carries the target, not a delta.
	TxAdjustment TransactionType = "adjustment"
)

type StockTransaction struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   Product   `gorm:"constraint:OnDelete:CASCADE" json:"product" validate:"-"`

	Type     TransactionType `gorm:"column:transaction_type;type:varchar(20);not null;index" json:"transaction_type" validate:"required,oneof=stock_in stock_out adjustment"`
	Quantity int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`

	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`

	ReferenceNumber *string `gorm:"type:varchar(255);index" json:"reference_number,omitempty"`
	Notes           *string `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy       string  `gorm:"type:varchar(255);default:'system'" json:"created_by"`

	// Snapshot of the product stock counter immediately before/after this
	// transaction was applied. Written at creation, recomputed on amend.
	PreviousStock int `gorm:"not null" json:"previous_stock"`
	NewStock      int `gorm:"not null" json:"new_stock"`

	TransactionDate time.Time `gorm:"not null;index" json:"transaction_date"`
}

func (StockTransaction) TableName() string {
	return "stock_transactions"
}

// SignedQuantity returns the quantity with the sign implied by the type.
func (t *StockTransaction) SignedQuantity() int {
	if t.Type == TxStockOut {
		return -t.Quantity
	}
	return t.Quantity
}

// TransactionCreateRequest is the payload for posting a transaction.
// UnitPrice defaults to the product's price and TotalAmount to
// unit price * quantity when omitted.
type TransactionCreateRequest struct {
	ProductID       uuid.UUID        `json:"product_id" validate:"uuid_required"`
	Type            TransactionType  `json:"transaction_type" validate:"required,oneof=stock_in stock_out adjustment"`
	Quantity        int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	TotalAmount     *decimal.Decimal `json:"total_amount"`
	ReferenceNumber *string          `json:"reference_number" validate:"omitempty,max=255"`
	Notes           *string          `json:"notes"`
}

// TransactionUpdateRequest carries the amendable fields only
type TransactionUpdateRequest struct {
	Quantity        *int             `json:"quantity" validate:"omitempty,gt=0"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	TotalAmount     *decimal.Decimal `json:"total_amount"`
	ReferenceNumber *string          `json:"reference_number" validate:"omitempty,max=255"`
	Notes           *string          `json:"notes"`
}

// TransactionResponse joins the transaction with product and supplier names
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductSKU      *string         `json:"product_sku,omitempty"`
	SupplierName    *string         `json:"supplier_name,omitempty"`
	Type            TransactionType `json:"transaction_type"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	PreviousStock   int             `json:"previous_stock"`
	NewStock        int             `json:"new_stock"`
	TransactionDate time.Time       `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToResponse converts StockTransaction to TransactionResponse. The Product
// association (and its Supplier) must be loaded.
func (t *StockTransaction) ToResponse() TransactionResponse {
	resp := TransactionResponse{
		ID:              t.ID,
		ProductID:       t.ProductID,
		ProductName:     t.Product.Name,
		ProductSKU:      t.Product.SKU,
		Type:            t.Type,
		Quantity:        t.Quantity,
		UnitPrice:       t.UnitPrice,
		TotalAmount:     t.TotalAmount,
		ReferenceNumber: t.ReferenceNumber,
		Notes:           t.Notes,
		PreviousStock:   t.PreviousStock,
		NewStock:        t.NewStock,
		TransactionDate: t.TransactionDate,
		CreatedAt:       t.CreatedAt,
	}
	if t.Product.Supplier != nil {
		resp.SupplierName = &t.Product.Supplier.Name
	}
	return resp
}

// TransactionSummary aggregates ledger activity over a window
type TransactionSummary struct {
	TotalTransactions int             `json:"total_transactions"`
	TotalStockIn      int             `json:"total_stock_in"`
	TotalStockOut     int             `json:"total_stock_out"`
	TotalAdjustments  int             `json:"total_adjustments"`
	TotalValueIn      decimal.Decimal `json:"total_value_in"`
	TotalValueOut     decimal.Decimal `json:"total_value_out"`
	NetStockChange    int             `json:"net_stock_change"`
	NetValueChange    decimal.Decimal `json:"net_value_change"`
}
