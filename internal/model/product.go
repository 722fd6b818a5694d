package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product statuses
const (
	ProductActive       = "active"
	ProductInactive     = "inactive"
	ProductDiscontinued = "discontinued"
)

// Stock statuses derived from current stock vs minimum level
const (
	StockStatusOut  = "out_of_stock"
	StockStatusLow  = "low_stock"
	StockStatusGood = "good"
)

type Product struct {
	BaseModel
	Name        string  `gorm:"type:varchar(255);not null;index" json:"name" validate:"required"`
	SKU         *string `gorm:"type:varchar(100);uniqueIndex" json:"sku,omitempty"`
	Category    *string `gorm:"type:varchar(100);index" json:"category,omitempty"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"`
	MinStockLevel int             `gorm:"default:0" json:"min_stock_level" validate:"gte=0"`
	CurrentStock  int             `gorm:"default:0;index" json:"current_stock" validate:"gte=0"`

	SupplierID *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier   *Supplier  `gorm:"foreignKey:SupplierID;constraint:OnDelete:SET NULL" json:"supplier,omitempty"`

	Status string `gorm:"type:varchar(20);default:'active';index" json:"status" validate:"omitempty,oneof=active inactive discontinued"`

	Transactions []StockTransaction `json:"transactions,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// InventoryValue is current_stock * unit_price.
func (p *Product) InventoryValue() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}

func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinStockLevel
}

func (p *Product) IsOutOfStock() bool {
	return p.CurrentStock == 0
}

func (p *Product) StockStatus() string {
	switch {
	case p.IsOutOfStock():
		return StockStatusOut
	case p.IsLowStock():
		return StockStatusLow
	default:
		return StockStatusGood
	}
}

func (p *Product) IsActive() bool {
	return p.Status == ProductActive
}

// ProductCreateRequest is the payload for creating a product
type ProductCreateRequest struct {
	Name          string          `json:"name" validate:"required,max=255"`
	SKU           *string         `json:"sku" validate:"omitempty,max=100"`
	Category      *string         `json:"category" validate:"omitempty,max=100"`
	Description   *string         `json:"description"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	MinStockLevel int             `json:"min_stock_level" validate:"gte=0"`
	CurrentStock  int             `json:"current_stock" validate:"gte=0"`
	SupplierID    *uuid.UUID      `json:"supplier_id"`
	Status        string          `json:"status" validate:"omitempty,oneof=active inactive discontinued"`
}

// ProductUpdateRequest carries only the fields being changed
type ProductUpdateRequest struct {
	Name          *string          `json:"name" validate:"omitempty,max=255"`
	SKU           *string          `json:"sku" validate:"omitempty,max=100"`
	Category      *string          `json:"category" validate:"omitempty,max=100"`
	Description   *string          `json:"description"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	MinStockLevel *int             `json:"min_stock_level" validate:"omitempty,gte=0"`
	CurrentStock  *int             `json:"current_stock" validate:"omitempty,gte=0"`
	SupplierID    *uuid.UUID       `json:"supplier_id"`
	Status        *string          `json:"status" validate:"omitempty,oneof=active inactive discontinued"`
}

// SupplierInfo is the compact supplier shape embedded in product responses
type SupplierInfo struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactPerson *string   `json:"contact_person,omitempty"`
}

// ProductResponse for API responses, including derived stock fields
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	SKU            *string         `json:"sku,omitempty"`
	Category       *string         `json:"category,omitempty"`
	Description    *string         `json:"description,omitempty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	MinStockLevel  int             `json:"min_stock_level"`
	CurrentStock   int             `json:"current_stock"`
	SupplierID     *uuid.UUID      `json:"supplier_id,omitempty"`
	Status         string          `json:"status"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	IsLowStock     bool            `json:"is_low_stock"`
	StockStatus    string          `json:"stock_status"`
	Supplier       *SupplierInfo   `json:"supplier,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToResponse converts Product to ProductResponse
func (p *Product) ToResponse() ProductResponse {
	resp := ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		SKU:            p.SKU,
		Category:       p.Category,
		Description:    p.Description,
		UnitPrice:      p.UnitPrice,
		MinStockLevel:  p.MinStockLevel,
		CurrentStock:   p.CurrentStock,
		SupplierID:     p.SupplierID,
		Status:         p.Status,
		InventoryValue: p.InventoryValue(),
		IsLowStock:     p.IsLowStock(),
		StockStatus:    p.StockStatus(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.Supplier != nil {
		resp.Supplier = &SupplierInfo{
			ID:            p.Supplier.ID,
			Name:          p.Supplier.Name,
			ContactPerson: p.Supplier.ContactPerson,
		}
	}
	return resp
}

// LowStockItem is one row of the low stock / reorder report
type LowStockItem struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	SKU           *string         `json:"sku,omitempty"`
	CurrentStock  int             `json:"current_stock"`
	MinStockLevel int             `json:"min_stock_level"`
	Shortage      int             `json:"shortage"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	ReorderValue  decimal.Decimal `json:"reorder_value"`
	Priority      string          `json:"priority"`
}

// LowStockReport aggregates the report rows with the total reorder value
type LowStockReport struct {
	Items              []LowStockItem  `json:"items"`
	TotalItems         int             `json:"total_items"`
	TotalShortageValue decimal.Decimal `json:"total_shortage_value"`
}
