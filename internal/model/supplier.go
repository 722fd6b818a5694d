package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier statuses
const (
	SupplierActive   = "active"
	SupplierInactive = "inactive"
)

type Supplier struct {
	BaseModel
	Name          string  `gorm:"type:varchar(255);not null;uniqueIndex" json:"name" validate:"required"`
	ContactPerson *string `gorm:"type:varchar(255)" json:"contact_person,omitempty"`
	Email         *string `gorm:"type:varchar(255)" json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Address       *string `gorm:"type:text" json:"address,omitempty"`
	Website       *string `gorm:"type:varchar(500)" json:"website,omitempty"`
	Notes         *string `gorm:"type:text" json:"notes,omitempty"`

	Status string `gorm:"type:varchar(20);default:'active';index" json:"status" validate:"omitempty,oneof=active inactive"`

	Products []Product `json:"products,omitempty"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

func (s *Supplier) IsActive() bool {
	return s.Status == SupplierActive
}

// SupplierCreateRequest is the payload for creating a supplier
type SupplierCreateRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=255"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=255"`
	Email         *string `json:"email" validate:"omitempty,email,max=255"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	Address       *string `json:"address"`
	Website       *string `json:"website" validate:"omitempty,max=500"`
	Notes         *string `json:"notes"`
}

// SupplierUpdateRequest carries only the fields being changed
type SupplierUpdateRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=255"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=255"`
	Email         *string `json:"email" validate:"omitempty,email,max=255"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	Address       *string `json:"address"`
	Website       *string `json:"website" validate:"omitempty,max=500"`
	Notes         *string `json:"notes"`
	Status        *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// SupplierResponse for API responses
type SupplierResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactPerson *string   `json:"contact_person,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Website       *string   `json:"website,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	Status        string    `json:"status"`
	ProductCount  int64     `json:"product_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToResponse converts Supplier to SupplierResponse
func (s *Supplier) ToResponse(productCount int64) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		Website:       s.Website,
		Notes:         s.Notes,
		Status:        s.Status,
		ProductCount:  productCount,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
