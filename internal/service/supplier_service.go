package service

import (
	"errors"

	"go-stock-management/internal/apperr"
	"go-stock-management/internal/model"
	"go-stock-management/internal/repository"
	"go-stock-management/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SupplierService interface {
	CreateSupplier(req *model.SupplierCreateRequest) (*model.SupplierResponse, error)
	GetSupplier(id uuid.UUID) (*model.SupplierResponse, error)
	ListSuppliers(filter repository.SupplierFilter) ([]model.SupplierResponse, int64, error)
	UpdateSupplier(id uuid.UUID, req *model.SupplierUpdateRequest) (*model.SupplierResponse, error)
	DeleteSupplier(id uuid.UUID) error
	SupplierProducts(id uuid.UUID) ([]model.ProductResponse, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	log          *zap.Logger
}

func NewSupplierService(
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	log *zap.Logger,
) SupplierService {
	return &supplierService{
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		log:          log,
	}
}

// checkName enforces supplier name uniqueness, ignoring the supplier being updated.
func (s *supplierService) checkName(name string, exclude uuid.UUID) error {
	existing, err := s.supplierRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != exclude {
		return apperr.Conflict("supplier with this name already exists")
	}
	return nil
}

func (s *supplierService) checkEmail(email string, exclude uuid.UUID) error {
	existing, err := s.supplierRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != exclude {
		return apperr.Conflict("supplier with this email already exists")
	}
	return nil
}

func (s *supplierService) CreateSupplier(req *model.SupplierCreateRequest) (*model.SupplierResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if err := s.checkName(req.Name, uuid.Nil); err != nil {
		return nil, err
	}
	if req.Email != nil {
		if err := s.checkEmail(*req.Email, uuid.Nil); err != nil {
			return nil, err
		}
	}

	supplier := &model.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Website:       req.Website,
		Notes:         req.Notes,
		Status:        model.SupplierActive,
	}
	if err := s.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}

	s.log.Info("supplier created",
		zap.String("supplier_id", supplier.ID.String()),
		zap.String("name", supplier.Name))

	resp := supplier.ToResponse(0)
	return &resp, nil
}

func (s *supplierService) GetSupplier(id uuid.UUID) (*model.SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("supplier not found")
		}
		return nil, err
	}
	count, err := s.productRepo.CountBySupplier(id)
	if err != nil {
		return nil, err
	}
	resp := supplier.ToResponse(count)
	return &resp, nil
}

func (s *supplierService) ListSuppliers(filter repository.SupplierFilter) ([]model.SupplierResponse, int64, error) {
	suppliers, total, err := s.supplierRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]model.SupplierResponse, len(suppliers))
	for i := range suppliers {
		count, err := s.productRepo.CountBySupplier(suppliers[i].ID)
		if err != nil {
			return nil, 0, err
		}
		responses[i] = suppliers[i].ToResponse(count)
	}
	return responses, total, nil
}

func (s *supplierService) UpdateSupplier(id uuid.UUID, req *model.SupplierUpdateRequest) (*model.SupplierResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("supplier not found")
		}
		return nil, err
	}

	if req.Name != nil && *req.Name != supplier.Name {
		if err := s.checkName(*req.Name, id); err != nil {
			return nil, err
		}
	}
	if req.Email != nil && (supplier.Email == nil || *req.Email != *supplier.Email) {
		if err := s.checkEmail(*req.Email, id); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.ContactPerson != nil {
		supplier.ContactPerson = req.ContactPerson
	}
	if req.Email != nil {
		supplier.Email = req.Email
	}
	if req.Phone != nil {
		supplier.Phone = req.Phone
	}
	if req.Address != nil {
		supplier.Address = req.Address
	}
	if req.Website != nil {
		supplier.Website = req.Website
	}
	if req.Notes != nil {
		supplier.Notes = req.Notes
	}
	if req.Status != nil {
		supplier.Status = *req.Status
	}

	if err := s.supplierRepo.Save(supplier); err != nil {
		return nil, err
	}

	s.log.Info("supplier updated", zap.String("supplier_id", id.String()))
	return s.GetSupplier(id)
}

// DeleteSupplier removes a supplier unless products still reference it.
func (s *supplierService) DeleteSupplier(id uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("supplier not found")
		}
		return err
	}

	count, err := s.productRepo.CountBySupplier(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("cannot delete supplier: %d products are associated with it", count)
	}

	if err := s.supplierRepo.Delete(id); err != nil {
		return err
	}
	s.log.Info("supplier deleted",
		zap.String("supplier_id", id.String()),
		zap.String("name", supplier.Name))
	return nil
}

func (s *supplierService) SupplierProducts(id uuid.UUID) ([]model.ProductResponse, error) {
	if _, err := s.supplierRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("supplier not found")
		}
		return nil, err
	}

	products, err := s.productRepo.FindBySupplier(id)
	if err != nil {
		return nil, err
	}
	responses := make([]model.ProductResponse, len(products))
	for i := range products {
		responses[i] = products[i].ToResponse()
	}
	return responses, nil
}
