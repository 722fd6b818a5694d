package service

import (
	"testing"

	"go-stock-management/internal/apperr"
	"go-stock-management/internal/model"
	"go-stock-management/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type supplierFixture struct {
	svc       SupplierService
	suppliers *mockSupplierRepo
	products  *mockProductRepo
}

func newSupplierFixture() *supplierFixture {
	suppliers := newMockSupplierRepo()
	products := newMockProductRepo()
	svc := NewSupplierService(suppliers, products, zap.NewNop())
	return &supplierFixture{svc: svc, suppliers: suppliers, products: products}
}

func TestSupplierService(t *testing.T) {
	t.Run("CreateSupplier_Success", func(t *testing.T) {
		f := newSupplierFixture()

		resp, err := f.svc.CreateSupplier(&model.SupplierCreateRequest{
			Name:  "Acme Metals",
			Email: strPtr("sales@acme.example"),
		})
		require.NoError(t, err)
		require.Equal(t, "Acme Metals", resp.Name)
		require.Equal(t, model.SupplierActive, resp.Status)
		require.Equal(t, int64(0), resp.ProductCount)
	})

	t.Run("CreateSupplier_RejectsDuplicateName", func(t *testing.T) {
		f := newSupplierFixture()
		f.suppliers.add(&model.Supplier{Name: "Acme Metals"})

		_, err := f.svc.CreateSupplier(&model.SupplierCreateRequest{Name: "Acme Metals"})
		require.True(t, apperr.IsConflict(err))
	})

	t.Run("CreateSupplier_RejectsDuplicateEmail", func(t *testing.T) {
		f := newSupplierFixture()
		f.suppliers.add(&model.Supplier{Name: "Acme Metals", Email: strPtr("sales@acme.example")})

		_, err := f.svc.CreateSupplier(&model.SupplierCreateRequest{
			Name:  "Acme Plastics",
			Email: strPtr("sales@acme.example"),
		})
		require.True(t, apperr.IsConflict(err))
	})

	t.Run("GetSupplier_IncludesProductCount", func(t *testing.T) {
		f := newSupplierFixture()
		supplier := f.suppliers.add(&model.Supplier{Name: "Acme Metals"})
		f.products.add(&model.Product{Name: "Bolt", SupplierID: &supplier.ID})
		f.products.add(&model.Product{Name: "Nut", SupplierID: &supplier.ID})

		resp, err := f.svc.GetSupplier(supplier.ID)
		require.NoError(t, err)
		require.Equal(t, int64(2), resp.ProductCount)
	})

	t.Run("UpdateSupplier_RenameToTakenNameConflicts", func(t *testing.T) {
		f := newSupplierFixture()
		f.suppliers.add(&model.Supplier{Name: "Taken"})
		supplier := f.suppliers.add(&model.Supplier{Name: "Acme Metals"})

		_, err := f.svc.UpdateSupplier(supplier.ID, &model.SupplierUpdateRequest{
			Name: strPtr("Taken"),
		})
		require.True(t, apperr.IsConflict(err))
	})

	t.Run("DeleteSupplier_BlockedByProducts", func(t *testing.T) {
		f := newSupplierFixture()
		supplier := f.suppliers.add(&model.Supplier{Name: "Acme Metals"})
		f.products.add(&model.Product{Name: "Bolt", SupplierID: &supplier.ID})

		err := f.svc.DeleteSupplier(supplier.ID)
		require.True(t, apperr.IsConflict(err))
		_, found := f.suppliers.suppliers[supplier.ID]
		require.True(t, found)
	})

	t.Run("DeleteSupplier_RemovesUnreferencedSupplier", func(t *testing.T) {
		f := newSupplierFixture()
		supplier := f.suppliers.add(&model.Supplier{Name: "Acme Metals"})

		require.NoError(t, f.svc.DeleteSupplier(supplier.ID))
		_, err := f.suppliers.FindByID(supplier.ID)
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("SupplierProducts_NotFound", func(t *testing.T) {
		f := newSupplierFixture()
		_, err := f.svc.SupplierProducts(uuid.New())
		require.True(t, apperr.IsNotFound(err))
	})

	t.Run("ListSuppliers_CountsPerSupplier", func(t *testing.T) {
		f := newSupplierFixture()
		a := f.suppliers.add(&model.Supplier{Name: "Alpha"})
		f.suppliers.add(&model.Supplier{Name: "Beta"})
		f.products.add(&model.Product{Name: "Bolt", SupplierID: &a.ID})

		responses, total, err := f.svc.ListSuppliers(repository.SupplierFilter{})
		require.NoError(t, err)
		require.Equal(t, int64(2), total)
		require.Equal(t, "Alpha", responses[0].Name)
		require.Equal(t, int64(1), responses[0].ProductCount)
		require.Equal(t, int64(0), responses[1].ProductCount)
	})
}
