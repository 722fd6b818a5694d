package service

import (
	"database/sql"
	"errors"
	"time"

	"go-stock-management/internal/apperr"
	"go-stock-management/internal/model"
	"go-stock-management/internal/repository"
	"go-stock-management/internal/ws"
	"go-stock-management/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TxRunner is the scoped transaction boundary every ledger operation runs
// inside. *gorm.DB satisfies it.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// stockFormulas maps each transaction type to its stock computation, keeping
// the three formulas auditable in one place. For adjustments the quantity is
// an absolute target value, not a delta.
var stockFormulas = map[model.TransactionType]func(previous, quantity int) int{
	model.TxStockIn:    func(previous, quantity int) int { return previous + quantity },
	model.TxStockOut:   func(previous, quantity int) int { return previous - quantity },
	model.TxAdjustment: func(previous, quantity int) int { return quantity },
}

// LedgerService maintains the stock-balance invariant: a product's
// current_stock always equals the new_stock of its most recently applied
// transaction. Every operation writes the transaction row and the product row
// inside one database transaction with the product row locked.
type LedgerService interface {
	PostTransaction(req *model.TransactionCreateRequest, createdBy string) (*model.TransactionResponse, error)
	AmendTransaction(id uuid.UUID, req *model.TransactionUpdateRequest) (*model.TransactionResponse, error)
	DeleteTransaction(id uuid.UUID) error
	GetTransaction(id uuid.UUID) (*model.TransactionResponse, error)
	ListTransactions(filter repository.TransactionFilter) ([]model.TransactionResponse, int64, error)
	Summary(filter repository.TransactionFilter) (*model.TransactionSummary, error)
}

type ledgerService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	db          TxRunner
	hub         *ws.Hub
	log         *zap.Logger
}

func NewLedgerService(
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
	db TxRunner,
	hub *ws.Hub,
	log *zap.Logger,
) LedgerService {
	return &ledgerService{
		productRepo: productRepo,
		txRepo:      txRepo,
		db:          db,
		hub:         hub,
		log:         log,
	}
}

func validationError(errs []validator.FieldError) error {
	first := errs[0]
	return apperr.Validation("validation failed: field '%s' failed on tag '%s'", first.Field, first.Tag)
}

func (s *ledgerService) PostTransaction(req *model.TransactionCreateRequest, createdBy string) (*model.TransactionResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	var created *model.StockTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.FindByIDForUpdate(tx, req.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product not found")
			}
			return err
		}

		if req.Type == model.TxStockOut && product.CurrentStock < req.Quantity {
			return apperr.InsufficientStock(product.CurrentStock, req.Quantity)
		}

		unitPrice := product.UnitPrice
		if req.UnitPrice != nil {
			unitPrice = *req.UnitPrice
		}
		totalAmount := unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
		if req.TotalAmount != nil {
			totalAmount = *req.TotalAmount
		}

		previous := product.CurrentStock
		newStock := stockFormulas[req.Type](previous, req.Quantity)

		created = &model.StockTransaction{
			ProductID:       req.ProductID,
			Type:            req.Type,
			Quantity:        req.Quantity,
			UnitPrice:       unitPrice,
			TotalAmount:     totalAmount,
			ReferenceNumber: req.ReferenceNumber,
			Notes:           req.Notes,
			CreatedBy:       createdBy,
			PreviousStock:   previous,
			NewStock:        newStock,
			TransactionDate: time.Now(),
		}

		if err := s.txRepo.Create(tx, created); err != nil {
			return err
		}
		return s.productRepo.UpdateStock(tx, product.ID, newStock)
	})
	if err != nil {
		return nil, err
	}

	return s.finishWrite(created.ID, "transaction_created")
}

func (s *ledgerService) AmendTransaction(id uuid.UUID, req *model.TransactionUpdateRequest) (*model.TransactionResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		t, err := s.txRepo.FindByID(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("transaction not found")
			}
			return err
		}

		product, err := s.productRepo.FindByIDForUpdate(tx, t.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product not found")
			}
			return err
		}

		if req.Quantity != nil && *req.Quantity != t.Quantity {
			// Revert this transaction's effect before validating, so the
			// sufficiency check reflects the stock as if it never happened.
			baseline := t.PreviousStock
			if t.Type == model.TxStockOut && baseline < *req.Quantity {
				return apperr.InsufficientStock(baseline, *req.Quantity)
			}

			newStock := stockFormulas[t.Type](baseline, *req.Quantity)
			t.Quantity = *req.Quantity
			t.NewStock = newStock
			t.TotalAmount = t.UnitPrice.Mul(decimal.NewFromInt(int64(*req.Quantity)))

			if err := s.productRepo.UpdateStock(tx, product.ID, newStock); err != nil {
				return err
			}
		}

		if req.UnitPrice != nil {
			t.UnitPrice = *req.UnitPrice
			t.TotalAmount = req.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
		}
		if req.TotalAmount != nil {
			t.TotalAmount = *req.TotalAmount
		}
		if req.ReferenceNumber != nil {
			t.ReferenceNumber = req.ReferenceNumber
		}
		if req.Notes != nil {
			t.Notes = req.Notes
		}

		return s.txRepo.Save(tx, t)
	})
	if err != nil {
		return nil, err
	}

	return s.finishWrite(id, "transaction_amended")
}

func (s *ledgerService) DeleteTransaction(id uuid.UUID) error {
	var productID uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		t, err := s.txRepo.FindByID(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("transaction not found")
			}
			return err
		}

		product, err := s.productRepo.FindByIDForUpdate(tx, t.ProductID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Reverting to previous_stock is only sound for the last-applied
		// transaction of a product, so out-of-order deletes are rejected.
		// The check runs under the product row lock taken above; a concurrent
		// post against the same product cannot slip in between check and
		// revert.
		newer, err := s.txRepo.ExistsNewerForProduct(tx, t.ProductID, t.ID, t.CreatedAt)
		if err != nil {
			return err
		}
		if newer {
			return apperr.Conflict("cannot delete transaction: newer transactions exist for this product")
		}

		if product != nil {
			if err := s.productRepo.UpdateStock(tx, product.ID, t.PreviousStock); err != nil {
				return err
			}
		}

		productID = t.ProductID
		return s.txRepo.Delete(tx, t.ID)
	})
	if err != nil {
		return err
	}

	s.log.Info("transaction deleted, stock reverted",
		zap.String("transaction_id", id.String()),
		zap.String("product_id", productID.String()))
	go s.hub.BroadcastEvent("transaction_deleted", map[string]interface{}{
		"transaction_id": id,
		"product_id":     productID,
	})
	return nil
}

// finishWrite reloads the transaction with its joins, logs the write and
// broadcasts it to dashboard clients.
func (s *ledgerService) finishWrite(id uuid.UUID, event string) (*model.TransactionResponse, error) {
	t, err := s.txRepo.FindByID(nil, id)
	if err != nil {
		return nil, err
	}
	resp := t.ToResponse()

	s.log.Info("ledger write applied",
		zap.String("event", event),
		zap.String("transaction_id", t.ID.String()),
		zap.String("type", string(t.Type)),
		zap.Int("quantity", t.Quantity),
		zap.Int("new_stock", t.NewStock))

	go s.hub.BroadcastEvent(event, resp)
	return &resp, nil
}

func (s *ledgerService) GetTransaction(id uuid.UUID) (*model.TransactionResponse, error) {
	t, err := s.txRepo.FindByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("transaction not found")
		}
		return nil, err
	}
	resp := t.ToResponse()
	return &resp, nil
}

func (s *ledgerService) ListTransactions(filter repository.TransactionFilter) ([]model.TransactionResponse, int64, error) {
	transactions, total, err := s.txRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]model.TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = transactions[i].ToResponse()
	}
	return responses, total, nil
}

// Summary aggregates ledger activity over the filter window.
func (s *ledgerService) Summary(filter repository.TransactionFilter) (*model.TransactionSummary, error) {
	transactions, err := s.txRepo.ListAll(filter)
	if err != nil {
		return nil, err
	}

	summary := &model.TransactionSummary{
		TotalTransactions: len(transactions),
		TotalValueIn:      decimal.Zero,
		TotalValueOut:     decimal.Zero,
	}
	for i := range transactions {
		t := &transactions[i]
		switch t.Type {
		case model.TxStockIn:
			summary.TotalStockIn += t.Quantity
			summary.TotalValueIn = summary.TotalValueIn.Add(t.TotalAmount)
		case model.TxStockOut:
			summary.TotalStockOut += t.Quantity
			summary.TotalValueOut = summary.TotalValueOut.Add(t.TotalAmount)
		case model.TxAdjustment:
			summary.TotalAdjustments++
		}
	}
	summary.NetStockChange = summary.TotalStockIn - summary.TotalStockOut
	summary.NetValueChange = summary.TotalValueIn.Sub(summary.TotalValueOut)
	return summary, nil
}
