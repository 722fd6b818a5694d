package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// The ledger's concurrency story depends on the product row actually being
// locked for the duration of the enclosing transaction, so assert the
// generated SQL carries the locking clause.
func TestFindByIDForUpdateEmitsRowLock(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)

	var captured string
	err = db.Callback().Query().After("gorm:query").Register("capture_sql", func(tx *gorm.DB) {
		captured = tx.Statement.SQL.String()
	})
	require.NoError(t, err)

	repo := NewProductRepo(db)
	_, _ = repo.FindByIDForUpdate(db, uuid.New())

	require.Contains(t, captured, "FOR UPDATE")
}
