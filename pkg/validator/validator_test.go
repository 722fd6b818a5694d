package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name      string    `validate:"required,min=3"`
	ProductID uuid.UUID `validate:"uuid_required"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("PassesValidStruct", func(t *testing.T) {
		errs := ValidateStruct(sampleRequest{Name: "widget", ProductID: uuid.New()})
		require.Empty(t, errs)
	})

	t.Run("ReportsEveryFailedField", func(t *testing.T) {
		errs := ValidateStruct(sampleRequest{})
		require.Len(t, errs, 2)
		require.Equal(t, "sampleRequest.Name", errs[0].Field)
		require.Equal(t, "required", errs[0].Tag)
		require.Equal(t, "sampleRequest.ProductID", errs[1].Field)
		require.Equal(t, "uuid_required", errs[1].Tag)
	})

	t.Run("CapturesTagParam", func(t *testing.T) {
		errs := ValidateStruct(sampleRequest{Name: "ab", ProductID: uuid.New()})
		require.Len(t, errs, 1)
		require.Equal(t, "min", errs[0].Tag)
		require.Equal(t, "3", errs[0].Param)
	})

	t.Run("NilUUIDFailsUUIDRequired", func(t *testing.T) {
		errs := ValidateStruct(sampleRequest{Name: "widget", ProductID: uuid.Nil})
		require.Len(t, errs, 1)
		require.Equal(t, "sampleRequest.ProductID", errs[0].Field)
	})
}
