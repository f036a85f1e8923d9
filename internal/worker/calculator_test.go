package worker

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelev/review-system/internal/pkg/logger"
)

func newTestCalculator(t *testing.T) (*Calculator, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	log := logger.New("test")
	return NewCalculator(sqlxDB, log), mock
}

func TestCalculator_CalculateAndUpdate_Success(t *testing.T) {
	calculator, mock := newTestCalculator(t)

	productID := uuid.New()

	mock.ExpectExec("UPDATE products").
		WithArgs(productID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := calculator.CalculateAndUpdate(context.Background(), productID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalculator_CalculateAndUpdate_ProductNotFound(t *testing.T) {
	calculator, mock := newTestCalculator(t)

	productID := uuid.New()

	// Product removed from the catalog: 0 rows affected is not an error
	mock.ExpectExec("UPDATE products").
		WithArgs(productID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := calculator.CalculateAndUpdate(context.Background(), productID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalculator_CalculateAndUpdate_QueryError(t *testing.T) {
	calculator, mock := newTestCalculator(t)

	productID := uuid.New()

	mock.ExpectExec("UPDATE products").
		WithArgs(productID, sqlmock.AnyArg()).
		WillReturnError(assert.AnError)

	err := calculator.CalculateAndUpdate(context.Background(), productID)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalculator_GetCurrentRating(t *testing.T) {
	calculator, mock := newTestCalculator(t)

	productID := uuid.New()

	mock.ExpectQuery("SELECT average_rating FROM products").
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"average_rating"}).AddRow(4.2))

	rating, err := calculator.GetCurrentRating(context.Background(), productID)

	assert.NoError(t, err)
	assert.InDelta(t, 4.2, rating, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}
