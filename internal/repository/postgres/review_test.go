package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/avelev/review-system/internal/domain"
)

func TestReviewRepository_Create_Success(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewReviewRepository(sqlxDB)

	review := &domain.Review{
		ProductID: uuid.New(),
		UserID:    uuid.New(),
		Rating:    5,
		Comment:   "Great product!",
	}
	newID := uuid.New()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(review.ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(review.ProductID, review.UserID, review.Rating, review.Comment, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "verified_purchase", "helpful_votes", "created_at"}).
			AddRow(newID, true, 0, time.Now()))

	err := repo.Create(context.Background(), review)

	assert.NoError(t, err)
	assert.Equal(t, newID, review.ID)
	assert.True(t, review.VerifiedPurchase)
	assert.Zero(t, review.HelpfulVotes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_ProductNotFound(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewReviewRepository(sqlxDB)

	review := &domain.Review{ProductID: uuid.New(), UserID: uuid.New(), Rating: 4}

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(review.ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.Create(context.Background(), review)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_Duplicate(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewReviewRepository(sqlxDB)

	review := &domain.Review{ProductID: uuid.New(), UserID: uuid.New(), Rating: 4}

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(review.ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(review.ProductID, review.UserID, review.Rating, review.Comment, nil).
		WillReturnError(newUniqueViolationErr(reviewDuplicateConstraint))

	err := repo.Create(context.Background(), review)

	assert.ErrorIs(t, err, domain.ErrDuplicateReview)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByID_NotFound(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewReviewRepository(sqlxDB)

	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM reviews").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	review, err := repo.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, review)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByProductID_SortOrders(t *testing.T) {
	tests := []struct {
		sort    domain.SortOrder
		orderBy string
	}{
		{domain.SortNewest, "ORDER BY created_at DESC, id"},
		{domain.SortHighest, "ORDER BY rating DESC, id"},
		{domain.SortLowest, "ORDER BY rating ASC, id"},
		{domain.SortHelpful, "ORDER BY helpful_votes DESC, id"},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			sqlxDB, mock := newMockDB(t)
			repo := NewReviewRepository(sqlxDB)

			productID := uuid.New()
			rows := sqlmock.NewRows([]string{"id", "product_id", "user_id", "rating", "comment", "image_path", "verified_purchase", "helpful_votes", "created_at"}).
				AddRow(uuid.New(), productID, uuid.New(), 5, "ok", nil, true, 3, time.Now())

			mock.ExpectQuery(tt.orderBy).
				WithArgs(productID, 20, 0).
				WillReturnRows(rows)

			reviews, err := repo.GetByProductID(context.Background(), productID, tt.sort, 20, 0)

			assert.NoError(t, err)
			assert.Len(t, reviews, 1)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReviewRepository_ListAll(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewReviewRepository(sqlxDB)

	rows := sqlmock.NewRows([]string{"id", "product_id", "user_id", "rating", "comment", "image_path", "verified_purchase", "helpful_votes", "created_at", "product_name", "author_name"}).
		AddRow(uuid.New(), uuid.New(), uuid.New(), 4, "solid", nil, true, 2, time.Now(), "Demo Headphones", "testuser")

	mock.ExpectQuery("JOIN products p ON p.id = rev.product_id").
		WithArgs(20, 0).
		WillReturnRows(rows)

	reviews, err := repo.ListAll(context.Background(), 20, 0)

	assert.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.Equal(t, "Demo Headphones", reviews[0].ProductName)
	assert.Equal(t, "testuser", reviews[0].AuthorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_CountAll(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewReviewRepository(sqlxDB)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reviews`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountAll(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestReviewRepository_AverageByProductID_Empty(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewReviewRepository(sqlxDB)

	productID := uuid.New()
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))

	avg, err := repo.AverageByProductID(context.Background(), productID)

	assert.NoError(t, err)
	assert.Zero(t, avg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_Cascades(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewReviewRepository(sqlxDB)

	id := uuid.New()
	imagePath := "/uploads/pic.jpg"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT image_path FROM reviews").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"image_path"}).AddRow(imagePath))
	mock.ExpectExec("DELETE FROM review_votes").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM review_reports").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM reviews").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := repo.Delete(context.Background(), id)

	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, imagePath, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_NotFound(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewReviewRepository(sqlxDB)

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT image_path FROM reviews").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"image_path"}))
	mock.ExpectRollback()

	got, err := repo.Delete(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
