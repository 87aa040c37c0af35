package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vbonduro/appcatalog/internal/domain"
)

type ReviewStore struct {
	db *sql.DB
}

func NewReviewStore(db *sql.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

const reviewSelect = `
	SELECT r.id, r.app_id, r.user_id, u.username, r.rating, r.comment, r.date_added
	FROM reviews r JOIN users u ON u.id = r.user_id`

func scanReview(row interface{ Scan(...any) error }) (*domain.Review, error) {
	r := &domain.Review{}
	err := row.Scan(&r.ID, &r.AppID, &r.UserID, &r.Username, &r.Rating, &r.Comment, &r.DateAdded)
	return r, err
}

func (s *ReviewStore) Create(ctx context.Context, appID, userID int64, rating int, comment string, dateAdded time.Time) (*domain.Review, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (app_id, user_id, rating, comment, date_added) VALUES (?, ?, ?, ?, ?)
	`, appID, userID, rating, comment, sqlTime(dateAdded))
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ReviewStore) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	r, err := scanReview(s.db.QueryRowContext(ctx, reviewSelect+` WHERE r.id = ?`, id))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return r, nil
}

// ListByAppID returns an app's reviews, newest first.
func (s *ReviewStore) ListByAppID(ctx context.Context, appID int64) ([]*domain.Review, error) {
	rows, err := s.db.QueryContext(ctx, reviewSelect+`
		WHERE r.app_id = ? ORDER BY r.date_added DESC, r.id DESC
	`, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer closeRows(rows)

	reviews := make([]*domain.Review, 0)
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

func (s *ReviewStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM reviews WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if err := rowsAffectedOrNotFound(result); err != nil {
		return fmt.Errorf("failed to delete review %d: %w", id, err)
	}

	return nil
}
