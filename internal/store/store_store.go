package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/appcatalog/internal/domain"
)

// StoreFilter narrows StoreStore.Search. Zero values match everything.
type StoreFilter struct {
	Query string // substring of name or location, case-insensitive
	AppID int64  // only stores carrying this app
}

// StoreStore persists retail stores and their app membership.
type StoreStore struct {
	db *sql.DB
}

func NewStoreStore(db *sql.DB) *StoreStore {
	return &StoreStore{db: db}
}

func (s *StoreStore) Create(ctx context.Context, name, location string, appIDs []int64) (*domain.Store, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO stores (name, location) VALUES (?, ?)
		`, name, location)
		if err != nil {
			return fmt.Errorf("failed to create store: %w", err)
		}

		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}

		return insertMembership(ctx, tx, id, appIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *StoreStore) GetByID(ctx context.Context, id int64) (*domain.Store, error) {
	st := &domain.Store{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, location FROM stores WHERE id = ?
	`, id).Scan(&st.ID, &st.Name, &st.Location)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	return st, nil
}

func (s *StoreStore) List(ctx context.Context) ([]*domain.Store, error) {
	return s.Search(ctx, StoreFilter{})
}

func (s *StoreStore) Search(ctx context.Context, f StoreFilter) ([]*domain.Store, error) {
	var (
		where []string
		args  []any
	)
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		where = append(where, "(LOWER(s.name) LIKE ? OR LOWER(s.location) LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if f.AppID != 0 {
		where = append(where, "EXISTS (SELECT 1 FROM store_apps sa WHERE sa.store_id = s.id AND sa.app_id = ?)")
		args = append(args, f.AppID)
	}

	query := `SELECT s.id, s.name, s.location FROM stores s`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY s.name COLLATE NOCASE ASC, s.id ASC`

	return s.query(ctx, query, args...)
}

// ListByAppID returns every store whose membership includes appID. The
// result is never nil: an app no store carries yields an empty slice.
func (s *StoreStore) ListByAppID(ctx context.Context, appID int64) ([]*domain.Store, error) {
	return s.query(ctx, `
		SELECT s.id, s.name, s.location FROM stores s
		JOIN store_apps sa ON sa.store_id = s.id
		WHERE sa.app_id = ?
		ORDER BY s.name COLLATE NOCASE ASC, s.id ASC
	`, appID)
}

func (s *StoreStore) query(ctx context.Context, query string, args ...any) ([]*domain.Store, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer closeRows(rows)

	stores := make([]*domain.Store, 0)
	for rows.Next() {
		st := &domain.Store{}
		if err := rows.Scan(&st.ID, &st.Name, &st.Location); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stores: %w", err)
	}

	return stores, nil
}

// AppIDs returns the ids of the apps a store carries, ascending.
func (s *StoreStore) AppIDs(ctx context.Context, storeID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT app_id FROM store_apps WHERE store_id = ? ORDER BY app_id ASC
	`, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list store apps: %w", err)
	}
	defer closeRows(rows)

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan store app: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating store apps: %w", err)
	}

	return ids, nil
}

// Update replaces a store's name, location and full app membership.
func (s *StoreStore) Update(ctx context.Context, id int64, name, location string, appIDs []int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE stores SET name = ?, location = ? WHERE id = ?
		`, name, location, id)
		if err != nil {
			return fmt.Errorf("failed to update store: %w", err)
		}
		if err := rowsAffectedOrNotFound(result); err != nil {
			return fmt.Errorf("failed to update store %d: %w", id, err)
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM store_apps WHERE store_id = ?
		`, id); err != nil {
			return fmt.Errorf("failed to clear store apps: %w", err)
		}

		return insertMembership(ctx, tx, id, appIDs)
	})
}

func (s *StoreStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM stores WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}

	if err := rowsAffectedOrNotFound(result); err != nil {
		return fmt.Errorf("failed to delete store %d: %w", id, err)
	}

	return nil
}

func insertMembership(ctx context.Context, tx *sql.Tx, storeID int64, appIDs []int64) error {
	for _, appID := range appIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO store_apps (store_id, app_id) VALUES (?, ?)
		`, storeID, appID); err != nil {
			return fmt.Errorf("failed to add app %d to store: %w", appID, err)
		}
	}
	return nil
}

func (s *StoreStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			slog.Error("failed to roll back transaction", "error", rerr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
