package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vbonduro/appcatalog/internal/domain"
)

// AppFilter narrows AppStore.Search. Zero values match everything.
type AppFilter struct {
	Query string // substring of name or description, case-insensitive
	Type  domain.AppType
	Added TimeRange // date_added window
}

type AppStore struct {
	db *sql.DB
}

func NewAppStore(db *sql.DB) *AppStore {
	return &AppStore{db: db}
}

const appColumns = `id, name, image, date_added, type, description`

func scanApp(row interface{ Scan(...any) error }) (*domain.App, error) {
	app := &domain.App{}
	var appType string
	if err := row.Scan(&app.ID, &app.Name, &app.Image, &app.DateAdded, &appType, &app.Description); err != nil {
		return nil, err
	}
	app.Type = domain.AppType(appType)
	return app, nil
}

func (s *AppStore) Create(ctx context.Context, app *domain.App) (*domain.App, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO apps (name, image, date_added, type, description) VALUES (?, ?, ?, ?, ?)
	`, app.Name, app.Image, sqlTime(app.DateAdded), string(app.Type), app.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create app: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *AppStore) GetByID(ctx context.Context, id int64) (*domain.App, error) {
	app, err := scanApp(s.db.QueryRowContext(ctx, `
		SELECT `+appColumns+` FROM apps WHERE id = ?
	`, id))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get app: %w", err)
	}

	return app, nil
}

func (s *AppStore) List(ctx context.Context) ([]*domain.App, error) {
	return s.Search(ctx, AppFilter{})
}

func (s *AppStore) Search(ctx context.Context, f AppFilter) ([]*domain.App, error) {
	var (
		where []string
		args  []any
	)
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	where, args = appendRange(where, args, "date_added", f.Added, sqlTime)

	query := `SELECT ` + appColumns + ` FROM apps`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name COLLATE NOCASE ASC, id ASC`

	return s.query(ctx, query, args...)
}

// ListByStoreID returns the apps a store carries.
func (s *AppStore) ListByStoreID(ctx context.Context, storeID int64) ([]*domain.App, error) {
	return s.query(ctx, `
		SELECT a.id, a.name, a.image, a.date_added, a.type, a.description FROM apps a
		JOIN store_apps sa ON sa.app_id = a.id
		WHERE sa.store_id = ?
		ORDER BY a.name COLLATE NOCASE ASC, a.id ASC
	`, storeID)
}

func (s *AppStore) query(ctx context.Context, query string, args ...any) ([]*domain.App, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list apps: %w", err)
	}
	defer closeRows(rows)

	apps := make([]*domain.App, 0)
	for rows.Next() {
		app, err := scanApp(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan app: %w", err)
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating apps: %w", err)
	}

	return apps, nil
}

func (s *AppStore) Update(ctx context.Context, app *domain.App) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE apps SET name = ?, image = ?, type = ?, description = ? WHERE id = ?
	`, app.Name, app.Image, string(app.Type), app.Description, app.ID)
	if err != nil {
		return fmt.Errorf("failed to update app: %w", err)
	}

	if err := rowsAffectedOrNotFound(result); err != nil {
		return fmt.Errorf("failed to update app %d: %w", app.ID, err)
	}

	return nil
}

func (s *AppStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM apps WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete app: %w", err)
	}

	if err := rowsAffectedOrNotFound(result); err != nil {
		return fmt.Errorf("failed to delete app %d: %w", id, err)
	}

	return nil
}
