package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/vbonduro/appcatalog/internal/domain"
)

// CertificateFilter narrows CertificateStore.Search. Zero values match everything.
type CertificateFilter struct {
	Query      string // substring of app name or certificate number
	Issued     TimeRange
	ValidUntil TimeRange
}

type CertificateStore struct {
	db *sql.DB
}

func NewCertificateStore(db *sql.DB) *CertificateStore {
	return &CertificateStore{db: db}
}

const certificateSelect = `
	SELECT c.id, c.app_id, a.name, c.certificate_number, c.issue_date, c.valid_until
	FROM certificates c JOIN apps a ON a.id = c.app_id`

func scanCertificate(row interface{ Scan(...any) error }) (*domain.Certificate, error) {
	c := &domain.Certificate{}
	err := row.Scan(&c.ID, &c.AppID, &c.AppName, &c.CertificateNumber, &c.IssueDate, &c.ValidUntil)
	return c, err
}

func (s *CertificateStore) Create(ctx context.Context, appID int64, number string, issueDate, validUntil time.Time) (*domain.Certificate, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO certificates (app_id, certificate_number, issue_date, valid_until) VALUES (?, ?, ?, ?)
	`, appID, number, sqlDate(issueDate), sqlTime(validUntil))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("failed to create certificate for app %d: %w", appID, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *CertificateStore) GetByID(ctx context.Context, id int64) (*domain.Certificate, error) {
	return s.get(ctx, certificateSelect+` WHERE c.id = ?`, id)
}

func (s *CertificateStore) GetByAppID(ctx context.Context, appID int64) (*domain.Certificate, error) {
	return s.get(ctx, certificateSelect+` WHERE c.app_id = ?`, appID)
}

func (s *CertificateStore) get(ctx context.Context, query string, arg any) (*domain.Certificate, error) {
	c, err := scanCertificate(s.db.QueryRowContext(ctx, query, arg))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}

	return c, nil
}

func (s *CertificateStore) Search(ctx context.Context, f CertificateFilter) ([]*domain.Certificate, error) {
	var (
		where []string
		args  []any
	)
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		where = append(where, "(LOWER(a.name) LIKE ? OR LOWER(c.certificate_number) LIKE ?)")
		args = append(args, pattern, pattern)
	}
	where, args = appendRange(where, args, "c.issue_date", f.Issued, sqlDate)
	where, args = appendRange(where, args, "c.valid_until", f.ValidUntil, sqlTime)

	query := certificateSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY a.name COLLATE NOCASE ASC, c.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	defer closeRows(rows)

	certs := make([]*domain.Certificate, 0)
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		certs = append(certs, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating certificates: %w", err)
	}

	return certs, nil
}

func (s *CertificateStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM certificates WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete certificate: %w", err)
	}

	if err := rowsAffectedOrNotFound(result); err != nil {
		return fmt.Errorf("failed to delete certificate %d: %w", id, err)
	}

	return nil
}
