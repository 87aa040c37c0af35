package store

import (
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned by Update and Delete when no row matches the id.
// GetByID methods return (nil, nil) for missing rows instead.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by Create when the row would violate a UNIQUE
// constraint, e.g. a second certificate for one app.
var ErrDuplicate = errors.New("duplicate")

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

const (
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
)

// sqlTime formats t the same way SQLite's datetime('now') does so values
// written by Go and by column defaults compare correctly as text.
func sqlTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// sqlDate keeps the calendar date of t in its own location.
func sqlDate(t time.Time) string {
	return t.Format(dateLayout)
}

// TimeRange is a half-open [From, To) window. A zero bound is unbounded.
type TimeRange struct {
	From time.Time
	To   time.Time
}

func (r TimeRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// appendRange adds column bounds for r to where/args, formatting bounds with
// format so they compare as text against stored values.
func appendRange(where []string, args []any, column string, r TimeRange, format func(time.Time) string) ([]string, []any) {
	if !r.From.IsZero() {
		where = append(where, column+" >= ?")
		args = append(args, format(r.From))
	}
	if !r.To.IsZero() {
		where = append(where, column+" < ?")
		args = append(args, format(r.To))
	}
	return where, args
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}
}

func rowsAffectedOrNotFound(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
