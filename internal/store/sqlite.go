package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/dev-canvas/babycutecare-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// UpsertUser inserts or refreshes a user row. An existing baby name and
// joined date are preserved across upserts.
func (r *SQLiteRepo) UpsertUser(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("nil user")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, username, first_name, baby_name, joined_date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			username   = excluded.username,
			first_name = excluded.first_name`,
		u.ID, u.Username, u.FirstName, nullIfEmpty(u.BabyName), u.JoinedDate,
	)
	return err
}

// GetBabyName returns the stored child name or "" when unset.
func (r *SQLiteRepo) GetBabyName(ctx context.Context, userID int64) (string, error) {
	var name sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT baby_name FROM users WHERE user_id = ?`, userID,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name.String, nil
}

// SetBabyName updates the stored child name.
func (r *SQLiteRepo) SetBabyName(ctx context.Context, userID int64, name string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET baby_name = ? WHERE user_id = ?`, name, userID)
	return err
}

// GetTimezone returns the stored timezone identifier or "" when unset.
func (r *SQLiteRepo) GetTimezone(ctx context.Context, userID int64) (string, error) {
	var tz string
	err := r.db.QueryRowContext(ctx,
		`SELECT timezone FROM user_timezones WHERE user_id = ?`, userID,
	).Scan(&tz)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return tz, nil
}

// SetTimezone stores the identifier after validating it against the supported
// set.
func (r *SQLiteRepo) SetTimezone(ctx context.Context, userID int64, tz string) error {
	if !domain.ValidTimezone(tz) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidTimezone, tz)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_timezones (user_id, timezone) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET timezone = excluded.timezone`,
		userID, tz)
	return err
}

// AppendEntry inserts a completed activity and returns the new entry id.
func (r *SQLiteRepo) AppendEntry(ctx context.Context, e *domain.Entry) (int64, error) {
	if e == nil {
		return 0, errors.New("nil entry")
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO entries (user_id, category, duration, volume, date, time_start, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, string(e.Category), e.Duration,
		toNullInt64(e.Volume), e.Date, e.Start, toNullString(e.Note),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SetEntryNote attaches a note to an entry. The user id guard keeps one user
// from annotating another's entry.
func (r *SQLiteRepo) SetEntryNote(ctx context.Context, id, userID int64, note string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE entries SET note = ? WHERE id = ? AND user_id = ?`,
		note, id, userID)
	return err
}

const entryColumns = `id, user_id, category, duration, volume, date, time_start, note`

// RecentEntries returns up to limit entries for user+category, newest first.
func (r *SQLiteRepo) RecentEntries(ctx context.Context, userID int64, c domain.Category, limit int) ([]domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE user_id = ? AND category = ?
		ORDER BY date DESC, time_start DESC
		LIMIT ?`,
		userID, string(c), limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// EntriesByDate returns the entries for user+date in chronological order.
func (r *SQLiteRepo) EntriesByDate(ctx context.Context, userID int64, date string) ([]domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE user_id = ? AND date = ?
		ORDER BY time_start ASC`,
		userID, date)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// AllEntries returns every entry for the user, newest first.
func (r *SQLiteRepo) AllEntries(ctx context.Context, userID int64) ([]domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE user_id = ?
		ORDER BY date DESC, time_start DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// CountEntries returns the user's total number of entries.
func (r *SQLiteRepo) CountEntries(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// DistinctCategories returns the categories the user has logged, sorted.
func (r *SQLiteRepo) DistinctCategories(ctx context.Context, userID int64) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM entries WHERE user_id = ? ORDER BY category`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Category
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		res = append(res, domain.Category(c))
	}
	return res, rows.Err()
}

// CategoryTotals aggregates count, total duration and average volume for one
// category across all of the user's entries.
func (r *SQLiteRepo) CategoryTotals(ctx context.Context, userID int64, c domain.Category) (CategoryStats, error) {
	var (
		count    int
		totalDur sql.NullInt64
		avgVol   sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(duration), AVG(volume)
		FROM entries
		WHERE user_id = ? AND category = ?`,
		userID, string(c)).Scan(&count, &totalDur, &avgVol)
	if err != nil {
		return CategoryStats{}, err
	}

	stats := CategoryStats{Count: count, TotalDuration: int(totalDur.Int64)}
	if avgVol.Valid {
		v := avgVol.Float64
		stats.AvgVolume = &v
	}
	return stats, nil
}

func scanEntries(rows *sql.Rows) ([]domain.Entry, error) {
	defer rows.Close()

	var res []domain.Entry
	for rows.Next() {
		var (
			e      domain.Entry
			cat    string
			volume sql.NullInt64
			note   sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &cat, &e.Duration, &volume, &e.Date, &e.Start, &note); err != nil {
			return nil, err
		}
		e.Category = domain.Category(cat)
		e.Volume = fromNullInt64(volume)
		e.Note = fromNullString(note)
		res = append(res, e)
	}
	return res, rows.Err()
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
