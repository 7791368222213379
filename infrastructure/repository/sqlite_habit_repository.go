package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/entity"
	"github.com/ca-srg/habitflow/domain/valueobject"
)

//go:embed schema.sql
var schemaSQL string

// Schema versions:
// 1 - habits and completions tables
// 2 - owner/day index on completions for range exports
const currentSchemaVersion = 2

const habitColumns = `id, owner_id, name, state, streak, longest_streak, last_completed_day,
	last_resolved_day, junked_since, created_day, grace_credit_day, neglected_days, version`

const completionColumns = `id, habit_id, owner_id, day, kind, note, source, streak, recorded_at`

// SQLiteHabitRepository stores habits and their completion log in one SQLite file
type SQLiteHabitRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteHabitRepository opens (or creates) the database at path and applies
// migrations. Connection pragmas travel in the DSN so every pooled connection
// gets them.
func NewSQLiteHabitRepository(path string, busyTimeoutMs int) (*SQLiteHabitRepository, error) {
	if path == "" {
		return nil, domain.ErrInvalidInput("database path", "must not be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, domain.ErrFileOperationWithCause("create database directory", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", sqliteDSN(path, busyTimeoutMs))
	if err != nil {
		return nil, domain.ErrPersistence("open database", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, domain.ErrPersistence("connect database", err)
	}

	// SQLite allows one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, domain.ErrPersistence("apply schema", err)
	}

	return newSQLiteHabitRepositoryWithDB(db), nil
}

func newSQLiteHabitRepositoryWithDB(db *sql.DB) *SQLiteHabitRepository {
	return &SQLiteHabitRepository{db: db, now: time.Now}
}

func sqliteDSN(path string, busyTimeoutMs int) string {
	if busyTimeoutMs <= 0 {
		busyTimeoutMs = 5000
	}
	return fmt.Sprintf("%s?_busy_timeout=%d&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL", path, busyTimeoutMs)
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version < 2 {
		if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_completions_owner_day ON completions(owner_id, day)`); err != nil {
			return fmt.Errorf("migrate to v2: %w", err)
		}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// Close closes the database
func (r *SQLiteHabitRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Create inserts h at version 1
func (r *SQLiteHabitRepository) Create(ctx context.Context, h entity.Habit) (entity.Habit, error) {
	if h.ID == "" {
		return entity.Habit{}, domain.ErrInvalidInput("habit id", "must not be empty")
	}
	if err := h.Validate(); err != nil {
		return entity.Habit{}, err
	}
	h.Version = 1

	_, err := r.db.ExecContext(ctx, `INSERT INTO habits (`+habitColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.OwnerID, h.Name, h.State.String(), h.Streak, h.LongestStreak, h.LastCompletedDay,
		h.LastResolvedDay, h.JunkedSince, h.CreatedDay, h.GraceCreditDay, h.NeglectedDays, h.Version,
		r.timestamp())
	if err != nil {
		return entity.Habit{}, domain.ErrPersistence("create habit", err).WithDetails("habitID", h.ID)
	}
	return h, nil
}

// FindByID loads one habit
func (r *SQLiteHabitRepository) FindByID(ctx context.Context, id string) (entity.Habit, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Habit{}, domain.ErrNotFound("habit", id)
	}
	if err != nil {
		return entity.Habit{}, domain.ErrPersistence("find habit", err).WithDetails("habitID", id)
	}
	return h, nil
}

// FindByOwner loads every habit of ownerID
func (r *SQLiteHabitRepository) FindByOwner(ctx context.Context, ownerID string) ([]entity.Habit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+habitColumns+` FROM habits
		WHERE owner_id = ? ORDER BY created_day, name, id`, ownerID)
	if err != nil {
		return nil, domain.ErrPersistence("list habits", err).WithDetails("ownerID", ownerID)
	}
	defer func() {
		_ = rows.Close()
	}()

	var habits []entity.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, domain.ErrPersistence("list habits", err).WithDetails("ownerID", ownerID)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrPersistence("list habits", err).WithDetails("ownerID", ownerID)
	}
	return habits, nil
}

// Save writes h if the stored version is still expectedVersion
func (r *SQLiteHabitRepository) Save(ctx context.Context, h entity.Habit, expectedVersion int64) (entity.Habit, error) {
	return r.save(ctx, h, expectedVersion, nil)
}

// SaveWithCompletion writes h and appends c in one transaction
func (r *SQLiteHabitRepository) SaveWithCompletion(ctx context.Context, h entity.Habit, expectedVersion int64, c *entity.Completion) (entity.Habit, error) {
	if c == nil {
		return entity.Habit{}, domain.ErrInvalidInput("completion", "must not be nil")
	}
	return r.save(ctx, h, expectedVersion, c)
}

func (r *SQLiteHabitRepository) save(ctx context.Context, h entity.Habit, expectedVersion int64, c *entity.Completion) (entity.Habit, error) {
	if err := h.Validate(); err != nil {
		return entity.Habit{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return entity.Habit{}, domain.ErrPersistence("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `UPDATE habits SET
		name = ?, state = ?, streak = ?, longest_streak = ?, last_completed_day = ?,
		last_resolved_day = ?, junked_since = ?, grace_credit_day = ?, neglected_days = ?,
		version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		h.Name, h.State.String(), h.Streak, h.LongestStreak, h.LastCompletedDay,
		h.LastResolvedDay, h.JunkedSince, h.GraceCreditDay, h.NeglectedDays,
		r.timestamp(), h.ID, expectedVersion)
	if err != nil {
		return entity.Habit{}, domain.ErrPersistence("save habit", err).WithDetails("habitID", h.ID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return entity.Habit{}, domain.ErrPersistence("save habit", err).WithDetails("habitID", h.ID)
	}
	if affected == 0 {
		var stored int64
		err := tx.QueryRowContext(ctx, `SELECT version FROM habits WHERE id = ?`, h.ID).Scan(&stored)
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Habit{}, domain.ErrNotFound("habit", h.ID)
		}
		if err != nil {
			return entity.Habit{}, domain.ErrPersistence("save habit", err).WithDetails("habitID", h.ID)
		}
		return entity.Habit{}, domain.ErrConflict(h.ID, expectedVersion).WithDetails("storedVersion", stored)
	}

	if c != nil {
		_, err := tx.ExecContext(ctx, `INSERT INTO completions (`+completionColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.HabitID, c.OwnerID, c.Day, c.Kind.String(), c.Note, c.Source, c.Streak,
			c.RecordedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return entity.Habit{}, domain.ErrPersistence("append completion", err).WithDetails("habitID", h.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return entity.Habit{}, domain.ErrPersistence("commit transaction", err).WithDetails("habitID", h.ID)
	}

	h.Version = expectedVersion + 1
	return h, nil
}

// FindByHabit returns a habit's completions, oldest first
func (r *SQLiteHabitRepository) FindByHabit(ctx context.Context, habitID string) ([]*entity.Completion, error) {
	return r.queryCompletions(ctx, "list completions",
		`SELECT `+completionColumns+` FROM completions WHERE habit_id = ? ORDER BY day, recorded_at`, habitID)
}

// FindByOwnerBetween returns the owner's completions with from <= day <= to.
// A zero bound is open.
func (r *SQLiteHabitRepository) FindByOwnerBetween(ctx context.Context, ownerID string, from, to valueobject.LocalDate) ([]*entity.Completion, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + completionColumns + ` FROM completions WHERE owner_id = ?`)
	args := []interface{}{ownerID}
	if !from.IsZero() {
		b.WriteString(` AND day >= ?`)
		args = append(args, from.String())
	}
	if !to.IsZero() {
		b.WriteString(` AND day <= ?`)
		args = append(args, to.String())
	}
	b.WriteString(` ORDER BY day, recorded_at`)
	return r.queryCompletions(ctx, "export completions", b.String(), args...)
}

func (r *SQLiteHabitRepository) queryCompletions(ctx context.Context, op, query string, args ...interface{}) ([]*entity.Completion, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.ErrPersistence(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var completions []*entity.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, domain.ErrPersistence(op, err)
		}
		completions = append(completions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrPersistence(op, err)
	}
	return completions, nil
}

func (r *SQLiteHabitRepository) timestamp() string {
	return r.now().UTC().Format(time.RFC3339Nano)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHabit(row rowScanner) (entity.Habit, error) {
	var h entity.Habit
	var state string
	err := row.Scan(&h.ID, &h.OwnerID, &h.Name, &state, &h.Streak, &h.LongestStreak, &h.LastCompletedDay,
		&h.LastResolvedDay, &h.JunkedSince, &h.CreatedDay, &h.GraceCreditDay, &h.NeglectedDays, &h.Version)
	if err != nil {
		return entity.Habit{}, err
	}
	if h.State, err = valueobject.ParseHabitState(state); err != nil {
		return entity.Habit{}, err
	}
	return h, nil
}

func scanCompletion(row rowScanner) (*entity.Completion, error) {
	var c entity.Completion
	var kind, recordedAt string
	err := row.Scan(&c.ID, &c.HabitID, &c.OwnerID, &c.Day, &kind, &c.Note, &c.Source, &c.Streak, &recordedAt)
	if err != nil {
		return nil, err
	}
	c.Kind = valueobject.CompletionKind(kind)
	if !c.Kind.Valid() {
		return nil, fmt.Errorf("unknown completion kind %q", kind)
	}
	if c.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
		return nil, fmt.Errorf("parse recorded_at: %w", err)
	}
	return &c, nil
}
