package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"chathistory/internal/model"

	_ "modernc.org/sqlite"
)

// ResultCap bounds every query; rows beyond it (in the requested order) are not returned.
const ResultCap = 100

const tableName = "messages"

var (
	ErrNotFound      = errors.New("chat history database not found")
	ErrUnknownColumn = errors.New("unknown column")
	ErrSchema        = errors.New("unexpected chat history schema")
)

// Store is a handle on the chat history database written by the relay bot.
// The browser only reads and deletes; it never creates the schema.
type Store struct {
	Path string

	db *sql.DB
}

// Open opens an existing database. A missing file is an error: the store is never created here.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrNotFound)
	}
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (is the bot running?)", ErrNotFound, path)
		}
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}

	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps per-connection pragmas in effect and serializes access.
	db.SetMaxOpenConns(1)

	// The bot writes concurrently; busy_timeout avoids "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	s := &Store{Path: path, db: db}
	if err := s.ensureTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureTable(ctx context.Context) error {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, tableName).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: no %s table in %s", ErrSchema, tableName, s.Path)
	}
	return err
}

// Filter narrows a listing. The zero value lists the newest ResultCap records.
type Filter struct {
	OrderBy   string
	Ascending bool
	Role      model.Role
	Limit     int
}

// Query returns the capped result ordered by orderBy (timestamp when empty).
func (s *Store) Query(ctx context.Context, orderBy string, descending bool) (model.ResultSet, error) {
	return s.List(ctx, Filter{OrderBy: orderBy, Ascending: !descending})
}

func (s *Store) List(ctx context.Context, f Filter) (model.ResultSet, error) {
	col := strings.TrimSpace(f.OrderBy)
	if col == "" {
		col = model.ColTimestamp
	}
	// Column names can't be bound as parameters; only schema columns are allowed through.
	if !model.SchemaColumns.Has(col) {
		return model.ResultSet{}, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	dir := "DESC"
	if f.Ascending {
		dir = "ASC"
	}
	limit := f.Limit
	if limit <= 0 || limit > ResultCap {
		limit = ResultCap
	}

	q := `SELECT * FROM ` + tableName
	var args []any
	if f.Role != "" {
		q += ` WHERE role = ?`
		args = append(args, string(f.Role))
	}
	// Tie-break on id so equal data always comes back in the same order.
	q += fmt.Sprintf(` ORDER BY %s %s`, col, dir)
	if col != model.ColID {
		q += fmt.Sprintf(`, id %s`, dir)
	}
	q += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return model.ResultSet{}, fmt.Errorf("query %s: %w", tableName, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return model.ResultSet{}, err
	}
	out := model.ResultSet{Columns: model.ColumnSet(cols), Records: []model.Record{}}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return model.ResultSet{}, err
		}
		out.Records = append(out.Records, recordFromRow(cols, vals))
	}
	if err := rows.Err(); err != nil {
		return model.ResultSet{}, err
	}
	return out, nil
}

// Delete removes the persisted row matching every non-identity field of rec.
// NULL columns compare as the zero values recordFromRow scans them into.
// When several rows match, the one carrying rec.ID wins. It reports false (and no error)
// if nothing matches.
func (s *Store) Delete(ctx context.Context, rec model.Record) (bool, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM `+tableName+`
		WHERE COALESCE(user_id, 0) = ? AND COALESCE(user_name, '') = ? AND COALESCE(channel_id, 0) = ?
		AND COALESCE(is_dm, 0) = ? AND COALESCE(role, '') = ? AND COALESCE(content, '') = ? AND COALESCE(timestamp, '') = ?
		ORDER BY (id = ?) DESC, id
		LIMIT 1`,
		rec.UserID, rec.UserName, rec.ChannelID,
		boolToInt(rec.IsDM), string(rec.Role), rec.Content, rec.Timestamp,
		rec.ID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("resolve %s row: %w", tableName, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+tableName+` WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("delete %s row %d: %w", tableName, id, err)
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
