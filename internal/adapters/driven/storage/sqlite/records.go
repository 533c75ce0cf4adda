package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

const recordColumns = "id, parent_id, position, attributes, text, embedding, payload, created_at"

func checkCollection(c domain.Collection) error {
	if !c.IsValid() {
		return fmt.Errorf("collection %q: %w", c, domain.ErrInvalidInput)
	}
	return nil
}

// Add stores record under collection, filling in a UUID and the current
// time when they are missing. An existing id is ErrInvalidInput.
func (s *Store) Add(ctx context.Context, collection domain.Collection, record domain.Record) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now()
	}
	attrs, err := encodeAttributes(record.Attributes)
	if err != nil {
		return "", fmt.Errorf("sqlite: attributes of %s: %w", record.ID, err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO records (collection, `+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO NOTHING`,
		string(collection), record.ID, record.ParentID, record.Position, attrs, record.Text,
		encodeVector(record.Embedding), nullIfEmpty(record.Payload), record.CreatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("sqlite: insert %s: %w", record.ID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return "", fmt.Errorf("sqlite: insert %s: %w", record.ID, err)
	} else if n == 0 {
		return "", fmt.Errorf("record %s already exists: %w", record.ID, domain.ErrInvalidInput)
	}
	return record.ID, nil
}

func (s *Store) Query(ctx context.Context, collection domain.Collection, q domain.Query) ([]domain.Record, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	stmt, args := buildQuery(collection, q)
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query %s: %w", collection, err)
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: query %s: %w", collection, err)
	}
	return out, nil
}

// buildQuery translates q. The parent id is a column; every other filter
// field is a JSON attribute, and a missing attribute matches "".
func buildQuery(collection domain.Collection, q domain.Query) (string, []any) {
	where := []string{"collection = ?"}
	args := []any{string(collection)}
	for _, f := range q.Filters {
		if f.Field == domain.FieldParentID {
			where = append(where, "parent_id = ?")
			args = append(args, f.Value)
			continue
		}
		where = append(where, "COALESCE(json_extract(attributes, ?), '') = ?")
		args = append(args, attributePath(f.Field), f.Value)
	}

	order, dir := "created_at", "ASC"
	if q.OrderBy == domain.OrderByPosition {
		order = "position"
	}
	if q.Descending {
		dir = "DESC"
	}

	stmt := fmt.Sprintf("SELECT %s FROM records WHERE %s ORDER BY %s %s, seq %s",
		recordColumns, strings.Join(where, " AND "), order, dir, dir)
	if q.Limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, q.Limit)
	}
	return stmt, args
}

// attributePath quotes field as a single JSON path member.
func attributePath(field string) string {
	return `$."` + strings.ReplaceAll(field, `"`, `\"`) + `"`
}

func (s *Store) Get(ctx context.Context, collection domain.Collection, id string) (*domain.Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE collection = ? AND id = ?",
		string(collection), id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rec, err
}

func (s *Store) Delete(ctx context.Context, collection domain.Collection, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE collection = ? AND id = ?", string(collection), id)
	if err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	switch {
	case err != nil:
		return fmt.Errorf("sqlite: delete %s: %w", id, err)
	case n == 0:
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context, collection domain.Collection) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records WHERE collection = ?", string(collection)).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count %s: %w", collection, err)
	}
	return n, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord returns sql.ErrNoRows unwrapped.
func scanRecord(row rowScanner) (*domain.Record, error) {
	var (
		rec                domain.Record
		attrs              sql.NullString
		embedding, payload []byte
		created            int64
	)
	err := row.Scan(&rec.ID, &rec.ParentID, &rec.Position, &attrs, &rec.Text, &embedding, &payload, &created)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("sqlite: scan: %w", err)
	}

	if attrs.String != "" {
		if err := json.Unmarshal([]byte(attrs.String), &rec.Attributes); err != nil {
			return nil, fmt.Errorf("sqlite: attributes of %s: %w", rec.ID, err)
		}
	}
	rec.Embedding = decodeVector(embedding)
	if len(payload) > 0 {
		rec.Payload = json.RawMessage(payload)
	}
	rec.CreatedAt = time.Unix(0, created).UTC()
	return &rec, nil
}
