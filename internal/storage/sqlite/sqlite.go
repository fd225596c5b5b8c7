// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// Documents live in a single records table as JSON text. Filters are
// evaluated by SQLite's JSON1 functions (json_extract, json_each), which
// the mattn driver compiles in by default.
//
// Importing the driver registers "sqlite3" with database/sql; its error
// codes are also used to detect duplicate ids.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aanand-mishra/student-records-api/internal/config"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// schema is idempotent and safe to run on every startup.
//
//	records      : one row per document; seq keeps insertion order
//	data_privacy : restricted property paths per resource
//	extended_data: extra properties per (resource, id)
const schema = `
CREATE TABLE IF NOT EXISTS records (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	resource   TEXT NOT NULL,
	id         TEXT NOT NULL COLLATE NOCASE,
	payload    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	UNIQUE (resource, id)
);
CREATE TABLE IF NOT EXISTS data_privacy (
	resource TEXT NOT NULL,
	property TEXT NOT NULL,
	PRIMARY KEY (resource, property)
);
CREATE TABLE IF NOT EXISTS extended_data (
	resource TEXT NOT NULL,
	id       TEXT NOT NULL COLLATE NOCASE,
	payload  TEXT NOT NULL,
	PRIMARY KEY (resource, id)
);
`

// New opens the SQLite database at cfg.StoragePath, creates the tables
// if they do not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	return Open(cfg.StoragePath)
}

// Open is New for callers that only have a path, such as tests.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// CreateRecord inserts a new document row.
func (s *SQLite) CreateRecord(ctx context.Context, resource, id string, payload []byte) error {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO records (resource, id, payload, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("CreateRecord: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	if _, err := stmt.ExecContext(ctx, resource, id, string(payload), now, now); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("CreateRecord: exec: %w", err)
	}

	return nil
}

// UpdateRecord replaces the payload of an existing document.
func (s *SQLite) UpdateRecord(ctx context.Context, resource, id string, payload []byte) error {
	stmt, err := s.Db.PrepareContext(ctx,
		"UPDATE records SET payload = ?, updated_at = ? WHERE resource = ? AND id = ?",
	)
	if err != nil {
		return fmt.Errorf("UpdateRecord: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, string(payload), time.Now().UTC(), resource, id)
	if err != nil {
		return fmt.Errorf("UpdateRecord: exec: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateRecord: rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// GetRecord fetches exactly one document by resource and id.
func (s *SQLite) GetRecord(ctx context.Context, resource, id string) (storage.Record, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT resource, id, payload, created_at, updated_at FROM records WHERE resource = ? AND id = ? LIMIT 1",
	)
	if err != nil {
		return storage.Record{}, fmt.Errorf("GetRecord: prepare: %w", err)
	}
	defer stmt.Close()

	rec, err := scanRecord(stmt.QueryRowContext(ctx, resource, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Record{}, storage.ErrNotFound
		}
		return storage.Record{}, fmt.Errorf("GetRecord: scan: %w", err)
	}

	return rec, nil
}

// ListRecords returns one page of matching documents and the total count.
func (s *SQLite) ListRecords(ctx context.Context, resource string, q storage.Query) ([]storage.Record, int, error) {
	where, args, err := buildWhere(resource, q.Filters)
	if err != nil {
		return nil, 0, fmt.Errorf("ListRecords: %w", err)
	}

	var total int
	countStmt, err := s.Db.PrepareContext(ctx, "SELECT COUNT(*) FROM records WHERE "+where)
	if err != nil {
		return nil, 0, fmt.Errorf("ListRecords: prepare count: %w", err)
	}
	defer countStmt.Close()

	if err := countStmt.QueryRowContext(ctx, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ListRecords: count: %w", err)
	}

	// LIMIT -1 means "no limit" in SQLite.
	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}

	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT resource, id, payload, created_at, updated_at FROM records WHERE "+where+
			" ORDER BY seq LIMIT ? OFFSET ?",
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListRecords: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, append(args, limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("ListRecords: query: %w", err)
	}
	defer rows.Close()

	records := make([]storage.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListRecords: scan row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListRecords: rows iteration: %w", err)
	}

	return records, total, nil
}

// DeleteRecord removes a document and its extended data.
func (s *SQLite) DeleteRecord(ctx context.Context, resource, id string) error {
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM records WHERE resource = ? AND id = ?")
	if err != nil {
		return fmt.Errorf("DeleteRecord: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, resource, id)
	if err != nil {
		return fmt.Errorf("DeleteRecord: exec: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteRecord: rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	if _, err := s.Db.ExecContext(ctx,
		"DELETE FROM extended_data WHERE resource = ? AND id = ?", resource, id); err != nil {
		return fmt.Errorf("DeleteRecord: extended data: %w", err)
	}

	return nil
}

// GetDataPrivacy lists the restricted property paths of resource.
func (s *SQLite) GetDataPrivacy(ctx context.Context, resource string) ([]string, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT property FROM data_privacy WHERE resource = ? ORDER BY property",
	)
	if err != nil {
		return nil, fmt.Errorf("GetDataPrivacy: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("GetDataPrivacy: query: %w", err)
	}
	defer rows.Close()

	properties := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("GetDataPrivacy: scan row: %w", err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetDataPrivacy: rows iteration: %w", err)
	}

	return properties, nil
}

// SetDataPrivacy replaces the restricted property paths of resource in one
// transaction.
func (s *SQLite) SetDataPrivacy(ctx context.Context, resource string, properties []string) error {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("SetDataPrivacy: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM data_privacy WHERE resource = ?", resource); err != nil {
		return fmt.Errorf("SetDataPrivacy: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO data_privacy (resource, property) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("SetDataPrivacy: prepare: %w", err)
	}
	defer stmt.Close()

	for _, p := range properties {
		if _, err := stmt.ExecContext(ctx, resource, p); err != nil {
			return fmt.Errorf("SetDataPrivacy: exec: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("SetDataPrivacy: commit: %w", err)
	}

	return nil
}

// GetExtendedData returns the extended properties stored for ids.
func (s *SQLite) GetExtendedData(ctx context.Context, resource string, ids []string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT id, payload FROM extended_data WHERE resource = ? AND id IN ("+placeholders+")",
	)
	if err != nil {
		return nil, fmt.Errorf("GetExtendedData: prepare: %w", err)
	}
	defer stmt.Close()

	args := make([]any, 0, len(ids)+1)
	args = append(args, resource)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("GetExtendedData: query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("GetExtendedData: scan row: %w", err)
		}
		out[strings.ToLower(id)] = json.RawMessage(payload)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetExtendedData: rows iteration: %w", err)
	}

	return out, nil
}

// SaveExtendedData upserts the extended properties of one record.
func (s *SQLite) SaveExtendedData(ctx context.Context, resource, id string, data json.RawMessage) error {
	stmt, err := s.Db.PrepareContext(ctx,
		`INSERT INTO extended_data (resource, id, payload) VALUES (?, ?, ?)
		 ON CONFLICT (resource, id) DO UPDATE SET payload = excluded.payload`,
	)
	if err != nil {
		return fmt.Errorf("SaveExtendedData: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, resource, id, string(data)); err != nil {
		return fmt.Errorf("SaveExtendedData: exec: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (storage.Record, error) {
	var (
		rec     storage.Record
		payload string
	)
	if err := row.Scan(&rec.Resource, &rec.ID, &payload, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return storage.Record{}, err
	}
	rec.Payload = json.RawMessage(payload)
	return rec, nil
}

// buildWhere turns filters into a WHERE clause over the records table. Paths
// are bound as parameters, never spliced into the SQL text. Text equality
// ignores ASCII case so GUIDs match whatever case the caller sent.
func buildWhere(resource string, filters []storage.Filter) (string, []any, error) {
	clauses := []string{"resource = ?"}
	args := []any{resource}

	for _, f := range filters {
		if !strings.HasPrefix(f.Path, "$") {
			return "", nil, fmt.Errorf("invalid filter path %q", f.Path)
		}

		switch f.Op {
		case storage.OpEq:
			clauses = append(clauses, "json_extract(payload, ?) = ? COLLATE NOCASE")
			args = append(args, f.Path, sqlValue(f.Value))
		case storage.OpGte:
			clauses = append(clauses, "json_extract(payload, ?) >= ?")
			args = append(args, f.Path, sqlValue(f.Value))
		case storage.OpLte:
			clauses = append(clauses, "json_extract(payload, ?) <= ?")
			args = append(args, f.Path, sqlValue(f.Value))
		case storage.OpIn:
			if len(f.Values) == 0 {
				clauses = append(clauses, "0")
				continue
			}
			placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.Values)), ",")
			clauses = append(clauses, "json_extract(payload, ?) COLLATE NOCASE IN ("+placeholders+")")
			args = append(args, f.Path)
			for _, v := range f.Values {
				args = append(args, sqlValue(v))
			}
		case storage.OpContains:
			if f.ElemPath == "" {
				clauses = append(clauses,
					"EXISTS (SELECT 1 FROM json_each(payload, ?) WHERE json_each.value = ? COLLATE NOCASE)")
				args = append(args, f.Path, sqlValue(f.Value))
				continue
			}
			clauses = append(clauses,
				"EXISTS (SELECT 1 FROM json_each(payload, ?) WHERE json_extract(json_each.value, ?) = ? COLLATE NOCASE)")
			args = append(args, f.Path, f.ElemPath, sqlValue(f.Value))
		default:
			return "", nil, fmt.Errorf("unsupported filter op %d", f.Op)
		}
	}

	return strings.Join(clauses, " AND "), args, nil
}

// sqlValue maps Go values onto what json_extract returns: JSON booleans
// come back as 0 and 1.
func sqlValue(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}
