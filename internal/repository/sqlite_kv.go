package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/pcam/internal/db"
	"github.com/alexanderramin/pcam/internal/domain"
)

// BackupVersion is written into every backup document.
const BackupVersion = "1.0"

// BackupDocument is the JSON shape produced by Backup and read by Restore.
type BackupDocument struct {
	Timestamp time.Time                  `json:"timestamp"`
	Version   string                     `json:"version"`
	Data      map[string]json.RawMessage `json:"data"`
}

// KVOption configures a SQLiteKVStore.
type KVOption func(*SQLiteKVStore)

// WithQuota caps the total stored bytes. Zero disables the check.
func WithQuota(bytes int64) KVOption {
	return func(s *SQLiteKVStore) { s.quota = bytes }
}

// WithKVClock overrides the clock used for timestamps and auto-save keys.
func WithKVClock(now func() time.Time) KVOption {
	return func(s *SQLiteKVStore) {
		if now != nil {
			s.now = now
		}
	}
}

// SQLiteKVStore implements KVStore on the kv_entries table.
type SQLiteKVStore struct {
	db        db.DBTX
	uow       db.UnitOfWork
	namespace string
	quota     int64
	now       func() time.Time
}

// NewSQLiteKVStore creates a store whose keys all live under namespace. uow
// may be nil, in which case multi-statement operations run on conn directly.
func NewSQLiteKVStore(conn db.DBTX, uow db.UnitOfWork, namespace string, opts ...KVOption) *SQLiteKVStore {
	s := &SQLiteKVStore{
		db:        conn,
		uow:       uow,
		namespace: namespace,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Namespace returns the key prefix.
func (s *SQLiteKVStore) Namespace() string {
	return s.namespace
}

func (s *SQLiteKVStore) full(key string) string {
	return s.namespace + key
}

// atomically runs fn inside a transaction when a unit of work is available.
func (s *SQLiteKVStore) atomically(ctx context.Context, fn func(ctx context.Context, st *SQLiteKVStore) error) error {
	if s.uow == nil {
		return fn(ctx, s)
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		scoped := *s
		scoped.db = tx
		scoped.uow = nil
		return fn(ctx, &scoped)
	})
}

func (s *SQLiteKVStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, s.full(key)).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("key %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("reading key %q: %w", key, err)
	}
	return json.RawMessage(value), nil
}

// Set writes value under key. When a quota is configured and the write
// would exceed it, the oldest half of the namespace's auto-save entries is
// removed and ErrQuotaExceeded is returned without writing.
func (s *SQLiteKVStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for key %q is not valid JSON", key)
	}
	full := s.full(key)

	if s.quota > 0 {
		projected, err := s.projectedSize(ctx, full, value)
		if err != nil {
			return err
		}
		if projected > s.quota {
			removed, pruneErr := s.remediate(ctx)
			if pruneErr != nil {
				return fmt.Errorf("writing key %q: %w (remediation failed: %v)", key, ErrQuotaExceeded, pruneErr)
			}
			return fmt.Errorf("writing key %q needs %d bytes of %d, removed %d auto-saves: %w",
				key, projected, s.quota, removed, ErrQuotaExceeded)
		}
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO kv_entries (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		full, string(value), formatTime(s.now()))
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// projectedSize is the store's total size after replacing full with value.
func (s *SQLiteKVStore) projectedSize(ctx context.Context, full string, value json.RawMessage) (int64, error) {
	var total, existing int64
	err := s.db.QueryRowContext(ctx, `SELECT
		COALESCE(SUM(length(key) + length(CAST(value AS BLOB))), 0),
		COALESCE(SUM(CASE WHEN key = ? THEN length(key) + length(CAST(value AS BLOB)) ELSE 0 END), 0)
		FROM kv_entries`, full).Scan(&total, &existing)
	if err != nil {
		return 0, fmt.Errorf("measuring storage: %w", err)
	}
	return total - existing + int64(charLen(full)+len(value)), nil
}

// remediate removes the oldest half (rounded up) of the namespace's
// auto-save entries.
func (s *SQLiteKVStore) remediate(ctx context.Context) (int, error) {
	keys, err := s.autoSaveKeys(ctx, "")
	if err != nil {
		return 0, err
	}
	n := (len(keys) + 1) / 2
	if n == 0 {
		return 0, nil
	}
	err = s.atomically(ctx, func(ctx context.Context, st *SQLiteKVStore) error {
		return st.deleteFull(ctx, keys[:n])
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQLiteKVStore) deleteFull(ctx context.Context, fullKeys []string) error {
	for _, k := range fullKeys {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, k); err != nil {
			return fmt.Errorf("deleting key %q: %w", strings.TrimPrefix(k, s.namespace), err)
		}
	}
	return nil
}

func (s *SQLiteKVStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, s.full(key)); err != nil {
		return fmt.Errorf("removing key %q: %w", key, err)
	}
	return nil
}

// ClearAll removes every entry in the namespace and leaves other
// namespaces untouched.
func (s *SQLiteKVStore) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE substr(key, 1, ?) = ?`,
		charLen(s.namespace), s.namespace)
	if err != nil {
		return fmt.Errorf("clearing namespace %q: %w", s.namespace, err)
	}
	return nil
}

// Keys lists unprefixed keys in the namespace, sorted.
func (s *SQLiteKVStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv_entries WHERE substr(key, 1, ?) = ? ORDER BY key`,
		charLen(s.namespace), s.namespace)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, strings.TrimPrefix(k, s.namespace))
	}
	return keys, rows.Err()
}

// All returns every entry in the namespace keyed by unprefixed key.
func (s *SQLiteKVStore) All(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM kv_entries WHERE substr(key, 1, ?) = ?`,
		charLen(s.namespace), s.namespace)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		out[strings.TrimPrefix(k, s.namespace)] = json.RawMessage(v)
	}
	return out, rows.Err()
}

func (s *SQLiteKVStore) Usage(ctx context.Context) (StorageUsage, error) {
	u := StorageUsage{QuotaBytes: s.quota}
	err := s.db.QueryRowContext(ctx, `SELECT
		COALESCE(SUM(length(key) + length(CAST(value AS BLOB))), 0),
		COALESCE(SUM(CASE WHEN substr(key, 1, ?) = ? THEN length(key) + length(CAST(value AS BLOB)) ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN substr(key, 1, ?) = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN substr(key, 1, ?) = ? AND instr(key, ?) > 0 THEN 1 ELSE 0 END), 0)
		FROM kv_entries`,
		charLen(s.namespace), s.namespace,
		charLen(s.namespace), s.namespace,
		charLen(s.namespace), s.namespace, autoSaveMarker,
	).Scan(&u.TotalBytes, &u.NamespaceBytes, &u.Entries, &u.AutoSaves)
	if err != nil {
		return StorageUsage{}, fmt.Errorf("measuring storage: %w", err)
	}
	return u, nil
}

// AutoSave writes value under a timestamped auto-save key derived from key.
func (s *SQLiteKVStore) AutoSave(ctx context.Context, key string, value json.RawMessage) error {
	return s.Set(ctx, key+autoSaveMarker+s.now().UTC().Format(autoSaveLayout), value)
}

// LatestAutoSave returns the newest auto-save written for key.
func (s *SQLiteKVStore) LatestAutoSave(ctx context.Context, key string) (json.RawMessage, error) {
	keys, err := s.autoSaveKeys(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("auto-save for %q: %w", key, ErrNotFound)
	}
	return s.Get(ctx, strings.TrimPrefix(keys[len(keys)-1], s.namespace))
}

// PruneAutoSaves keeps the newest keep auto-saves for key and removes the
// rest, returning how many were removed.
func (s *SQLiteKVStore) PruneAutoSaves(ctx context.Context, key string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	keys, err := s.autoSaveKeys(ctx, key)
	if err != nil {
		return 0, err
	}
	if len(keys) <= keep {
		return 0, nil
	}
	stale := keys[:len(keys)-keep]
	err = s.atomically(ctx, func(ctx context.Context, st *SQLiteKVStore) error {
		return st.deleteFull(ctx, stale)
	})
	if err != nil {
		return 0, err
	}
	return len(stale), nil
}

// autoSaveKeys returns full auto-save keys, oldest first. An empty base
// matches every auto-save in the namespace.
func (s *SQLiteKVStore) autoSaveKeys(ctx context.Context, base string) ([]string, error) {
	prefix := s.namespace
	if base != "" {
		prefix = s.full(base + autoSaveMarker)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM kv_entries WHERE substr(key, 1, ?) = ? AND instr(key, ?) > 0`,
		charLen(prefix), prefix, autoSaveMarker)
	if err != nil {
		return nil, fmt.Errorf("listing auto-saves: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning auto-save key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Backup serialises every entry in the namespace.
func (s *SQLiteKVStore) Backup(ctx context.Context) ([]byte, error) {
	data, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	doc := BackupDocument{
		Timestamp: s.now().UTC(),
		Version:   BackupVersion,
		Data:      data,
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return out, nil
}

// Restore replaces the namespace with the entries of a backup document.
// The quota is not applied; a backup is trusted to fit where it came from.
func (s *SQLiteKVStore) Restore(ctx context.Context, data []byte) (int, error) {
	var doc BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("decoding backup: %v: %w", err, domain.ErrMalformedImport)
	}
	if doc.Data == nil {
		return 0, fmt.Errorf("backup has no data: %w", domain.ErrMalformedImport)
	}
	for k, v := range doc.Data {
		if !json.Valid(v) {
			return 0, fmt.Errorf("backup entry %q is not valid JSON: %w", k, domain.ErrMalformedImport)
		}
	}

	keys := make([]string, 0, len(doc.Data))
	for k := range doc.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	stamp := formatTime(s.now())
	err := s.atomically(ctx, func(ctx context.Context, st *SQLiteKVStore) error {
		if err := st.ClearAll(ctx); err != nil {
			return err
		}
		for _, k := range keys {
			if _, err := st.db.ExecContext(ctx,
				`INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)`,
				st.full(k), string(doc.Data[k]), stamp); err != nil {
				return fmt.Errorf("restoring key %q: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
