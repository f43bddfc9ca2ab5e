package iocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/google/uuid"
	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/spf13/cast"
	_ "modernc.org/sqlite" // SQLite driver
)

// Table names for the entity store.
const (
	entitiesTable = "schoolfit_entities"
	importsTable  = "schoolfit_imports"
)

// insertBatchSize bounds the rows per INSERT so every backend stays under its
// bind parameter limit.
const insertBatchSize = 200

// ErrEmptyStore is returned when loading from a store that has no import yet.
var ErrEmptyStore = errors.New("table store is empty. Run 'schoolfit data import <file>' first")

// metricColumns maps stored metric keys to their SQL column names.
var metricColumns = []struct {
	key    schema.MetricKey
	column string
}{
	{schema.MathKey, "smath_y1"},
	{schema.ELAKey, "sela_y1"},
	{schema.ClassSizeKey, "avg_size"},
	{schema.DisadvantagedKey, "perdi"},
	{schema.EnglishLearnerKey, "perel"},
	{schema.DisabilityKey, "persd"},
}

// TableStoreImpl stores imported school tables in a SQL database.
type TableStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
	now     func() time.Time
}

var _ contract.TableStore = &TableStoreImpl{} // Compile-time check

// NewTableStore initializes and returns a new TableStore based on the backend type.
// The schema is brought to the latest embedded migration before the store is returned.
func NewTableStore(backend schema.DatabaseBackend, connStr string) (*TableStoreImpl, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for a disabled backend
		return &TableStoreImpl{backend: backend, now: time.Now}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if err := prepareSchema(db, backend, connStr); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare table store: %w", err)
	}

	return &TableStoreImpl{db: db, backend: backend, connStr: connStr, now: time.Now}, nil
}

// prepareSchema applies every pending migration. SQLite migrates through the
// store's own handle so in-memory databases work; server backends use a
// separate connection that is released afterwards.
func prepareSchema(db *sql.DB, backend schema.DatabaseBackend, connStr string) error {
	if backend == schema.SQLiteBackend {
		return migrateDB(db, backend, -1, io.Discard)
	}
	return migrateStore(backend, connStr, -1, io.Discard)
}

// openDB opens a database handle for the backend without verifying it.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetDataDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, nil

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		db, err := sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}
		return db, nil

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported data backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}
}

// builder returns a statement builder with the backend's placeholder format.
func (s *TableStoreImpl) builder() sq.StatementBuilderType {
	if s.backend == schema.PostgreSQLBackend {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

func (s *TableStoreImpl) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// Key identifies the store for memoization.
func (s *TableStoreImpl) Key() string {
	return "store:" + string(s.backend)
}

// Load reads the most recent import in its original row order.
func (s *TableStoreImpl) Load(ctx context.Context) (schema.Table, error) {
	if s.disabled() {
		return schema.Table{}, fmt.Errorf("no table store configured. Set --data-backend or pass a data file")
	}

	query, args, err := s.builder().
		Select("batch_id", "metric_columns").
		From(importsTable).
		Limit(1).
		ToSql()
	if err != nil {
		return schema.Table{}, err
	}
	var batchID, columnList string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&batchID, &columnList); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schema.Table{}, ErrEmptyStore
		}
		return schema.Table{}, fmt.Errorf("failed to read latest import: %w", err)
	}

	selected := []string{"cds_code", "county", "district", "school"}
	for _, mc := range metricColumns {
		selected = append(selected, mc.column)
	}
	query, args, err = s.builder().
		Select(selected...).
		From(entitiesTable).
		Where(sq.Eq{"batch_id": batchID}).
		OrderBy("row_num").
		ToSql()
	if err != nil {
		return schema.Table{}, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return schema.Table{}, fmt.Errorf("failed to query stored entities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	table := schema.Table{Columns: parseColumnList(columnList)}
	for rows.Next() {
		var e schema.Entity
		cells := make([]sql.NullString, len(metricColumns))
		dest := []any{&e.CDSCode, &e.County, &e.District, &e.School}
		for i := range cells {
			dest = append(dest, &cells[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return schema.Table{}, fmt.Errorf("failed to scan stored entity: %w", err)
		}
		e.Values = make(map[schema.MetricKey]any, len(table.Columns))
		for i, mc := range metricColumns {
			if !table.HasColumn(mc.key) {
				continue
			}
			if cells[i].Valid {
				e.Values[mc.key] = cells[i].String
			} else {
				e.Values[mc.key] = nil
			}
		}
		table.Rows = append(table.Rows, e)
	}
	if err := rows.Err(); err != nil {
		return schema.Table{}, fmt.Errorf("failed to read stored entities: %w", err)
	}
	return table, nil
}

// Import replaces the stored entities with the table under a new batch id.
// Metric cells are stored as text so unparsable markers survive the round trip.
func (s *TableStoreImpl) Import(ctx context.Context, table schema.Table, sourceFile string) (schema.ImportSummary, error) {
	summary := schema.ImportSummary{
		BatchID:    uuid.NewString(),
		SourceFile: sourceFile,
		Rows:       len(table.Rows),
		ImportedAt: s.now().UTC().Truncate(time.Second),
	}
	if s.disabled() {
		return summary, fmt.Errorf("no table store configured. Set --data-backend to sqlite, mysql or postgresql")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Only the latest import is kept
	for _, name := range []string{entitiesTable, importsTable} {
		query, args, err := s.builder().Delete(name).ToSql()
		if err != nil {
			return summary, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return summary, fmt.Errorf("failed to clear table %s: %w", name, err)
		}
	}

	columns := []string{"batch_id", "row_num", "cds_code", "county", "district", "school"}
	for _, mc := range metricColumns {
		columns = append(columns, mc.column)
	}
	for start := 0; start < len(table.Rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(table.Rows))
		insert := s.builder().Insert(entitiesTable).Columns(columns...)
		for i, e := range table.Rows[start:end] {
			values := []any{summary.BatchID, start + i, e.CDSCode, e.County, e.District, e.School}
			for _, mc := range metricColumns {
				values = append(values, storedCell(table, e, mc.key))
			}
			insert = insert.Values(values...)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return summary, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return summary, fmt.Errorf("failed to insert entities: %w", err)
		}
	}

	query, args, err := s.builder().
		Insert(importsTable).
		Columns("batch_id", "source_file", "row_count", "metric_columns", "imported_at").
		Values(summary.BatchID, sourceFile, summary.Rows, formatColumnList(table.Columns), summary.ImportedAt.Unix()).
		ToSql()
	if err != nil {
		return summary, err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return summary, fmt.Errorf("failed to record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("failed to commit import: %w", err)
	}
	return summary, nil
}

// Clear removes every stored entity and the import history.
func (s *TableStoreImpl) Clear(ctx context.Context) error {
	if s.disabled() {
		return nil
	}
	for _, table := range []string{entitiesTable, importsTable} {
		query, args, err := s.builder().Delete(table).ToSql()
		if err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// GetStatus returns status information about the table store.
func (s *TableStoreImpl) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(s.backend),
		Connected: !s.disabled(),
	}
	if s.disabled() {
		return status, nil
	}

	// Get total rows
	if err := s.scalar(ctx, s.builder().Select("COUNT(*)").From(entitiesTable), &status.TotalRows); err != nil {
		return status, fmt.Errorf("failed to get total rows: %w", err)
	}
	if status.TotalRows == 0 {
		return status, nil
	}

	counties := s.builder().Select("COUNT(*)").
		FromSelect(sq.Select("county").Distinct().From(entitiesTable), "c")
	if err := s.scalar(ctx, counties, &status.TotalCounties); err != nil {
		return status, fmt.Errorf("failed to count counties: %w", err)
	}

	districts := s.builder().Select("COUNT(*)").
		FromSelect(sq.Select("county", "district").Distinct().From(entitiesTable), "d")
	if err := s.scalar(ctx, districts, &status.TotalDistricts); err != nil {
		return status, fmt.Errorf("failed to count districts: %w", err)
	}

	query, args, err := s.builder().
		Select("batch_id", "source_file", "imported_at").
		From(importsTable).
		Limit(1).
		ToSql()
	if err != nil {
		return status, err
	}
	var importedAt int64
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&status.LastBatchID, &status.SourceFile, &importedAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return status, fmt.Errorf("failed to get last import: %w", err)
	}
	if err == nil {
		status.LastImportTime = time.Unix(importedAt, 0)
	}
	return status, nil
}

// scalar runs a single-value query and scans the result into dest.
func (s *TableStoreImpl) scalar(ctx context.Context, b sq.SelectBuilder, dest any) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return s.db.QueryRowContext(ctx, query, args...).Scan(dest)
}

// Close closes the underlying DB connection.
func (s *TableStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// storedCell converts a raw cell to its stored text form. Cells outside the
// table's declared columns and nil cells are stored as NULL.
func storedCell(table schema.Table, e schema.Entity, key schema.MetricKey) any {
	if !table.HasColumn(key) {
		return nil
	}
	raw, ok := e.Value(key)
	if !ok || raw == nil {
		return nil
	}
	text, err := cast.ToStringE(raw)
	if err != nil {
		return nil
	}
	return text
}

// formatColumnList keeps only stored metric columns, in table order.
func formatColumnList(columns []schema.MetricKey) string {
	kept := make([]string, 0, len(columns))
	for _, key := range columns {
		for _, mc := range metricColumns {
			if mc.key == key {
				kept = append(kept, string(key))
				break
			}
		}
	}
	return strings.Join(kept, ",")
}

func parseColumnList(s string) []schema.MetricKey {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	keys := make([]schema.MetricKey, len(parts))
	for i, p := range parts {
		keys[i] = schema.MetricKey(p)
	}
	return keys
}
