package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mentorlabs/maestrobridge/internal/database"
	"github.com/mentorlabs/maestrobridge/internal/loggy"
)

// ErrRecordNotFound is returned when an analysis record is not found
var ErrRecordNotFound = errors.New("analysis record not found")

// Repository defines the interface for history persistence operations
type Repository interface {
	SaveRecord(ctx context.Context, record *Record) error
	SaveAndPrune(ctx context.Context, record *Record, keep int) error
	GetRecordByID(ctx context.Context, id string) (*Record, error)
	ListRecords(ctx context.Context, limit int) ([]*Record, error)
	CountRecords(ctx context.Context) (int, error)
}

// SQLRepository implements Repository using SQLite database
type SQLRepository struct {
	db      *sql.DB
	logger  *loggy.Logger
	builder sq.StatementBuilderType
}

// NewSQLRepository creates a new history SQL repository
func NewSQLRepository(db *sql.DB, logger *loggy.Logger) Repository {
	if logger == nil {
		logger = loggy.NewNoopLogger()
	}
	return &SQLRepository{
		db:      db,
		logger:  logger,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// execer covers *sql.DB and *sql.Tx so inserts run inside or outside a
// transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// pruneSQL deletes everything but the newest rows. squirrel has no
// DELETE ... NOT IN (subquery) helper for this shape, so the statement is
// written out.
const pruneSQL = `DELETE FROM analyses WHERE id NOT IN (
	SELECT id FROM analyses ORDER BY created_at DESC LIMIT ?
)`

func (r *SQLRepository) insertRecord(ctx context.Context, ex execer, record *Record) error {
	query := r.builder.
		Insert("analyses").
		Columns("id", "name", "language", "issue_count", "overall_score",
			"skill_level", "maestro_powered", "analysis_id", "created_at").
		Values(record.ID, record.Name, record.Language, record.IssueCount,
			record.OverallScore, record.SkillLevel, record.MaestroPowered,
			record.AnalysisID, record.CreatedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}

	if _, err := ex.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("saving analysis record: %w", err)
	}

	r.logger.Debug("saved analysis record", "id", record.ID, "name", record.Name)
	return nil
}

// SaveRecord persists a new analysis record
func (r *SQLRepository) SaveRecord(ctx context.Context, record *Record) error {
	return r.insertRecord(ctx, r.db, record)
}

// SaveAndPrune persists a new record and deletes the oldest records beyond
// the keep limit, atomically. A failed prune rolls back the insert.
func (r *SQLRepository) SaveAndPrune(ctx context.Context, record *Record, keep int) error {
	return database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if err := r.insertRecord(ctx, tx, record); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, pruneSQL, keep)
		if err != nil {
			return fmt.Errorf("pruning analysis records: %w", err)
		}

		deleted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("reading pruned row count: %w", err)
		}
		if deleted > 0 {
			r.logger.Debug("pruned analysis records", "deleted", deleted, "keep", keep)
		}

		return nil
	})
}

// GetRecordByID retrieves a single analysis record
func (r *SQLRepository) GetRecordByID(ctx context.Context, id string) (*Record, error) {
	query := r.builder.
		Select("id", "name", "language", "issue_count", "overall_score",
			"skill_level", "maestro_powered", "analysis_id", "created_at").
		From("analyses").
		Where(sq.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	record, err := scanRecord(r.db.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("getting analysis record: %w", err)
	}

	return record, nil
}

// ListRecords returns the most recent analysis records, newest first
func (r *SQLRepository) ListRecords(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 20
	}

	query := r.builder.
		Select("id", "name", "language", "issue_count", "overall_score",
			"skill_level", "maestro_powered", "analysis_id", "created_at").
		From("analyses").
		OrderBy("created_at DESC").
		Limit(uint64(limit))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("listing analysis records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning analysis record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analysis records: %w", err)
	}

	return records, nil
}

// CountRecords returns the number of stored records
func (r *SQLRepository) CountRecords(ctx context.Context) (int, error) {
	query := r.builder.Select("COUNT(*)").From("analyses")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("building count query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting analysis records: %w", err)
	}

	return count, nil
}

// rowScanner abstracts sql.Row and sql.Rows for scanning
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var record Record
	err := row.Scan(
		&record.ID,
		&record.Name,
		&record.Language,
		&record.IssueCount,
		&record.OverallScore,
		&record.SkillLevel,
		&record.MaestroPowered,
		&record.AnalysisID,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
