// Package sql provides SQL-based store implementations for MySQL and
// PostgreSQL.
package sql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	labeler "github.com/skymod/labeler"
	"github.com/skymod/labeler/utils"
)

// Dialect represents the SQL dialect.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
)

// Config holds the configuration for the SQL store.
type Config struct {
	Dialect         Dialect
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns the default SQL store configuration.
func DefaultConfig() Config {
	return Config{
		Dialect:         DialectMySQL,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// Store implements the store.Store interface over database/sql.
type Store struct {
	db      *sql.DB
	dialect Dialect
	idGen   *utils.IDGenerator
}

// rebind converts MySQL-style placeholders (?) to the appropriate format
// for the dialect. For PostgreSQL, converts ? to $1, $2, etc.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}

	var result []byte
	paramIndex := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, '$')
			result = append(result, []byte(fmt.Sprintf("%d", paramIndex))...)
			paramIndex++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}

// New creates a new SQL store.
func New(cfg Config) (*Store, error) {
	db, err := sql.Open(string(cfg.Dialect), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		db:      db,
		dialect: cfg.Dialect,
		idGen:   utils.NewIDGenerator(),
	}, nil
}

// NewWithDB creates a new SQL store with an existing database connection.
func NewWithDB(db *sql.DB, dialect Dialect) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		idGen:   utils.NewIDGenerator(),
	}
}

// SaveRecord persists a label record. Labels are stored as a JSON array.
func (s *Store) SaveRecord(ctx context.Context, rec labeler.LabelRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = s.idGen.Generate()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().UnixMilli()
	}

	labelsJSON, err := json.Marshal(rec.Labels)
	if err != nil {
		return "", fmt.Errorf("failed to marshal labels: %w", err)
	}

	query := s.rebind(`INSERT INTO label_record (id, post_uri, content_hash, labels_json, severity, score, match_count, needs_review, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.PostURI, rec.ContentHash, string(labelsJSON),
		rec.Severity, rec.Score, rec.MatchCount, rec.NeedsReview, rec.CreatedAt)
	if err != nil {
		return "", labeler.NewStoreError("create", "label_record", err)
	}

	return rec.ID, nil
}

// GetRecord gets a label record by ID.
func (s *Store) GetRecord(ctx context.Context, recordID string) (*labeler.LabelRecord, error) {
	query := s.rebind(`SELECT id, post_uri, content_hash, labels_json, severity, score, match_count, needs_review, created_at
              FROM label_record WHERE id = ?`)

	return s.scanRecord(s.db.QueryRowContext(ctx, query, recordID))
}

// FindRecordByHash returns the most recent record for a content hash,
// or ErrRecordNotFound when the content has never been classified.
func (s *Store) FindRecordByHash(ctx context.Context, contentHash string) (*labeler.LabelRecord, error) {
	query := s.rebind(`SELECT id, post_uri, content_hash, labels_json, severity, score, match_count, needs_review, created_at
              FROM label_record WHERE content_hash = ?
              ORDER BY created_at DESC LIMIT 1`)

	return s.scanRecord(s.db.QueryRowContext(ctx, query, contentHash))
}

func (s *Store) scanRecord(row *sql.Row) (*labeler.LabelRecord, error) {
	var rec labeler.LabelRecord
	var labelsJSON sql.NullString
	err := row.Scan(&rec.ID, &rec.PostURI, &rec.ContentHash, &labelsJSON,
		&rec.Severity, &rec.Score, &rec.MatchCount, &rec.NeedsReview, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, labeler.ErrRecordNotFound
	}
	if err != nil {
		return nil, labeler.NewStoreError("get", "label_record", err)
	}

	if labelsJSON.Valid && labelsJSON.String != "" {
		if err := json.Unmarshal([]byte(labelsJSON.String), &rec.Labels); err != nil {
			return nil, labeler.NewStoreError("decode", "label_record", err)
		}
	}

	return &rec, nil
}

// ListRecordsByPost lists classification records for a post, newest first.
func (s *Store) ListRecordsByPost(ctx context.Context, postURI string, limit int) ([]labeler.LabelRecord, error) {
	query := s.rebind(`SELECT id, post_uri, content_hash, labels_json, severity, score, match_count, needs_review, created_at
              FROM label_record WHERE post_uri = ?
              ORDER BY created_at DESC LIMIT ?`)

	rows, err := s.db.QueryContext(ctx, query, postURI, limit)
	if err != nil {
		return nil, labeler.NewStoreError("list", "label_record", err)
	}
	defer rows.Close()

	var records []labeler.LabelRecord
	for rows.Next() {
		var rec labeler.LabelRecord
		var labelsJSON sql.NullString
		if err := rows.Scan(&rec.ID, &rec.PostURI, &rec.ContentHash, &labelsJSON,
			&rec.Severity, &rec.Score, &rec.MatchCount, &rec.NeedsReview, &rec.CreatedAt); err != nil {
			return nil, labeler.NewStoreError("scan", "label_record", err)
		}
		if labelsJSON.Valid && labelsJSON.String != "" {
			if err := json.Unmarshal([]byte(labelsJSON.String), &rec.Labels); err != nil {
				return nil, labeler.NewStoreError("decode", "label_record", err)
			}
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// EnqueueReview creates a pending review task.
func (s *Store) EnqueueReview(ctx context.Context, task labeler.ReviewTask) (string, error) {
	if task.ID == "" {
		task.ID = s.idGen.Generate()
	}
	if task.CreatedAt == 0 {
		task.CreatedAt = time.Now().UnixMilli()
	}
	if task.Status == "" {
		task.Status = labeler.ReviewPending
	}

	query := s.rebind(`INSERT INTO review_task (id, record_id, post_uri, excerpt, status, reviewer_id, comment, created_at, resolved_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		task.ID, task.RecordID, task.PostURI, task.Excerpt,
		task.Status, task.ReviewerID, task.Comment, task.CreatedAt, task.ResolvedAt)
	if err != nil {
		return "", labeler.NewStoreError("create", "review_task", err)
	}

	return task.ID, nil
}

// GetReviewTask gets a review task by ID.
func (s *Store) GetReviewTask(ctx context.Context, taskID string) (*labeler.ReviewTask, error) {
	query := s.rebind(`SELECT id, record_id, post_uri, excerpt, status, reviewer_id, comment, created_at, resolved_at
              FROM review_task WHERE id = ?`)

	var t labeler.ReviewTask
	err := s.db.QueryRowContext(ctx, query, taskID).Scan(
		&t.ID, &t.RecordID, &t.PostURI, &t.Excerpt, &t.Status,
		&t.ReviewerID, &t.Comment, &t.CreatedAt, &t.ResolvedAt)
	if err == sql.ErrNoRows {
		return nil, labeler.ErrTaskNotFound
	}
	if err != nil {
		return nil, labeler.NewStoreError("get", "review_task", err)
	}

	return &t, nil
}

// ListPendingReviews lists pending review tasks, oldest first.
func (s *Store) ListPendingReviews(ctx context.Context, limit int) ([]labeler.ReviewTask, error) {
	query := s.rebind(`SELECT id, record_id, post_uri, excerpt, status, reviewer_id, comment, created_at, resolved_at
              FROM review_task WHERE status = ?
              ORDER BY created_at ASC LIMIT ?`)

	rows, err := s.db.QueryContext(ctx, query, labeler.ReviewPending, limit)
	if err != nil {
		return nil, labeler.NewStoreError("list", "review_task", err)
	}
	defer rows.Close()

	var tasks []labeler.ReviewTask
	for rows.Next() {
		var t labeler.ReviewTask
		if err := rows.Scan(&t.ID, &t.RecordID, &t.PostURI, &t.Excerpt, &t.Status,
			&t.ReviewerID, &t.Comment, &t.CreatedAt, &t.ResolvedAt); err != nil {
			return nil, labeler.NewStoreError("scan", "review_task", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// ResolveReview records a reviewer's verdict on a pending task.
func (s *Store) ResolveReview(ctx context.Context, taskID, reviewerID, comment string, status labeler.ReviewStatus) error {
	now := time.Now().UnixMilli()

	query := s.rebind(`UPDATE review_task SET status = ?, reviewer_id = ?, comment = ?, resolved_at = ?
              WHERE id = ? AND status = ?`)

	result, err := s.db.ExecContext(ctx, query, status, reviewerID, comment, now, taskID, labeler.ReviewPending)
	if err != nil {
		return labeler.NewStoreError("update", "review_task", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return labeler.ErrTaskNotFound
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
