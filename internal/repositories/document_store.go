package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
)

const (
	UsersCollection  = "users"
	OrdersCollection = "orders"
)

// Document is one JSON body stored under collection/id.
type Document struct {
	Collection string
	ID         string
	Data       json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Filter is an equality match on a top-level body field.
type Filter struct {
	Field string
	Value string
}

type QueryOptions struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (*Document, bool, error)
	Set(ctx context.Context, collection, id string, data any, merge bool) error
	Add(ctx context.Context, collection string, data any) (string, time.Time, error)
	Query(ctx context.Context, collection string, opts QueryOptions) ([]Document, error)
}

var fieldPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

var ErrInvalidField = errors.New("invalid document field name")

type documentStore struct {
	DB *sql.DB
}

func NewDocumentStore(db *sql.DB) DocumentStore {
	return &documentStore{DB: db}
}

func (r *documentStore) Get(ctx context.Context, collection, id string) (*Document, bool, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	doc := &Document{Collection: collection}

	query := `
		SELECT id, body, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND id = $2`

	var body []byte

	err := r.DB.QueryRowContext(dbCtx, query, collection, id).Scan(&doc.ID, &body, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {

		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, err
	}

	doc.Data = body

	return doc, true, nil
}

// Set writes data at collection/id. With merge the top-level keys of data are
// merged into the existing body; otherwise the body is replaced.
func (r *documentStore) Set(ctx context.Context, collection, id string, data any, merge bool) error {

	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s/%s: %w", collection, id, err)
	}

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO documents(collection, id, body, created_at, updated_at)
		VALUES($1, $2, $3, NOW(), NOW())
		ON CONFLICT (collection, id) DO UPDATE
		SET body = EXCLUDED.body, updated_at = NOW()`

	if merge {
		query = `
		INSERT INTO documents(collection, id, body, created_at, updated_at)
		VALUES($1, $2, $3, NOW(), NOW())
		ON CONFLICT (collection, id) DO UPDATE
		SET body = documents.body || EXCLUDED.body, updated_at = NOW()`
	}

	_, err = r.DB.ExecContext(dbCtx, query, collection, id, body)

	return err
}

// Add appends a document with a generated id and a server assigned timestamp.
func (r *documentStore) Add(ctx context.Context, collection string, data any) (string, time.Time, error) {

	body, err := json.Marshal(data)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to marshal document for %s: %w", collection, err)
	}

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	id := uuid.NewString()

	query := `
		INSERT INTO documents(collection, id, body, created_at, updated_at)
		VALUES($1, $2, $3, NOW(), NOW())
		RETURNING created_at`

	var createdAt time.Time

	if err := r.DB.QueryRowContext(dbCtx, query, collection, id, body).Scan(&createdAt); err != nil {
		return "", time.Time{}, err
	}

	return id, createdAt, nil
}

func (r *documentStore) Query(ctx context.Context, collection string, opts QueryOptions) ([]Document, error) {

	var sb strings.Builder
	args := []any{collection}

	sb.WriteString(`
		SELECT id, body, created_at, updated_at
		FROM documents
		WHERE collection = $1`)

	for _, f := range opts.Filters {
		if !fieldPattern.MatchString(f.Field) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, f.Field)
		}

		args = append(args, f.Value)
		fmt.Fprintf(&sb, " AND body->>'%s' = $%d", f.Field, len(args))
	}

	if opts.OrderBy != "" {
		var column string

		switch opts.OrderBy {
		case "created_at", "updated_at", "id":
			column = opts.OrderBy
		default:
			if !fieldPattern.MatchString(opts.OrderBy) {
				return nil, fmt.Errorf("%w: %q", ErrInvalidField, opts.OrderBy)
			}
			column = fmt.Sprintf("body->>'%s'", opts.OrderBy)
		}

		direction := "ASC"
		if opts.Descending {
			direction = "DESC"
		}

		fmt.Fprintf(&sb, " ORDER BY %s %s", column, direction)
	}

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []Document{}

	for rows.Next() {

		doc := Document{Collection: collection}
		var body []byte

		if err := rows.Scan(&doc.ID, &body, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}

		doc.Data = body
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}
