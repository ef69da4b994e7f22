package repository

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
)

var ErrObjectNotFound = errors.New("object not found")

type ObjectRepository interface {
	Upload(ctx context.Context, path, contentType string, data []byte) error
	Download(ctx context.Context, path string) (*models.StoredObject, error)
	DownloadURL(path string) string
}

type objectRepository struct {
	DB      *sql.DB
	baseURL string
}

func NewObjectRepo(db *sql.DB, publicBaseURL string) ObjectRepository {
	return &objectRepository{DB: db, baseURL: strings.TrimRight(publicBaseURL, "/")}
}

// Upload overwrites any object already stored at path.
func (r *objectRepository) Upload(ctx context.Context, path, contentType string, data []byte) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO objects(path, content_type, data, size, updated_at)
		VALUES($1, $2, $3, $4, NOW())
		ON CONFLICT (path) DO UPDATE
		SET content_type = EXCLUDED.content_type, data = EXCLUDED.data, size = EXCLUDED.size, updated_at = NOW()`

	_, err := r.DB.ExecContext(dbCtx, query, path, contentType, data, int64(len(data)))

	return err
}

func (r *objectRepository) Download(ctx context.Context, path string) (*models.StoredObject, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	obj := &models.StoredObject{}

	query := `
		SELECT path, content_type, data, size, updated_at
		FROM objects
		WHERE path = $1`

	err := r.DB.QueryRowContext(dbCtx, query, path).Scan(&obj.Path, &obj.ContentType, &obj.Data, &obj.Size, &obj.UpdatedAt)
	if err != nil {

		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrObjectNotFound
		}

		return nil, err
	}

	return obj, nil
}

func (r *objectRepository) DownloadURL(path string) string {

	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}

	return r.baseURL + "/api/v1/objects/" + strings.Join(segments, "/")
}
