package videos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/dbx"
	"github.com/higherpolynomia/backend/internal/server/models"
)

const videoColumns = `id, course_id, COALESCE(playlist_id::text, ''), title, COALESCE(description, ''),
	video_url, COALESCE(thumbnail_url, ''), COALESCE(notes_url, ''), duration, order_index, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanVideo(row interface{ Scan(dest ...any) error }) (*models.Video, error) {
	v := &models.Video{}
	err := row.Scan(&v.ID, &v.CourseID, &v.PlaylistID, &v.Title, &v.Description,
		&v.VideoURL, &v.ThumbnailURL, &v.NotesURL, &v.Duration, &v.OrderIndex, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *PostgresRepository) Create(ctx context.Context, video *models.Video) (*models.Video, error) {

	query :=
		`INSERT INTO course_videos (course_id, playlist_id, title, description, video_url, thumbnail_url, notes_url, duration, order_index)
		 VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at
		 `

	if video.Duration == "" {
		video.Duration = "00:00"
	}

	err := r.db.QueryRowContext(ctx, query,
		video.CourseID, video.PlaylistID, video.Title, video.Description,
		video.VideoURL, video.ThumbnailURL, video.NotesURL, video.Duration, video.OrderIndex).
		Scan(&video.ID, &video.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return video, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM course_videos WHERE id = $1`

	video, err := scanVideo(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return video, nil
}

func (r *PostgresRepository) ListByCourse(ctx context.Context, courseID string) ([]*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM course_videos WHERE course_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, courseID)
}

func (r *PostgresRepository) ListByPlaylist(ctx context.Context, playlistID string) ([]*models.Video, error) {
	query := `SELECT ` + videoColumns + `
		 FROM course_videos
		 WHERE playlist_id = $1
		 ORDER BY order_index ASC, created_at ASC`
	return r.list(ctx, query, playlistID)
}

func (r *PostgresRepository) ListOrphaned(ctx context.Context, courseID string) ([]*models.Video, error) {
	query := `SELECT ` + videoColumns + `
		 FROM course_videos
		 WHERE course_id = $1 AND playlist_id IS NULL
		 ORDER BY created_at ASC`
	return r.list(ctx, query, courseID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg string) ([]*models.Video, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, video *models.Video) error {
	query :=
		`UPDATE course_videos
		 SET title = $2, description = $3, video_url = $4, thumbnail_url = $5,
		     notes_url = $6, duration = $7, playlist_id = NULLIF($8, '')::uuid, order_index = $9
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		video.ID, video.Title, video.Description, video.VideoURL,
		video.ThumbnailURL, video.NotesURL, video.Duration, video.PlaylistID, video.OrderIndex)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM course_videos WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
