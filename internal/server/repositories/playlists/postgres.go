package playlists

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/dbx"
	"github.com/higherpolynomia/backend/internal/server/models"
)

const playlistColumns = `id, course_id, title, COALESCE(description, ''), order_index, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanPlaylist(row interface{ Scan(dest ...any) error }) (*models.Playlist, error) {
	p := &models.Playlist{}
	err := row.Scan(&p.ID, &p.CourseID, &p.Title, &p.Description, &p.OrderIndex, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, playlist *models.Playlist) (*models.Playlist, error) {

	query :=
		`INSERT INTO playlists (course_id, title, description, order_index)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		playlist.CourseID, playlist.Title, playlist.Description, playlist.OrderIndex).
		Scan(&playlist.ID, &playlist.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return playlist, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE id = $1`

	playlist, err := scanPlaylist(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return playlist, nil
}

func (r *PostgresRepository) ListByCourse(ctx context.Context, courseID string) ([]*models.Playlist, error) {
	query := `SELECT ` + playlistColumns + `
		 FROM playlists
		 WHERE course_id = $1
		 ORDER BY order_index ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Playlist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) BelongsToCourse(ctx context.Context, id string, courseID string) (bool, error) {
	query := `SELECT id FROM playlists WHERE id = $1 AND course_id = $2`

	var found string
	err := r.db.QueryRowContext(ctx, query, id, courseID).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	return true, nil
}

func (r *PostgresRepository) Update(ctx context.Context, playlist *models.Playlist) error {
	query :=
		`UPDATE playlists
		 SET title = $2, description = $3, order_index = $4
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		playlist.ID, playlist.Title, playlist.Description, playlist.OrderIndex)
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
	query := `DELETE FROM playlists WHERE id = $1`

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
