package courses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/dbx"
	"github.com/higherpolynomia/backend/internal/server/models"
)

const courseColumns = `id, title, COALESCE(description, ''), COALESCE(price, ''), COALESCE(category, ''),
	COALESCE(thumbnail_url, ''), COALESCE(video_url, ''), COALESCE(notes_url, ''),
	COALESCE(created_by, ''), status, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanCourse(row interface{ Scan(dest ...any) error }) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Price, &c.Category,
		&c.ThumbnailURL, &c.VideoURL, &c.NotesURL, &c.CreatedBy, &c.Status, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, course *models.Course) (*models.Course, error) {

	query :=
		`INSERT INTO courses (title, description, price, category, thumbnail_url, video_url, notes_url, created_by, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at
		 `

	if course.Status == "" {
		course.Status = models.CourseStatusDraft
	}

	err := r.db.QueryRowContext(ctx, query,
		course.Title, course.Description, course.Price, course.Category,
		course.ThumbnailURL, course.VideoURL, course.NotesURL, course.CreatedBy, course.Status).
		Scan(&course.ID, &course.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return course, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	course, err := scanCourse(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return course, nil
}

func (r *PostgresRepository) List(ctx context.Context, includeDrafts bool) ([]*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses`
	if !includeDrafts {
		query += ` WHERE status = 'published'`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, course *models.Course) error {
	query :=
		`UPDATE courses
		 SET title = $2, description = $3, price = $4, category = $5,
		     thumbnail_url = $6, video_url = $7, notes_url = $8
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		course.ID, course.Title, course.Description, course.Price, course.Category,
		course.ThumbnailURL, course.VideoURL, course.NotesURL)
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

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	query := `UPDATE courses SET status = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, status)
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
	query := `DELETE FROM courses WHERE id = $1`

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
