package doubts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/dbx"
	"github.com/higherpolynomia/backend/internal/server/models"
)

const doubtColumns = `id, user_name, user_email, course_name, doubt_description, status,
	duration, meet_link, scheduled_at, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanDoubt(row interface{ Scan(dest ...any) error }) (*models.DoubtRequest, error) {
	d := &models.DoubtRequest{}
	err := row.Scan(&d.ID, &d.UserName, &d.UserEmail, &d.CourseName, &d.Description,
		&d.Status, &d.Duration, &d.MeetLink, &d.ScheduledAt, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *PostgresRepository) Create(ctx context.Context, request *models.DoubtRequest) (*models.DoubtRequest, error) {

	query :=
		`INSERT INTO doubt_requests (user_name, user_email, course_name, doubt_description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, status, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		request.UserName, request.UserEmail, request.CourseName, request.Description).
		Scan(&request.ID, &request.Status, &request.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return request, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.DoubtRequest, error) {
	query := `SELECT ` + doubtColumns + ` FROM doubt_requests WHERE id = $1`

	request, err := scanDoubt(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return request, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.DoubtRequest, error) {
	query := `SELECT ` + doubtColumns + ` FROM doubt_requests ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.DoubtRequest
	for rows.Next() {
		request, err := scanDoubt(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Accept(ctx context.Context, id string, duration string, meetLink string, scheduledAt time.Time) error {
	query :=
		`UPDATE doubt_requests
		 SET status = 'accepted', duration = $2, meet_link = $3, scheduled_at = $4
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, duration, meetLink, scheduledAt)
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

func (r *PostgresRepository) Reject(ctx context.Context, id string) error {
	query := `UPDATE doubt_requests SET status = 'rejected' WHERE id = $1`

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
