// Package courses persists the course catalog.
package courses

import (
	"context"

	"github.com/higherpolynomia/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, course *models.Course) (*models.Course, error)
	GetByID(ctx context.Context, id string) (*models.Course, error)
	// List returns courses newest first. Draft courses are included only
	// when includeDrafts is set.
	List(ctx context.Context, includeDrafts bool) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	UpdateStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string) error
}
