// Package doubts persists doubt-session requests and their three-state
// status flag.
package doubts

import (
	"context"
	"time"

	"github.com/higherpolynomia/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, request *models.DoubtRequest) (*models.DoubtRequest, error)
	GetByID(ctx context.Context, id string) (*models.DoubtRequest, error)
	// List returns all requests, newest first.
	List(ctx context.Context) ([]*models.DoubtRequest, error)
	// Accept sets the status to accepted along with the session details.
	Accept(ctx context.Context, id string, duration string, meetLink string, scheduledAt time.Time) error
	// Reject sets the status to rejected.
	Reject(ctx context.Context, id string) error
}
