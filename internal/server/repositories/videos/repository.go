// Package videos persists lecture metadata; the media itself lives in
// object storage and is referenced by URL.
package videos

import (
	"context"

	"github.com/higherpolynomia/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, video *models.Video) (*models.Video, error)
	GetByID(ctx context.Context, id string) (*models.Video, error)
	ListByCourse(ctx context.Context, courseID string) ([]*models.Video, error)
	// ListByPlaylist returns videos ordered by order_index, then creation
	// time.
	ListByPlaylist(ctx context.Context, playlistID string) ([]*models.Video, error)
	// ListOrphaned returns the course's videos that predate playlists.
	ListOrphaned(ctx context.Context, courseID string) ([]*models.Video, error)
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id string) error
}
