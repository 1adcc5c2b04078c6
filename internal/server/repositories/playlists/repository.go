// Package playlists persists the ordered groupings of videos inside a
// course.
package playlists

import (
	"context"

	"github.com/higherpolynomia/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, playlist *models.Playlist) (*models.Playlist, error)
	GetByID(ctx context.Context, id string) (*models.Playlist, error)
	// ListByCourse returns playlists ordered by order_index, then creation
	// time.
	ListByCourse(ctx context.Context, courseID string) ([]*models.Playlist, error)
	// BelongsToCourse reports whether the playlist exists and is attached
	// to the given course.
	BelongsToCourse(ctx context.Context, id string, courseID string) (bool, error)
	Update(ctx context.Context, playlist *models.Playlist) error
	Delete(ctx context.Context, id string) error
}
