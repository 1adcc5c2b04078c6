package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/server/models"
	"github.com/higherpolynomia/backend/internal/server/repositories/repomanager"
)

// PlaylistService manages the ordered groupings of videos inside a course.
type PlaylistService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPlaylistService(db *sql.DB, m repomanager.RepositoryManager) *PlaylistService {
	return &PlaylistService{db: db, repomanager: m}
}

// PlaylistUpdate carries a partial update. Nil pointers mean "leave as is".
type PlaylistUpdate struct {
	Title       *string
	Description *string
	OrderIndex  *int
}

func (s *PlaylistService) Create(ctx context.Context, courseID, title, description string, orderIndex int) (*models.Playlist, error) {
	if courseID == "" || title == "" {
		return nil, common.ErrorValidation
	}

	// the playlist must point at an existing course
	if _, err := s.repomanager.Courses(s.db).GetByID(ctx, courseID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	playlist, err := s.repomanager.Playlists(s.db).Create(ctx, &models.Playlist{
		CourseID:    courseID,
		Title:       title,
		Description: description,
		OrderIndex:  orderIndex,
	})
	if err != nil {
		return nil, common.ErrorInternal
	}

	return playlist, nil
}

func (s *PlaylistService) ListByCourse(ctx context.Context, courseID string) ([]*models.Playlist, error) {
	list, err := s.repomanager.Playlists(s.db).ListByCourse(ctx, courseID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// GetWithVideos returns the playlist and its videos in playback order.
func (s *PlaylistService) GetWithVideos(ctx context.Context, id string) (*PlaylistWithVideos, error) {
	playlist, err := s.repomanager.Playlists(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	videos, err := s.repomanager.Videos(s.db).ListByPlaylist(ctx, id)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &PlaylistWithVideos{Playlist: playlist, Videos: videos}, nil
}

func (s *PlaylistService) Update(ctx context.Context, id string, in *PlaylistUpdate) (*models.Playlist, error) {
	repo := s.repomanager.Playlists(s.db)

	playlist, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if in.Title != nil {
		playlist.Title = *in.Title
	}
	if in.Description != nil {
		playlist.Description = *in.Description
	}
	if in.OrderIndex != nil {
		playlist.OrderIndex = *in.OrderIndex
	}

	if err := repo.Update(ctx, playlist); err != nil {
		return nil, common.ErrorInternal
	}

	return playlist, nil
}

func (s *PlaylistService) Delete(ctx context.Context, id string) error {
	err := s.repomanager.Playlists(s.db).Delete(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}
