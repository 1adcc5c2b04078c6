package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/logging"
	"github.com/higherpolynomia/backend/internal/server/config"
	"github.com/higherpolynomia/backend/internal/server/models"
	"github.com/higherpolynomia/backend/internal/server/repositories/repomanager"
	"github.com/higherpolynomia/backend/internal/server/storage"
)

// VideoInput carries the writable video fields and uploads. The video file
// is mandatory on create; on update every file is optional.
type VideoInput struct {
	CourseID    string
	PlaylistID  string
	Title       string
	Description string
	Duration    string
	OrderIndex  *int
	Video       *FileUpload
	Thumbnail   *FileUpload
	Notes       *FileUpload
}

// VideoService manages lecture uploads and their stored media.
type VideoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.FileStore
	logger      logging.Logger
	keyPrefix   string
}

func NewVideoService(db *sql.DB, m repomanager.RepositoryManager, store storage.FileStore,
	logger logging.Logger, cfg *config.Config) *VideoService {
	return &VideoService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger.With("service", "video"),
		keyPrefix:   cfg.S3KeyPrefix,
	}
}

func (s *VideoService) uploadFile(ctx context.Context, f *FileUpload) (string, error) {
	key := storage.MakeStorageKey(s.keyPrefix, f.Filename)
	url, err := s.store.Upload(ctx, key, f.ContentType, f.Body)
	if err != nil {
		return "", fmt.Errorf("error uploading file: %w", err)
	}
	return url, nil
}

func (s *VideoService) deleteObject(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.store.DeleteByURL(ctx, url); err != nil {
		s.logger.Warn(ctx, "failed to delete stored object", "url", url, "error", err)
	}
}

// Upload creates a lecture. The video file and a playlist are required,
// the playlist must belong to the stated course, and the course must
// exist.
func (s *VideoService) Upload(ctx context.Context, in *VideoInput) (*models.Video, error) {
	if in.Title == "" || in.CourseID == "" || in.PlaylistID == "" || in.Video == nil {
		return nil, common.ErrorValidation
	}

	if _, err := s.repomanager.Courses(s.db).GetByID(ctx, in.CourseID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	ok, err := s.repomanager.Playlists(s.db).BelongsToCourse(ctx, in.PlaylistID, in.CourseID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrorValidation
	}

	video := &models.Video{
		CourseID:    in.CourseID,
		PlaylistID:  in.PlaylistID,
		Title:       in.Title,
		Description: in.Description,
		Duration:    in.Duration,
	}
	if video.Duration == "" {
		video.Duration = "00:00"
	}
	if in.OrderIndex != nil {
		video.OrderIndex = *in.OrderIndex
	}

	if video.VideoURL, err = s.uploadFile(ctx, in.Video); err != nil {
		return nil, err
	}
	if in.Thumbnail != nil {
		if video.ThumbnailURL, err = s.uploadFile(ctx, in.Thumbnail); err != nil {
			return nil, err
		}
	}
	if in.Notes != nil {
		if video.NotesURL, err = s.uploadFile(ctx, in.Notes); err != nil {
			return nil, err
		}
	}

	video, err = s.repomanager.Videos(s.db).Create(ctx, video)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return video, nil
}

// Update replaces the provided fields and files; superseded objects are
// deleted after the row is saved.
func (s *VideoService) Update(ctx context.Context, id string, in *VideoInput) (*models.Video, error) {
	repo := s.repomanager.Videos(s.db)

	video, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if in.Title != "" {
		video.Title = in.Title
	}
	if in.Description != "" {
		video.Description = in.Description
	}
	if in.Duration != "" {
		video.Duration = in.Duration
	}
	if in.PlaylistID != "" {
		video.PlaylistID = in.PlaylistID
	}
	if in.OrderIndex != nil {
		video.OrderIndex = *in.OrderIndex
	}

	var superseded []string

	if in.Video != nil {
		url, err := s.uploadFile(ctx, in.Video)
		if err != nil {
			return nil, err
		}
		superseded = append(superseded, video.VideoURL)
		video.VideoURL = url
	}
	if in.Thumbnail != nil {
		url, err := s.uploadFile(ctx, in.Thumbnail)
		if err != nil {
			return nil, err
		}
		superseded = append(superseded, video.ThumbnailURL)
		video.ThumbnailURL = url
	}
	if in.Notes != nil {
		url, err := s.uploadFile(ctx, in.Notes)
		if err != nil {
			return nil, err
		}
		superseded = append(superseded, video.NotesURL)
		video.NotesURL = url
	}

	if err := repo.Update(ctx, video); err != nil {
		return nil, common.ErrorInternal
	}

	for _, url := range superseded {
		s.deleteObject(ctx, url)
	}

	return video, nil
}

// Delete removes the row and then its stored media.
func (s *VideoService) Delete(ctx context.Context, id string) error {
	repo := s.repomanager.Videos(s.db)

	video, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if err := repo.Delete(ctx, id); err != nil {
		return common.ErrorInternal
	}

	s.deleteObject(ctx, video.VideoURL)
	s.deleteObject(ctx, video.ThumbnailURL)
	s.deleteObject(ctx, video.NotesURL)

	return nil
}

func (s *VideoService) ListByCourse(ctx context.Context, courseID string) ([]*models.Video, error) {
	list, err := s.repomanager.Videos(s.db).ListByCourse(ctx, courseID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// GetPresignedPutURL hands out a presigned PUT URL so large media can be
// uploaded straight to the bucket, bypassing the API server.
func (s *VideoService) GetPresignedPutURL(ctx context.Context, filename string) (string, string, error) {
	if filename == "" {
		return "", "", common.ErrorValidation
	}

	key := storage.MakeStorageKey(s.keyPrefix, filename)

	url, err := s.store.PresignPutURL(ctx, key)
	if err != nil {
		return "", "", common.ErrorInternal
	}

	return key, url, nil
}
