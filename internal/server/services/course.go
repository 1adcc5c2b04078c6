package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/logging"
	"github.com/higherpolynomia/backend/internal/server/config"
	"github.com/higherpolynomia/backend/internal/server/models"
	"github.com/higherpolynomia/backend/internal/server/repositories/repomanager"
	"github.com/higherpolynomia/backend/internal/server/storage"
)

// FileUpload is one file received in a multipart request.
type FileUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// CourseInput carries the writable course fields plus any uploaded files.
// Nil file pointers mean "keep the current object".
type CourseInput struct {
	Title       string
	Description string
	Price       string
	Category    string
	Status      string
	Thumbnail   *FileUpload
	Video       *FileUpload
	Notes       *FileUpload
}

// PlaylistWithVideos is a playlist and its videos in playback order.
type PlaylistWithVideos struct {
	Playlist *models.Playlist
	Videos   []*models.Video
}

// CourseDetail is the full course page payload: the course, its ordered
// playlists each with their videos, and videos not attached to any
// playlist.
type CourseDetail struct {
	Course         *models.Course
	Playlists      []*PlaylistWithVideos
	OrphanedVideos []*models.Video
}

// CourseService manages the course catalog and the stored objects the
// catalog references.
type CourseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.FileStore
	logger      logging.Logger
	keyPrefix   string
}

func NewCourseService(db *sql.DB, m repomanager.RepositoryManager, store storage.FileStore,
	logger logging.Logger, cfg *config.Config) *CourseService {
	return &CourseService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger.With("service", "course"),
		keyPrefix:   cfg.S3KeyPrefix,
	}
}

// uploadFile stores one multipart file and returns its public URL.
func (s *CourseService) uploadFile(ctx context.Context, f *FileUpload) (string, error) {
	key := storage.MakeStorageKey(s.keyPrefix, f.Filename)
	url, err := s.store.Upload(ctx, key, f.ContentType, f.Body)
	if err != nil {
		return "", fmt.Errorf("error uploading file: %w", err)
	}
	return url, nil
}

// deleteObject removes a stored object, logging rather than failing:
// once the row change is committed an orphaned object is not worth a 500.
func (s *CourseService) deleteObject(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.store.DeleteByURL(ctx, url); err != nil {
		s.logger.Warn(ctx, "failed to delete stored object", "url", url, "error", err)
	}
}

func (s *CourseService) Create(ctx context.Context, createdBy string, in *CourseInput) (*models.Course, error) {
	if in.Title == "" {
		return nil, common.ErrorValidation
	}

	course := &models.Course{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		CreatedBy:   createdBy,
		Status:      in.Status,
	}

	var err error
	if in.Thumbnail != nil {
		if course.ThumbnailURL, err = s.uploadFile(ctx, in.Thumbnail); err != nil {
			return nil, err
		}
	}
	if in.Video != nil {
		if course.VideoURL, err = s.uploadFile(ctx, in.Video); err != nil {
			return nil, err
		}
	}
	if in.Notes != nil {
		if course.NotesURL, err = s.uploadFile(ctx, in.Notes); err != nil {
			return nil, err
		}
	}

	course, err = s.repomanager.Courses(s.db).Create(ctx, course)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return course, nil
}

// List returns the public catalog. Draft courses are only visible when
// includeDrafts is set (the admin view).
func (s *CourseService) List(ctx context.Context, includeDrafts bool) ([]*models.Course, error) {
	list, err := s.repomanager.Courses(s.db).List(ctx, includeDrafts)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// GetDetail assembles the full course page: playlists in their declared
// order, each with its videos, plus videos that predate playlists.
func (s *CourseService) GetDetail(ctx context.Context, id string) (*CourseDetail, error) {
	courseRepo := s.repomanager.Courses(s.db)

	course, err := courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	playlists, err := s.repomanager.Playlists(s.db).ListByCourse(ctx, id)
	if err != nil {
		return nil, common.ErrorInternal
	}

	videoRepo := s.repomanager.Videos(s.db)

	detail := &CourseDetail{Course: course}
	for _, p := range playlists {
		videos, err := videoRepo.ListByPlaylist(ctx, p.ID)
		if err != nil {
			return nil, common.ErrorInternal
		}
		detail.Playlists = append(detail.Playlists, &PlaylistWithVideos{Playlist: p, Videos: videos})
	}

	orphaned, err := videoRepo.ListOrphaned(ctx, id)
	if err != nil {
		return nil, common.ErrorInternal
	}
	detail.OrphanedVideos = orphaned

	return detail, nil
}

// Update replaces the provided fields and files. A newly uploaded file
// supersedes the previous object, which is deleted after the row is saved.
func (s *CourseService) Update(ctx context.Context, id string, in *CourseInput) (*models.Course, error) {
	repo := s.repomanager.Courses(s.db)

	course, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if in.Title != "" {
		course.Title = in.Title
	}
	if in.Description != "" {
		course.Description = in.Description
	}
	if in.Price != "" {
		course.Price = in.Price
	}
	if in.Category != "" {
		course.Category = in.Category
	}

	var superseded []string

	if in.Thumbnail != nil {
		url, err := s.uploadFile(ctx, in.Thumbnail)
		if err != nil {
			return nil, err
		}
		superseded = append(superseded, course.ThumbnailURL)
		course.ThumbnailURL = url
	}
	if in.Video != nil {
		url, err := s.uploadFile(ctx, in.Video)
		if err != nil {
			return nil, err
		}
		superseded = append(superseded, course.VideoURL)
		course.VideoURL = url
	}
	if in.Notes != nil {
		url, err := s.uploadFile(ctx, in.Notes)
		if err != nil {
			return nil, err
		}
		superseded = append(superseded, course.NotesURL)
		course.NotesURL = url
	}

	if err := repo.Update(ctx, course); err != nil {
		return nil, common.ErrorInternal
	}

	for _, url := range superseded {
		s.deleteObject(ctx, url)
	}

	return course, nil
}

// Delete removes the course row (playlists and videos cascade) and then
// cleans up every stored object the course and its videos referenced.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	repo := s.repomanager.Courses(s.db)

	course, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	videos, err := s.repomanager.Videos(s.db).ListByCourse(ctx, id)
	if err != nil {
		return common.ErrorInternal
	}

	if err := repo.Delete(ctx, id); err != nil {
		return common.ErrorInternal
	}

	s.deleteObject(ctx, course.ThumbnailURL)
	s.deleteObject(ctx, course.VideoURL)
	s.deleteObject(ctx, course.NotesURL)
	for _, v := range videos {
		s.deleteObject(ctx, v.VideoURL)
		s.deleteObject(ctx, v.ThumbnailURL)
		s.deleteObject(ctx, v.NotesURL)
	}

	return nil
}

// SetStatus publishes or unpublishes a course.
func (s *CourseService) SetStatus(ctx context.Context, id string, status string) error {
	if status != models.CourseStatusPublished && status != models.CourseStatusDraft {
		return common.ErrorValidation
	}

	err := s.repomanager.Courses(s.db).UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}
