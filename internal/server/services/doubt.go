package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/logging"
	"github.com/higherpolynomia/backend/internal/server/mail"
	"github.com/higherpolynomia/backend/internal/server/models"
	"github.com/higherpolynomia/backend/internal/server/repositories/repomanager"
)

// DoubtService handles the request/accept/reject workflow for live help
// sessions. Status changes are committed first; the notification email is
// best effort and a delivery failure is logged, not rolled back.
type DoubtService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      mail.Sender
	logger      logging.Logger
}

func NewDoubtService(db *sql.DB, m repomanager.RepositoryManager, mailer mail.Sender, logger logging.Logger) *DoubtService {
	return &DoubtService{
		db:          db,
		repomanager: m,
		mailer:      mailer,
		logger:      logger.With("service", "doubt"),
	}
}

func (s *DoubtService) Create(ctx context.Context, userName, userEmail, courseName, description string) (*models.DoubtRequest, error) {
	if userName == "" || userEmail == "" || courseName == "" || description == "" {
		return nil, common.ErrorValidation
	}

	request, err := s.repomanager.Doubts(s.db).Create(ctx, &models.DoubtRequest{
		UserName:    userName,
		UserEmail:   userEmail,
		CourseName:  courseName,
		Description: description,
	})
	if err != nil {
		return nil, common.ErrorInternal
	}

	return request, nil
}

func (s *DoubtService) List(ctx context.Context) ([]*models.DoubtRequest, error) {
	list, err := s.repomanager.Doubts(s.db).List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Accept schedules the session and notifies the student by email.
func (s *DoubtService) Accept(ctx context.Context, id string, duration, meetLink string, scheduledAt time.Time) (*models.DoubtRequest, error) {
	if duration == "" || meetLink == "" || scheduledAt.IsZero() {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Doubts(s.db)

	request, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if err := repo.Accept(ctx, id, duration, meetLink, scheduledAt); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	request.Status = models.DoubtStatusAccepted
	request.Duration = sql.NullString{String: duration, Valid: true}
	request.MeetLink = sql.NullString{String: meetLink, Valid: true}
	request.ScheduledAt = sql.NullTime{Time: scheduledAt, Valid: true}

	html := mail.DoubtAcceptedHTML(request.UserName, request.CourseName, duration, meetLink, scheduledAt)
	if err := s.mailer.Send(ctx, request.UserEmail, mail.DoubtAcceptSubject, html); err != nil {
		s.logger.Warn(ctx, "failed to send acceptance email", "doubt_id", id, "error", err)
	}

	return request, nil
}

// Reject declines the request and notifies the student by email.
func (s *DoubtService) Reject(ctx context.Context, id string) (*models.DoubtRequest, error) {
	repo := s.repomanager.Doubts(s.db)

	request, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if err := repo.Reject(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	request.Status = models.DoubtStatusRejected

	html := mail.DoubtRejectedHTML(request.UserName, request.CourseName)
	if err := s.mailer.Send(ctx, request.UserEmail, mail.DoubtRejectSubject, html); err != nil {
		s.logger.Warn(ctx, "failed to send rejection email", "doubt_id", id, "error", err)
	}

	return request, nil
}
