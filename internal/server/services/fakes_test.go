package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/dbx"
	"github.com/higherpolynomia/backend/internal/logging"
	"github.com/higherpolynomia/backend/internal/server/models"
	"github.com/higherpolynomia/backend/internal/server/repositories/accounts"
	"github.com/higherpolynomia/backend/internal/server/repositories/courses"
	"github.com/higherpolynomia/backend/internal/server/repositories/doubts"
	"github.com/higherpolynomia/backend/internal/server/repositories/playlists"
	"github.com/higherpolynomia/backend/internal/server/repositories/videos"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeAccountRepo is an in-memory accounts.Repository. The mutex makes
// IncrementTokenVersion atomic so concurrency tests are meaningful.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*models.Account // by id
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*models.Account)}
}

func (r *fakeAccountRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *a
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	r.accounts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakeAccountRepo) GetTokenVersion(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok {
		return a.TokenVersion, nil
	}
	return 0, common.ErrorNotFound
}

func (r *fakeAccountRepo) IncrementTokenVersion(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	a.TokenVersion++
	return a.TokenVersion, nil
}

func (r *fakeAccountRepo) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return common.ErrorNotFound
	}
	a.PasswordHash = hash
	return nil
}

type fakeCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*models.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[string]*models.Course)}
}

func (r *fakeCourseRepo) Create(ctx context.Context, c *models.Course) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	if cp.Status == "" {
		cp.Status = models.CourseStatusDraft
	}
	r.courses[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, id string) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakeCourseRepo) List(ctx context.Context, includeDrafts bool) ([]*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Course
	for _, c := range r.courses {
		if !includeDrafts && c.Status != models.CourseStatusPublished {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeCourseRepo) Update(ctx context.Context, c *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.courses[c.ID]
	if !ok {
		return common.ErrorNotFound
	}
	cp := *c
	cp.Status = existing.Status
	r.courses[c.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return common.ErrorNotFound
	}
	c.Status = status
	return nil
}

func (r *fakeCourseRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.courses, id)
	return nil
}

type fakePlaylistRepo struct {
	mu        sync.Mutex
	playlists map[string]*models.Playlist
}

func newFakePlaylistRepo() *fakePlaylistRepo {
	return &fakePlaylistRepo{playlists: make(map[string]*models.Playlist)}
}

func (r *fakePlaylistRepo) Create(ctx context.Context, p *models.Playlist) (*models.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	r.playlists[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakePlaylistRepo) GetByID(ctx context.Context, id string) (*models.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.playlists[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakePlaylistRepo) ListByCourse(ctx context.Context, courseID string) ([]*models.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Playlist
	for _, p := range r.playlists {
		if p.CourseID == courseID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakePlaylistRepo) BelongsToCourse(ctx context.Context, id string, courseID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.playlists[id]
	return ok && p.CourseID == courseID, nil
}

func (r *fakePlaylistRepo) Update(ctx context.Context, p *models.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.playlists[p.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *p
	r.playlists[p.ID] = &cp
	return nil
}

func (r *fakePlaylistRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.playlists[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.playlists, id)
	return nil
}

type fakeVideoRepo struct {
	mu     sync.Mutex
	videos map[string]*models.Video
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: make(map[string]*models.Video)}
}

func (r *fakeVideoRepo) Create(ctx context.Context, v *models.Video) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	r.videos[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeVideoRepo) GetByID(ctx context.Context, id string) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.videos[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakeVideoRepo) list(filter func(*models.Video) bool) []*models.Video {
	var out []*models.Video
	for _, v := range r.videos {
		if filter(v) {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *fakeVideoRepo) ListByCourse(ctx context.Context, courseID string) ([]*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(v *models.Video) bool { return v.CourseID == courseID }), nil
}

func (r *fakeVideoRepo) ListByPlaylist(ctx context.Context, playlistID string) ([]*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(v *models.Video) bool { return v.PlaylistID == playlistID }), nil
}

func (r *fakeVideoRepo) ListOrphaned(ctx context.Context, courseID string) ([]*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(v *models.Video) bool { return v.CourseID == courseID && v.PlaylistID == "" }), nil
}

func (r *fakeVideoRepo) Update(ctx context.Context, v *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[v.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *v
	r.videos[v.ID] = &cp
	return nil
}

func (r *fakeVideoRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.videos, id)
	return nil
}

type fakeDoubtRepo struct {
	mu       sync.Mutex
	requests map[string]*models.DoubtRequest
}

func newFakeDoubtRepo() *fakeDoubtRepo {
	return &fakeDoubtRepo{requests: make(map[string]*models.DoubtRequest)}
}

func (r *fakeDoubtRepo) Create(ctx context.Context, d *models.DoubtRequest) (*models.DoubtRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	cp.ID = uuid.NewString()
	cp.Status = models.DoubtStatusPending
	cp.CreatedAt = time.Now()
	r.requests[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeDoubtRepo) GetByID(ctx context.Context, id string) (*models.DoubtRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.requests[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakeDoubtRepo) List(ctx context.Context) ([]*models.DoubtRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.DoubtRequest
	for _, d := range r.requests {
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeDoubtRepo) Accept(ctx context.Context, id string, duration, meetLink string, scheduledAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.requests[id]
	if !ok {
		return common.ErrorNotFound
	}
	d.Status = models.DoubtStatusAccepted
	d.Duration = sql.NullString{String: duration, Valid: true}
	d.MeetLink = sql.NullString{String: meetLink, Valid: true}
	d.ScheduledAt = sql.NullTime{Time: scheduledAt, Valid: true}
	return nil
}

func (r *fakeDoubtRepo) Reject(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.requests[id]
	if !ok {
		return common.ErrorNotFound
	}
	d.Status = models.DoubtStatusRejected
	return nil
}

// fakeRepoManager hands out the same fake repositories regardless of the
// db handle, which is what lets the services run with a nil *sql.DB.
type fakeRepoManager struct {
	accountRepo  *fakeAccountRepo
	courseRepo   *fakeCourseRepo
	playlistRepo *fakePlaylistRepo
	videoRepo    *fakeVideoRepo
	doubtRepo    *fakeDoubtRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		accountRepo:  newFakeAccountRepo(),
		courseRepo:   newFakeCourseRepo(),
		playlistRepo: newFakePlaylistRepo(),
		videoRepo:    newFakeVideoRepo(),
		doubtRepo:    newFakeDoubtRepo(),
	}
}

func (m *fakeRepoManager) Accounts(db dbx.DBTX) accounts.Repository   { return m.accountRepo }
func (m *fakeRepoManager) Courses(db dbx.DBTX) courses.Repository     { return m.courseRepo }
func (m *fakeRepoManager) Playlists(db dbx.DBTX) playlists.Repository { return m.playlistRepo }
func (m *fakeRepoManager) Videos(db dbx.DBTX) videos.Repository       { return m.videoRepo }
func (m *fakeRepoManager) Doubts(db dbx.DBTX) doubts.Repository       { return m.doubtRepo }
func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

// fakeOTPStore is an in-memory otp.Store without TTL handling; tests
// expire records by deleting them.
type fakeOTPStore struct {
	mu       sync.Mutex
	pendings map[string]*models.PendingSignup
	resets   map[string]string
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{
		pendings: make(map[string]*models.PendingSignup),
		resets:   make(map[string]string),
	}
}

func (s *fakeOTPStore) SavePendingSignup(ctx context.Context, p *models.PendingSignup, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.pendings[p.Email] = &cp
	return nil
}

func (s *fakeOTPStore) GetPendingSignup(ctx context.Context, email string) (*models.PendingSignup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pendings[email]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, common.ErrOTPExpired
}

func (s *fakeOTPStore) DeletePendingSignup(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pendings, email)
	return nil
}

func (s *fakeOTPStore) SaveResetCode(ctx context.Context, email string, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets[email] = code
	return nil
}

func (s *fakeOTPStore) GetResetCode(ctx context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code, ok := s.resets[email]; ok {
		return code, nil
	}
	return "", common.ErrOTPExpired
}

func (s *fakeOTPStore) DeleteResetCode(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resets, email)
	return nil
}

// fakeMailer records outgoing mail instead of sending it.
type sentMail struct {
	To      string
	Subject string
	HTML    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}

func (m *fakeMailer) last() *sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	return &m.sent[len(m.sent)-1]
}

// fakeFileStore tracks uploaded and deleted objects in memory.
type fakeFileStore struct {
	mu       sync.Mutex
	uploaded map[string]string // key -> url
	deleted  []string          // urls
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{uploaded: make(map[string]string)}
}

func (s *fakeFileStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	url := "https://files.test/" + key
	s.uploaded[key] = url
	return url, nil
}

func (s *fakeFileStore) DeleteByURL(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, url)
	return nil
}

func (s *fakeFileStore) PresignPutURL(ctx context.Context, key string) (string, error) {
	return "https://files.test/presigned/" + key, nil
}
