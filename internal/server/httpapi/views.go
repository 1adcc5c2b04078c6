package httpapi

import (
	"time"

	"github.com/higherpolynomia/backend/internal/server/models"
	"github.com/higherpolynomia/backend/internal/server/services"
)

// JSON views of the domain models. Field names follow the shapes the web
// client already consumes.

type accountView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

func newAccountView(a *models.Account) accountView {
	return accountView{ID: a.ID, Name: a.Name, Email: a.Email, Phone: a.Phone}
}

type courseView struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        string    `json:"price"`
	Category     string    `json:"category"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	VideoURL     string    `json:"videoUrl"`
	NotesURL     string    `json:"notesUrl"`
	CreatedBy    string    `json:"createdBy"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newCourseView(c *models.Course) courseView {
	return courseView{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Price:        c.Price,
		Category:     c.Category,
		ThumbnailURL: c.ThumbnailURL,
		VideoURL:     c.VideoURL,
		NotesURL:     c.NotesURL,
		CreatedBy:    c.CreatedBy,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
	}
}

func newCourseViews(list []*models.Course) []courseView {
	out := make([]courseView, 0, len(list))
	for _, c := range list {
		out = append(out, newCourseView(c))
	}
	return out
}

type playlistView struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"courseId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OrderIndex  int       `json:"orderIndex"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newPlaylistView(p *models.Playlist) playlistView {
	return playlistView{
		ID:          p.ID,
		CourseID:    p.CourseID,
		Title:       p.Title,
		Description: p.Description,
		OrderIndex:  p.OrderIndex,
		CreatedAt:   p.CreatedAt,
	}
}

func newPlaylistViews(list []*models.Playlist) []playlistView {
	out := make([]playlistView, 0, len(list))
	for _, p := range list {
		out = append(out, newPlaylistView(p))
	}
	return out
}

type videoView struct {
	ID           string    `json:"id"`
	CourseID     string    `json:"courseId"`
	PlaylistID   string    `json:"playlistId,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	NotesURL     string    `json:"notesUrl"`
	Duration     string    `json:"duration"`
	OrderIndex   int       `json:"orderIndex"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newVideoView(v *models.Video) videoView {
	return videoView{
		ID:           v.ID,
		CourseID:     v.CourseID,
		PlaylistID:   v.PlaylistID,
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		NotesURL:     v.NotesURL,
		Duration:     v.Duration,
		OrderIndex:   v.OrderIndex,
		CreatedAt:    v.CreatedAt,
	}
}

func newVideoViews(list []*models.Video) []videoView {
	out := make([]videoView, 0, len(list))
	for _, v := range list {
		out = append(out, newVideoView(v))
	}
	return out
}

type playlistWithVideosView struct {
	playlistView
	Videos []videoView `json:"videos"`
}

func newPlaylistWithVideosView(p *services.PlaylistWithVideos) playlistWithVideosView {
	return playlistWithVideosView{
		playlistView: newPlaylistView(p.Playlist),
		Videos:       newVideoViews(p.Videos),
	}
}

type courseDetailView struct {
	courseView
	Playlists      []playlistWithVideosView `json:"playlists"`
	OrphanedVideos []videoView              `json:"orphanedVideos"`
}

func newCourseDetailView(d *services.CourseDetail) courseDetailView {
	view := courseDetailView{
		courseView:     newCourseView(d.Course),
		Playlists:      make([]playlistWithVideosView, 0, len(d.Playlists)),
		OrphanedVideos: newVideoViews(d.OrphanedVideos),
	}
	for _, p := range d.Playlists {
		view.Playlists = append(view.Playlists, newPlaylistWithVideosView(p))
	}
	return view
}

type doubtView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	CourseName  string     `json:"courseName"`
	Description string     `json:"doubtDescription"`
	Status      string     `json:"status"`
	Duration    string     `json:"duration,omitempty"`
	MeetLink    string     `json:"meetLink,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func newDoubtView(d *models.DoubtRequest) doubtView {
	view := doubtView{
		ID:          d.ID,
		Name:        d.UserName,
		Email:       d.UserEmail,
		CourseName:  d.CourseName,
		Description: d.Description,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
	}
	if d.Duration.Valid {
		view.Duration = d.Duration.String
	}
	if d.MeetLink.Valid {
		view.MeetLink = d.MeetLink.String
	}
	if d.ScheduledAt.Valid {
		t := d.ScheduledAt.Time
		view.ScheduledAt = &t
	}
	return view
}

func newDoubtViews(list []*models.DoubtRequest) []doubtView {
	out := make([]doubtView, 0, len(list))
	for _, d := range list {
		out = append(out, newDoubtView(d))
	}
	return out
}
