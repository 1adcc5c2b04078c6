package models

import "time"

// Course statuses. Draft courses are hidden from the public listing.
const (
	CourseStatusPublished = "published"
	CourseStatusDraft     = "draft"
)

// Course is a sellable unit of content. The URL fields point at public
// objects in the storage bucket and may be empty.
type Course struct {
	ID           string
	Title        string
	Description  string
	Price        string
	Category     string
	ThumbnailURL string
	VideoURL     string
	NotesURL     string
	CreatedBy    string
	Status       string
	CreatedAt    time.Time
}

// Playlist groups videos inside a course, ordered by OrderIndex.
type Playlist struct {
	ID          string
	CourseID    string
	Title       string
	Description string
	OrderIndex  int
	CreatedAt   time.Time
}

// Video is a single lecture. PlaylistID may be empty for legacy videos that
// were uploaded before playlists existed.
type Video struct {
	ID           string
	CourseID     string
	PlaylistID   string
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	NotesURL     string
	Duration     string
	OrderIndex   int
	CreatedAt    time.Time
}
