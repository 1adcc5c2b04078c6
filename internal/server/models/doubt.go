package models

import (
	"database/sql"
	"time"
)

// Doubt request statuses.
const (
	DoubtStatusPending  = "pending"
	DoubtStatusAccepted = "accepted"
	DoubtStatusRejected = "rejected"
)

// DoubtRequest is a student's ask for a live help session. Duration,
// MeetLink and ScheduledAt are only set once the request is accepted.
type DoubtRequest struct {
	ID          string
	UserName    string
	UserEmail   string
	CourseName  string
	Description string
	Status      string
	Duration    sql.NullString
	MeetLink    sql.NullString
	ScheduledAt sql.NullTime
	CreatedAt   time.Time
}
