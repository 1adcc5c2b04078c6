// Package repomanager provides access to the persistence layer,
// wiring together repository constructors and database migrations (via
// goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/higherpolynomia/backend/internal/dbx"
	"github.com/higherpolynomia/backend/internal/server/repositories/accounts"
	"github.com/higherpolynomia/backend/internal/server/repositories/courses"
	"github.com/higherpolynomia/backend/internal/server/repositories/doubts"
	"github.com/higherpolynomia/backend/internal/server/repositories/playlists"
	"github.com/higherpolynomia/backend/internal/server/repositories/videos"
)

// RepositoryManager hands out repositories bound to the given handle,
// which may be a *sql.DB or a transaction from dbx.WithTx.
type RepositoryManager interface {
	Accounts(db dbx.DBTX) accounts.Repository
	Courses(db dbx.DBTX) courses.Repository
	Playlists(db dbx.DBTX) playlists.Repository
	Videos(db dbx.DBTX) videos.Repository
	Doubts(db dbx.DBTX) doubts.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
