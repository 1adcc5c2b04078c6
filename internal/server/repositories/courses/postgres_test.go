package courses

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func courseRows(now time.Time, ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "title", "description", "price", "category",
		"thumbnail_url", "video_url", "notes_url", "created_by", "status", "created_at"})
	for _, id := range ids {
		rows.AddRow(id, "Algebra I", "", "499", "math", "", "", "", "admin-1", "published", now)
	}
	return rows
}

func TestCreate_DefaultsToDraft(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow("course-1", time.Now())
	mock.ExpectQuery(`INSERT\s+INTO\s+courses`).
		WithArgs("Algebra I", "", "", "", "", "", "", "admin-1", "draft").
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), &models.Course{Title: "Algebra I", CreatedBy: "admin-1"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "course-1" || got.Status != models.CourseStatusDraft {
		t.Fatalf("unexpected course: %+v", got)
	}
}

func TestList_PublishedOnly(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+.*FROM\s+courses\s+WHERE\s+status\s*=\s*'published'\s+ORDER\s+BY\s+created_at\s+DESC`).
		WillReturnRows(courseRows(time.Now(), "course-1", "course-2"))

	got, err := repo.List(context.Background(), false)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 courses, got %d", len(got))
	}
}

func TestList_IncludeDrafts(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+.*FROM\s+courses\s+ORDER\s+BY\s+created_at\s+DESC`).
		WillReturnRows(courseRows(time.Now(), "course-1"))

	got, err := repo.List(context.Background(), true)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 course, got %d", len(got))
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+.*FROM\s+courses\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+courses\s+SET\s+status\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("course-1", "published").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStatus(context.Background(), "course-1", "published"); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}

	mock.ExpectExec(`UPDATE\s+courses\s+SET\s+status`).
		WithArgs("missing", "draft").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", "draft")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+courses\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
