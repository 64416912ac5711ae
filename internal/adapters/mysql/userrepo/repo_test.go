package userrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/userrepo"
)

func newMock(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRepo(db), mock
}

var userColumns = []string{"external_id", "email", "first_name", "last_name", "image_url", "created_at", "updated_at"}

func TestRepo_Upsert_KeepsCreatedAtOnDuplicate(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	first := "Ada"

	mock.ExpectExec(`INSERT INTO users .* ON DUPLICATE KEY UPDATE\s+email = VALUES\(email\),\s+first_name = VALUES\(first_name\),\s+last_name = VALUES\(last_name\),\s+image_url = VALUES\(image_url\),\s+updated_at = VALUES\(updated_at\)\s*$`).
		WithArgs("user_1", "ada@example.com", "Ada", nil, nil, now, now).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.Upsert(context.Background(), userrepo.User{ExternalID: "user_1", Email: "ada@example.com", FirstName: &first, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRepo_GetByExternalID(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM users\s+WHERE external_id = \?`).
		WithArgs("user_1").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("user_1", "ada@example.com", "Ada", nil, nil, now, now))

	u, err := repo.GetByExternalID(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("GetByExternalID: %v", err)
	}
	if u.FirstName == nil || *u.FirstName != "Ada" || u.LastName != nil || !u.CreatedAt.Equal(now) {
		t.Fatalf("u=%+v", u)
	}

	mock.ExpectQuery(`FROM users\s+WHERE external_id = \?`).
		WithArgs("user_2").
		WillReturnRows(sqlmock.NewRows(userColumns))
	if _, err := repo.GetByExternalID(context.Background(), "user_2"); !errors.Is(err, userrepo.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestRepo_DeleteByExternalID_MissingIsNotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM users WHERE external_id = \?`).
		WithArgs("user_gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteByExternalID(context.Background(), "user_gone"); !errors.Is(err, userrepo.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}
