package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddContextRejectsForeignResume(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSearchContextService(db)

	// the resume exists but belongs to someone else, so the ownership count
	// comes back zero
	mock.ExpectQuery(`SELECT count\(\*\) FROM "resumes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	resumeID := uint(5)
	_, err := svc.Add(context.Background(), testIdentity(), []string{"golang"}, &resumeID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddContextWithoutResumeSkipsOwnershipCheck(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSearchContextService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "search_contexts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	sc, err := svc.Add(context.Background(), testIdentity(), []string{"golang", "backend"}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint(3), sc.ID)
	assert.Nil(t, sc.Resume)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveContextNotOwnedIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSearchContextService(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "search_contexts" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := svc.Remove(context.Background(), testIdentity(), 12)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResumeRefResolvesThroughLoader(t *testing.T) {
	db, mock := newMockDB(t)
	contexts := NewSearchContextService(db)
	resumes := NewResumeService(db)

	mock.ExpectQuery(`SELECT \* FROM "search_contexts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "resume_id", "keywords"}).
			AddRow(3, 7, 5, "{golang}"))
	mock.ExpectQuery(`SELECT \* FROM "resumes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "resume_text"}).
			AddRow(5, 7, "Ten years of Go."))

	out, err := contexts.ForUser(context.Background(), testIdentity())
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Resume)
	assert.False(t, out[0].Resume.Resolved())

	resolved, err := out[0].Resume.Resolve(context.Background(), resumes.ByID)
	require.NoError(t, err)
	resume, ok := resolved.Entity()
	require.True(t, ok)
	assert.Equal(t, "Ten years of Go.", resume.ResumeText)
	assert.NoError(t, mock.ExpectationsWereMet())
}
