package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminus/core/models"
	"terminus/database"
)

func testRepo(t *testing.T) *RequestLogRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "terminus-test.db")
	require.NoError(t, database.Initialize(dbPath))
	t.Cleanup(func() {
		require.NoError(t, database.Close())
	})

	return NewRequestLogRepository(database.GetDB())
}

func TestCreateAndGetRecent(t *testing.T) {
	repo := testRepo(t)

	first := &models.RequestLog{
		Route:       "/api/data",
		ProjectID:   "proj-1",
		Success:     true,
		QueryErrors: 0,
		DurationMS:  120,
		RequestedAt: time.Now().Add(-time.Minute),
	}
	second := &models.RequestLog{
		Route:       "/",
		Success:     true,
		QueryErrors: 2,
		DurationMS:  300,
		RequestedAt: time.Now(),
	}

	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))
	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	entries, err := repo.GetRecent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "/", entries[0].Route)
	assert.Equal(t, 2, entries[0].QueryErrors)
	assert.Equal(t, "/api/data", entries[1].Route)
	assert.Equal(t, "proj-1", entries[1].ProjectID)
}

func TestGetRecentRespectsLimit(t *testing.T) {
	repo := testRepo(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(&models.RequestLog{
			Route:       "/",
			RequestedAt: time.Now().Add(time.Duration(i) * time.Second),
		}))
	}

	entries, err := repo.GetRecent(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestDeleteOlderThan(t *testing.T) {
	repo := testRepo(t)

	require.NoError(t, repo.Create(&models.RequestLog{
		Route:       "/",
		RequestedAt: time.Now().AddDate(0, 0, -40),
	}))
	require.NoError(t, repo.Create(&models.RequestLog{
		Route:       "/",
		RequestedAt: time.Now(),
	}))

	deleted, err := repo.DeleteOlderThan(30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	entries, err := repo.GetRecent(10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
