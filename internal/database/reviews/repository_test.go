package reviews

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/filmlog/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_reviews_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Review{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_SaveReview_Key(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	review := &entities.Review{UserID: "alice", MovieID: "603", Rating: 8, Source: entities.ReviewSourceManual}
	require.NoError(t, repo.SaveReview(review))
	assert.Equal(t, "alice_603", review.ID)

	got, err := repo.GetReview("alice", "603")
	require.NoError(t, err)
	assert.Equal(t, 8.0, got.Rating)
	assert.Equal(t, entities.ReviewSourceManual, got.Source)
}

func TestRepository_SaveReview_FullOverwrite(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	watched := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveReview(&entities.Review{
		UserID:             "alice",
		MovieID:            "603",
		Rating:             6,
		Text:               "first",
		WatchedDate:        &watched,
		Rewatch:            true,
		Source:             entities.ReviewSourceLetterboxd,
		LetterboxdReviewID: "lb-1",
	}))
	require.NoError(t, repo.SaveReview(&entities.Review{
		UserID:  "alice",
		MovieID: "603",
		Rating:  9,
		Text:    "second",
		Source:  entities.ReviewSourceManual,
	}))

	got, err := repo.GetReview("alice", "603")
	require.NoError(t, err)
	assert.Equal(t, 9.0, got.Rating)
	assert.Equal(t, "second", got.Text)
	assert.Nil(t, got.WatchedDate)
	assert.False(t, got.Rewatch)
	assert.Empty(t, got.LetterboxdReviewID)
	assert.Equal(t, entities.ReviewSourceManual, got.Source)

	list, err := repo.ListByUser("alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRepository_ExistenceChecks(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SaveReview(&entities.Review{
		UserID:             "alice",
		MovieID:            "603",
		Source:             entities.ReviewSourceLetterboxd,
		LetterboxdReviewID: "lb-1",
	}))

	t.Run("by user and movie", func(t *testing.T) {
		ok, err := repo.ExistsByUserMovie("alice", "603")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsByUserMovie("bob", "603")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("by source id is scoped to the user", func(t *testing.T) {
		ok, err := repo.ExistsBySourceID("alice", "lb-1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsBySourceID("bob", "lb-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty source id never matches", func(t *testing.T) {
		require.NoError(t, repo.SaveReview(&entities.Review{UserID: "alice", MovieID: "604", Source: entities.ReviewSourceManual}))
		ok, err := repo.ExistsBySourceID("alice", "")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRepository_DeleteReview(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SaveReview(&entities.Review{UserID: "alice", MovieID: "603"}))
	require.NoError(t, repo.DeleteReview("alice", "603"))

	_, err := repo.GetReview("alice", "603")
	assert.ErrorIs(t, err, ErrReviewNotFound)

	err = repo.DeleteReview("alice", "603")
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestRepository_Listing(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveReview(&entities.Review{UserID: "alice", MovieID: "1", Source: entities.ReviewSourceManual, CreatedAt: base}))
	require.NoError(t, repo.SaveReview(&entities.Review{UserID: "alice", MovieID: "2", Source: entities.ReviewSourceLetterboxd, CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.SaveReview(&entities.Review{UserID: "bob", MovieID: "1", Source: entities.ReviewSourceLetterboxd, CreatedAt: base.Add(2 * time.Hour)}))

	mine, err := repo.ListByUser("alice")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "2", mine[0].MovieID)

	forMovie, err := repo.ListByMovie("1")
	require.NoError(t, err)
	require.Len(t, forMovie, 2)
	assert.Equal(t, "bob", forMovie[0].UserID)

	imported, err := repo.CountBySource("alice", entities.ReviewSourceLetterboxd)
	require.NoError(t, err)
	assert.Equal(t, int64(1), imported)
}
