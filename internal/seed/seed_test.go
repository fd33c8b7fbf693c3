package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/movies/internal/seed"
	"github.com/joestump/movies/internal/store"
	"github.com/joestump/movies/internal/testutil"
)

func TestRun(t *testing.T) {
	db := testutil.NewTestDB(t)
	movies := store.NewMovieStore(db)
	users := store.NewUserStore(db)
	ctx := context.Background()

	_, err := movies.Create(ctx, store.MovieInput{Name: "Old", Description: "Gone soon.", Year: 2000, Rating: 1}, "")
	require.NoError(t, err)

	n, err := seed.Run(ctx, movies, users, "")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	all, err := movies.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 12)
	for _, m := range all {
		assert.Empty(t, m.CreatedBy)
		assert.NotEqual(t, "Old", m.Name)
	}
}

func TestRun_WithOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	movies := store.NewMovieStore(db)
	users := store.NewUserStore(db)
	ctx := context.Background()

	alice, err := users.Create(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)

	_, err = seed.Run(ctx, movies, users, "alice@example.com")
	require.NoError(t, err)

	all, err := movies.List(ctx)
	require.NoError(t, err)
	for _, m := range all {
		assert.Equal(t, alice.ID, m.CreatedBy)
	}

	_, err = seed.Run(ctx, movies, users, "nobody")
	assert.ErrorContains(t, err, "not found")
}

func TestMovies_AreValid(t *testing.T) {
	for _, m := range seed.Movies {
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.Description)
		assert.GreaterOrEqual(t, m.Year, 1900)
		assert.LessOrEqual(t, m.Year, 2030)
		assert.GreaterOrEqual(t, m.Rating, 0.0)
		assert.LessOrEqual(t, m.Rating, 10.0)
	}
}
