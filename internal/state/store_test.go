package state

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/marquee/internal/movie"
)

func newTestStore() *Store {
	return NewStore(nil, zerolog.Nop())
}

func threeMovies() []movie.Movie {
	return []movie.Movie{
		{ID: 268, Title: "Batman", ReleaseDate: "1989-06-23"},
		{ID: 364, Title: "Batman Returns", ReleaseDate: "1992-06-19"},
		{ID: 414, Title: "Batman Forever", ReleaseDate: "1995-06-16"},
	}
}

func TestStore_EmptySubmitIsNoop(t *testing.T) {
	s := newTestStore()

	req, ok := s.Submit("batman")
	require.True(t, ok)
	s.Settle(req, threeMovies(), nil)
	before := s.Snapshot()

	_, ok = s.Submit("")
	assert.False(t, ok)

	after := s.Snapshot()
	assert.Equal(t, before.Query, after.Query)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.Movies, after.Movies)
}

func TestStore_SubmitClearsAndLoads(t *testing.T) {
	s := newTestStore()

	req, ok := s.Submit("batman")
	require.True(t, ok)
	s.Settle(req, threeMovies(), nil)

	req, ok = s.Submit("alien")
	require.True(t, ok)
	assert.Equal(t, "alien", req.Query)

	snap := s.Snapshot()
	assert.Equal(t, StatusLoading, snap.Status)
	assert.Empty(t, snap.Movies)
	assert.Nil(t, snap.LastError)
	assert.Equal(t, "alien", snap.Query)
}

func TestStore_SameQueryDoesNotRefetch(t *testing.T) {
	s := newTestStore()

	_, ok := s.Submit("batman")
	require.True(t, ok)
	_, ok = s.Submit("batman")
	assert.False(t, ok)
}

func TestStore_SettleSuccess(t *testing.T) {
	s := newTestStore()
	movies := threeMovies()

	req, _ := s.Submit("batman")
	outcome := s.Settle(req, movies, nil)

	assert.Equal(t, Outcome{Applied: true}, outcome)
	snap := s.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, movies, snap.Movies)

	// Snapshot must not alias the stored list.
	snap.Movies[0].Title = "changed"
	assert.Equal(t, "Batman", s.Snapshot().Movies[0].Title)
}

func TestStore_SettleEmptyNotifiesOnce(t *testing.T) {
	s := newTestStore()

	req, _ := s.Submit("zzzzznotfound")
	outcome := s.Settle(req, nil, nil)

	assert.True(t, outcome.Applied)
	assert.Equal(t, NoResultsNotice, outcome.Notice)
	assert.Equal(t, "No movies found for your request.", outcome.Notice)

	snap := s.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Empty(t, snap.Movies)
	assert.Nil(t, snap.LastError)

	// A duplicate delivery of the same result produces no second notice.
	again := s.Settle(req, nil, nil)
	assert.Equal(t, Outcome{}, again)
	_, ok := s.Submit("zzzzznotfound")
	assert.False(t, ok, "resubmitting the same query does not refetch")
}

func TestStore_SettleError(t *testing.T) {
	s := newTestStore()

	req, _ := s.Submit("batman")
	outcome := s.Settle(req, threeMovies(), errors.New("network down"))

	assert.Equal(t, Outcome{Applied: true}, outcome)
	snap := s.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	assert.Empty(t, snap.Movies)
	require.Error(t, snap.LastError)
	assert.Equal(t, "network down", snap.LastError.Error())
	assert.Equal(t, 1, snap.ConsecutiveFailures)
}

func TestStore_StaleResultIsDiscarded(t *testing.T) {
	s := newTestStore()

	first, _ := s.Submit("batman")
	second, _ := s.Submit("alien")

	// The newer query settles first, then the older one arrives late.
	alien := []movie.Movie{{ID: 348, Title: "Alien"}}
	assert.True(t, s.Settle(second, alien, nil).Applied)
	late := s.Settle(first, threeMovies(), nil)

	assert.False(t, late.Applied)
	assert.Empty(t, late.Notice)
	snap := s.Snapshot()
	assert.Equal(t, "alien", snap.Query)
	assert.Equal(t, alien, snap.Movies)
}

func TestStore_StaleEmptyResultDoesNotNotify(t *testing.T) {
	s := newTestStore()

	first, _ := s.Submit("zzzzznotfound")
	_, _ = s.Submit("batman")

	outcome := s.Settle(first, nil, nil)
	assert.Equal(t, Outcome{}, outcome)
	assert.Equal(t, StatusLoading, s.Snapshot().Status)
}

func TestStore_RetryRefetchesCurrentQuery(t *testing.T) {
	s := newTestStore()

	_, ok := s.Retry()
	assert.False(t, ok, "nothing to retry before the first search")

	req, _ := s.Submit("batman")
	s.Settle(req, nil, errors.New("offline"))

	retry, ok := s.Retry()
	require.True(t, ok)
	assert.Equal(t, "batman", retry.Query)
	assert.Greater(t, retry.Seq, req.Seq)
	assert.Equal(t, StatusLoading, s.Snapshot().Status)

	// The failed request can no longer land.
	assert.False(t, s.Settle(req, nil, errors.New("offline")).Applied)
	assert.True(t, s.Settle(retry, threeMovies(), nil).Applied)
	assert.Equal(t, 0, s.Snapshot().ConsecutiveFailures)
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	s := newTestStore()

	for i, query := range []string{"a", "b"} {
		req, _ := s.Submit(query)
		s.Settle(req, nil, errors.New("fail"))
		assert.Equal(t, i+1, s.Snapshot().ConsecutiveFailures)
	}
	assert.True(t, s.Snapshot().IsOffline())

	req, _ := s.Submit("c")
	s.Settle(req, threeMovies(), nil)
	assert.False(t, s.Snapshot().IsOffline())
}

func TestStore_SelectAndCloseOverlay(t *testing.T) {
	s := newTestStore()
	movies := threeMovies()

	s.Select(movies[1])
	snap := s.Snapshot()
	require.NotNil(t, snap.Selected)
	assert.Equal(t, movies[1], *snap.Selected)
	assert.True(t, snap.OverlayOpen)
	assert.True(t, snap.ScrollLocked)

	s.CloseOverlay()
	snap = s.Snapshot()
	assert.Nil(t, snap.Selected)
	assert.False(t, snap.OverlayOpen)
	assert.False(t, snap.ScrollLocked)

	// Closing twice is harmless.
	s.CloseOverlay()
	assert.False(t, s.ScrollLock().Locked())
}

func TestStore_ReselectKeepsSingleLockHolder(t *testing.T) {
	s := newTestStore()
	movies := threeMovies()

	s.Select(movies[0])
	s.Select(movies[2])
	assert.Equal(t, movies[2].ID, s.Snapshot().Selected.ID)

	s.CloseOverlay()
	assert.False(t, s.ScrollLock().Locked(), "reselect must release the previous hold")
}

func TestStore_ShutdownReleasesScroll(t *testing.T) {
	var changes []bool
	lock := NewScrollLock(func(locked bool) { changes = append(changes, locked) })
	s := NewStore(lock, zerolog.Nop())

	s.Select(movie.Movie{ID: 1})
	s.Shutdown()

	assert.False(t, lock.Locked())
	assert.Equal(t, []bool{true, false}, changes)
	assert.False(t, s.Snapshot().OverlayOpen)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "status(9)", Status(9).String())
}
