package state

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/five82/marquee/internal/movie"
)

// NoResultsNotice is shown once when a search succeeds with nothing to show.
const NoResultsNotice = "No movies found for your request."

// ErrorNotice is the generic text shown in place of results after a failed
// search. Error detail goes to the log only.
const ErrorNotice = "There was an error, please try again..."

// Status classifies the current search operation.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Request tags one fetch with the query that spawned it.
type Request struct {
	Seq   uint64
	Query string
}

// Outcome reports what Settle did with a fetch result.
type Outcome struct {
	Applied bool
	Notice  string
}

// Snapshot represents the latest state available to the UI.
type Snapshot struct {
	Query               string
	Status              Status
	Movies              []movie.Movie
	Selected            *movie.Movie // non-nil iff OverlayOpen
	OverlayOpen         bool
	ScrollLocked        bool
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when several searches in a row have failed.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store owns the search controller state. All transitions go through its
// methods; readers get copies via Snapshot.
type Store struct {
	mu       sync.RWMutex
	logger   zerolog.Logger
	scroll   *ScrollLock
	seq      uint64
	settled  uint64
	snapshot Snapshot
	release  func()
}

// NewStore creates a Store. A nil lock gets a private ScrollLock.
func NewStore(lock *ScrollLock, logger zerolog.Logger) *Store {
	if lock == nil {
		lock = NewScrollLock(nil)
	}
	return &Store{scroll: lock, logger: logger}
}

// ScrollLock exposes the lock held while the overlay is open.
func (s *Store) ScrollLock() *ScrollLock {
	return s.scroll
}

// Submit records a search submission. It returns false, touching nothing,
// for an empty query or one equal to the current query. Otherwise results
// and error are cleared, status becomes loading and the returned Request must
// be passed back to Settle.
func (s *Store) Submit(query string) (Request, bool) {
	if query == "" {
		return Request{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if query == s.snapshot.Query {
		return Request{}, false
	}
	s.snapshot.Query = query
	return s.beginLocked(), true
}

// Retry re-issues the current query. It returns false when there is none.
func (s *Store) Retry() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.Query == "" {
		return Request{}, false
	}
	return s.beginLocked(), true
}

func (s *Store) beginLocked() Request {
	s.seq++
	s.snapshot.Movies = nil
	s.snapshot.LastError = nil
	s.snapshot.Status = StatusLoading
	return Request{Seq: s.seq, Query: s.snapshot.Query}
}

// Settle applies the result of req's fetch. Results for a request that is no
// longer current, or that already settled, are dropped so the latest query
// always wins and a notice is produced at most once per request.
func (s *Store) Settle(req Request, movies []movie.Movie, err error) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Seq != s.seq || req.Query != s.snapshot.Query || req.Seq == s.settled {
		s.logger.Debug().
			Str("query", req.Query).
			Uint64("seq", req.Seq).
			Uint64("current_seq", s.seq).
			Msg("discarding stale search result")
		return Outcome{}
	}

	s.settled = req.Seq
	if err != nil {
		s.snapshot.Status = StatusError
		s.snapshot.Movies = nil
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		s.logger.Error().Err(err).Str("query", req.Query).Msg("movie search failed")
		return Outcome{Applied: true}
	}

	s.snapshot.Status = StatusIdle
	s.snapshot.Movies = movie.Clone(movies)
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	s.logger.Info().Str("query", req.Query).Int("count", len(movies)).Msg("movie search complete")

	if len(movies) == 0 {
		return Outcome{Applied: true, Notice: NoResultsNotice}
	}
	return Outcome{Applied: true}
}

// Select opens the detail overlay for m and locks background scrolling.
func (s *Store) Select(m movie.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()
	selected := m
	if len(m.Genres) > 0 {
		selected.Genres = append([]string(nil), m.Genres...)
	}
	s.snapshot.Selected = &selected
	s.snapshot.OverlayOpen = true
	s.release = s.scroll.Acquire()
}

// CloseOverlay clears the selection, closes the overlay and restores
// scrolling. It is safe to call when nothing is open.
func (s *Store) CloseOverlay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

// Shutdown releases everything tied to the overlay's lifetime.
func (s *Store) Shutdown() {
	s.CloseOverlay()
}

func (s *Store) closeLocked() {
	s.snapshot.Selected = nil
	s.snapshot.OverlayOpen = false
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Movies = movie.Clone(s.snapshot.Movies)
	if s.snapshot.Selected != nil {
		selected := *s.snapshot.Selected
		snap.Selected = &selected
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	snap.ScrollLocked = s.scroll.Locked()
	return snap
}
