// Package state holds the search controller: the single source of truth for
// the query, the result list, the search status and the detail overlay.
//
// # Overview
//
// The UI never mutates search state directly. It calls Store methods and
// renders from Snapshot copies:
//
//	Submit(query)   -> Request   user pressed enter in the search input
//	Settle(req,...) -> Outcome   the fetch for req finished
//	Select(movie)                user opened a result
//	CloseOverlay()               user dismissed the overlay
//	Shutdown()                   program is exiting
//
// # Status Transitions
//
//	idle ──Submit──> loading ──Settle(ok)──> idle (results or notice)
//	                    │
//	                    └──Settle(err)──> error ──Submit/Retry──> loading
//
// An empty query, or the query already current, is ignored by Submit: no
// fetch is issued and nothing changes. A successful search with zero results
// ends idle, not error, and Settle returns NoResultsNotice exactly once.
//
// # Request Tagging
//
// Fetches are never cancelled. Each Submit or Retry bumps a sequence number
// and returns a Request carrying it plus the query. Settle drops any result
// whose Request is no longer the current one, so when two searches overlap
// the latest one always wins regardless of arrival order.
//
// # Overlay and Scroll Lock
//
// Selected and OverlayOpen are always set and cleared together. Opening the
// overlay acquires the ScrollLock; every exit path (close, reselect,
// Shutdown) releases it through the same idempotent release func. While the
// lock is held the result grid ignores scroll input.
//
// ScrollLock callbacks run while the Store's mutex is held and must not call
// back into the Store.
//
// # Thread Safety
//
// Store is safe for concurrent use. Snapshot returns deep copies of the
// result list and selection so callers may keep or modify them freely.
package state
