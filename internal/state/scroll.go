package state

import "sync"

// ScrollLock suppresses background (grid) scrolling while held. It is
// reference counted so nested holders cannot unlock each other early.
type ScrollLock struct {
	mu       sync.Mutex
	holders  int
	onChange func(locked bool)
}

// NewScrollLock returns a lock that calls onChange whenever it flips between
// locked and unlocked. onChange may be nil.
func NewScrollLock(onChange func(locked bool)) *ScrollLock {
	return &ScrollLock{onChange: onChange}
}

// Acquire takes the lock and returns its release func. Calling release more
// than once is a no-op.
func (l *ScrollLock) Acquire() (release func()) {
	l.mu.Lock()
	l.holders++
	flipped := l.holders == 1
	l.mu.Unlock()
	if flipped {
		l.notify(true)
	}

	var once sync.Once
	return func() {
		once.Do(l.release)
	}
}

// Locked reports whether any holder is active.
func (l *ScrollLock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.holders > 0
}

func (l *ScrollLock) release() {
	l.mu.Lock()
	if l.holders == 0 {
		l.mu.Unlock()
		return
	}
	l.holders--
	flipped := l.holders == 0
	l.mu.Unlock()
	if flipped {
		l.notify(false)
	}
}

func (l *ScrollLock) notify(locked bool) {
	if l.onChange != nil {
		l.onChange(locked)
	}
}
