// Package history persists submitted search queries in a bbolt database.
package history

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

var searchesBucket = []byte("searches")

// Keys are the big-endian UnixNano of the search, a bucket sequence number
// that orders searches sharing a timestamp, then the query.
const keyPrefixLen = 16

// Entry is one remembered search.
type Entry struct {
	Query      string    `json:"query" yaml:"query"`
	SearchedAt time.Time `json:"searched_at" yaml:"searched_at"`
}

// Store keeps the most recent searches, one entry per distinct query.
type Store struct {
	db    *bbolt.DB
	limit int
	now   func() time.Time
}

// Open opens (creating if needed) the history database at path. limit caps
// the number of entries kept; zero or less keeps everything.
func Open(path string, limit int) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(searchesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history bucket: %w", err)
	}
	return &Store{db: db, limit: limit, now: time.Now}, nil
}

// Add records query as the newest search, replacing any older entry for the
// same query. Blank queries are ignored.
func (s *Store) Add(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	entry := Entry{Query: query, SearchedAt: s.now().UTC()}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(searchesBucket)
		if err := deleteQuery(b, query); err != nil {
			return err
		}

		value, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("encode history entry: %w", err)
		}
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next history sequence: %w", err)
		}
		if err := b.Put(entryKey(entry, seq), value); err != nil {
			return err
		}
		return s.trim(b)
	})
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) Recent(limit int) ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(searchesBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("decode history entry: %w", err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Queries returns the recent query strings, newest first.
func (s *Store) Queries(limit int) ([]string, error) {
	entries, err := s.Recent(limit)
	if err != nil {
		return nil, err
	}
	queries := make([]string, 0, len(entries))
	for _, e := range entries {
		queries = append(queries, e.Query)
	}
	return queries, nil
}

// Clear removes every entry.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(searchesBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(searchesBucket)
		return err
	})
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func entryKey(e Entry, seq uint64) []byte {
	key := make([]byte, keyPrefixLen, keyPrefixLen+len(e.Query))
	binary.BigEndian.PutUint64(key[:8], uint64(e.SearchedAt.UnixNano()))
	binary.BigEndian.PutUint64(key[8:keyPrefixLen], seq)
	return append(key, e.Query...)
}

func deleteQuery(b *bbolt.Bucket, query string) error {
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		if len(k) >= keyPrefixLen && string(k[keyPrefixLen:]) == query {
			return c.Delete()
		}
	}
	return nil
}

func (s *Store) trim(b *bbolt.Bucket) error {
	if s.limit <= 0 {
		return nil
	}
	c := b.Cursor()
	count := 0
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		count++
	}
	excess := count - s.limit
	for k, _ := c.First(); k != nil && excess > 0; k, _ = c.First() {
		if err := c.Delete(); err != nil {
			return err
		}
		excess--
	}
	return nil
}
