package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
	bolt "go.etcd.io/bbolt"
)

const bucketHistory = "history"

// Store keeps input history in a bbolt file, keyed by the bucket sequence.
type Store struct {
	db *bolt.DB
}

var _ ports.HistoryStore = (*Store)(nil)

type record struct {
	Dialect string    `json:"dialect"`
	Input   string    `json:"input"`
	At      time.Time `json:"at"`
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketHistory))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize history: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Add appends an entry and returns its sequence number.
func (s *Store) Add(ctx context.Context, entry domain.HistoryEntry) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	value, err := json.Marshal(record{Dialect: string(entry.Dialect), Input: entry.Input, At: entry.At})
	if err != nil {
		return 0, fmt.Errorf("encode history entry: %w", err)
	}

	var seq uint64
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketHistory))
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), value)
	})
	if err != nil {
		return 0, fmt.Errorf("add history entry: %w", err)
	}
	return int(seq), nil
}

// List returns up to limit of the newest entries, oldest first. A limit of
// zero or less returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []domain.HistoryEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketHistory)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) == limit {
				break
			}
			var r record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decode history entry %d: %w", unmarshalSeq(k), err)
			}
			entries = append(entries, domain.HistoryEntry{
				Seq:     int(unmarshalSeq(k)),
				Dialect: domain.DialectID(r.Dialect),
				Input:   r.Input,
				At:      r.At,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
