package policy

import (
	"boxes/canonical"
	"boxes/game"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	entryPrefix = []byte("q/")
	sizeKey     = []byte("meta/grid_size")
)

// BadgerStore keeps one key per Q-table entry in a badger directory:
// "q/" + canonical state + four move bytes -> IEEE-754 bits of the value.
type BadgerStore struct {
	Path string
}

// badgerLogger routes badger's own logging into zerolog.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Msgf(format, args...)
}

func (s BadgerStore) open() (*badger.DB, error) {
	opts := badger.DefaultOptions(s.Path).
		WithLogger(badgerLogger{logger: log.With().Str("store", "badger").Logger()})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return db, nil
}

// Save replaces whatever the store held with t.
func (s BadgerStore) Save(t *Table) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DropAll(); err != nil {
		return fmt.Errorf("failed to clear badger store: %w", err)
	}

	wb := db.NewWriteBatch()
	defer wb.Cancel()
	size := make([]byte, 8)
	binary.BigEndian.PutUint64(size, uint64(t.Size()))
	if err := wb.Set(sizeKey, size); err != nil {
		return fmt.Errorf("failed to write grid size: %w", err)
	}
	for _, e := range t.Entries() {
		value := make([]byte, 8)
		binary.BigEndian.PutUint64(value, math.Float64bits(e.Value))
		if err := wb.Set(encodeKey(e.Key), value); err != nil {
			return fmt.Errorf("failed to write policy entry: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("failed to flush policy entries: %w", err)
	}
	return nil
}

func (s BadgerStore) Load() (*Table, error) {
	if _, err := os.Stat(s.Path); err != nil {
		if e := missing(s.Path, err); e != nil {
			return nil, e
		}
		return nil, fmt.Errorf("failed to stat badger store: %w", err)
	}
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var t *Table
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sizeKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return &noPolicyError{path: s.Path, err: err}
		}
		if err != nil {
			return err
		}
		var size int
		err = item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("%w: grid size has %d bytes", ErrBadPolicy, len(val))
			}
			n := binary.BigEndian.Uint64(val)
			if n < 1 || n > canonical.MaxSize {
				return fmt.Errorf("%w: grid size %d", ErrBadPolicy, n)
			}
			size = int(n)
			return nil
		})
		if err != nil {
			return err
		}
		t = NewTable(size)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = entryPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			k, err := decodeKey(item.KeyCopy(nil))
			if err != nil {
				return err
			}
			if _, err := canonical.DecodeKey(size, k.State); err != nil {
				return fmt.Errorf("%w: %v", ErrBadPolicy, err)
			}
			err = item.Value(func(val []byte) error {
				if len(val) != 8 {
					return fmt.Errorf("%w: value has %d bytes", ErrBadPolicy, len(val))
				}
				t.Set(k, math.Float64frombits(binary.BigEndian.Uint64(val)))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}
	return t, nil
}

func encodeKey(k Key) []byte {
	b := make([]byte, 0, len(entryPrefix)+len(k.State)+4)
	b = append(b, entryPrefix...)
	b = append(b, k.State...)
	return append(b, byte(k.Move.X1), byte(k.Move.Y1), byte(k.Move.X2), byte(k.Move.Y2))
}

func decodeKey(b []byte) (Key, error) {
	if len(b) < len(entryPrefix)+4 {
		return Key{}, fmt.Errorf("%w: short key", ErrBadPolicy)
	}
	m := b[len(b)-4:]
	return Key{
		State: canonical.Key(b[len(entryPrefix) : len(b)-4]),
		Move:  game.NewEdge(int(m[0]), int(m[1]), int(m[2]), int(m[3])),
	}, nil
}
