package store

import (
	"encoding/binary"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/arugio/arugio/errors"
	"github.com/arugio/arugio/game"
)

var bucketBalls = []byte("balls")

// Store persists world snapshots in a bbolt database.
type Store struct {
	db  *bolt.DB
	log *zap.Logger
}

// ballRecord is the persisted shape of one ball. Ownership is deliberately
// absent: every restored ball starts unowned.
type ballRecord struct {
	Pos    game.Vec2 `msgpack:"pos"`
	Vel    game.Vec2 `msgpack:"vel"`
	Target game.Vec2 `msgpack:"target"`
}

// Open creates or opens the database at path.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Persist("open database", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBalls)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Persist("init buckets", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored snapshot with the given balls in one
// transaction.
func (s *Store) Save(balls []*game.Ball) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketBalls); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucketBalls)
		if err != nil {
			return err
		}

		for _, ball := range balls {
			value, err := msgpack.Marshal(ballRecord{
				Pos:    ball.Pos,
				Vel:    ball.Vel,
				Target: ball.Target,
			})
			if err != nil {
				return err
			}
			if err := b.Put(ballKey(ball.ID), value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Persist("save snapshot", err)
	}

	s.log.Debug("snapshot saved", zap.Int("balls", len(balls)))
	return nil
}

// Load reads the stored snapshot. A fresh database yields no balls.
func (s *Store) Load() ([]game.Ball, error) {
	var out []game.Ball

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBalls)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			if len(k) != 4 {
				return errors.New(errors.PhasePersist, errors.KindCorrupt).
					Detail("ball key has %d bytes, want 4", len(k)).
					Build()
			}
			id := game.BallID(binary.BigEndian.Uint32(k))

			var rec ballRecord
			if err := msgpack.Unmarshal(v, &rec); err != nil {
				return errors.New(errors.PhasePersist, errors.KindCorrupt).
					Ball(uint32(id)).
					Detail("decode ball record").
					Cause(err).
					Build()
			}

			out = append(out, game.Ball{
				ID:     id,
				Pos:    rec.Pos,
				Vel:    rec.Vel,
				Target: rec.Target,
				Owner:  game.NoOwner,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func ballKey(id game.BallID) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, uint32(id))
	return key
}
