package store

import (
	"errors"
	"path/filepath"
	"testing"

	bolt "go.etcd.io/bbolt"

	arugioerr "github.com/arugio/arugio/errors"
	"github.com/arugio/arugio/game"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "world.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := openStore(t)

	balls := []*game.Ball{
		{ID: 1, Pos: game.Vec2{X: 1, Y: 2}, Vel: game.Vec2{X: 0.5}, Target: game.Vec2{Y: -1}, Owner: 4},
		{ID: 7, Pos: game.Vec2{X: -3, Y: 0.25}},
	}
	if err := s.Save(balls); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d balls, want 2", len(got))
	}

	// ForEach iterates keys in order, so ids come back sorted.
	if got[0].ID != 1 || got[1].ID != 7 {
		t.Errorf("loaded ids %d, %d", got[0].ID, got[1].ID)
	}
	if got[0].Pos != balls[0].Pos || got[0].Vel != balls[0].Vel || got[0].Target != balls[0].Target {
		t.Errorf("ball 1 state = %+v", got[0])
	}

	// Ownership never survives a restart.
	for _, b := range got {
		if b.Owner != game.NoOwner {
			t.Errorf("ball %d restored with owner %d", b.ID, b.Owner)
		}
	}
}

func TestStore_SaveReplacesPrevious(t *testing.T) {
	s := openStore(t)

	if err := s.Save([]*game.Ball{{ID: 1}, {ID: 2}, {ID: 3}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save([]*game.Ball{{ID: 9}}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != 9 {
		t.Errorf("loaded %+v, want only ball 9", got)
	}
}

func TestStore_LoadEmpty(t *testing.T) {
	s := openStore(t)

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("fresh store loaded %d balls", len(got))
	}
}

func TestStore_LoadCorruptRecord(t *testing.T) {
	s := openStore(t)

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBalls).Put(ballKey(5), []byte{0xc1})
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Load()
	if !errors.Is(err, &arugioerr.Error{Phase: arugioerr.PhasePersist, Kind: arugioerr.KindCorrupt}) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStore_LoadBadKey(t *testing.T) {
	s := openStore(t)

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBalls).Put([]byte("bad"), []byte{0xc0})
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Load()
	if !errors.Is(err, &arugioerr.Error{Phase: arugioerr.PhasePersist, Kind: arugioerr.KindCorrupt}) {
		t.Errorf("unexpected error: %v", err)
	}
}
