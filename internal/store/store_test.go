package store

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ipfs/go-cid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), NewConfigGRPC(t.TempDir()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	blob := []byte("hello beetle")
	id := RawCid(blob)

	if err := s.Put(ctx, id, blob, nil); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Errorf("get returned %q, want %q", got, blob)
	}

	size, err := s.GetSize(ctx, id)
	if err != nil {
		t.Fatalf("get size: %v", err)
	}
	if size != uint64(len(blob)) {
		t.Errorf("size should be %d, got %d", len(blob), size)
	}
}

func TestGetNotFound(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id := RawCid([]byte("never stored"))
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("get of unknown cid should be ErrNotFound, got: %v", err)
	}
	if _, err := s.GetSize(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("get size of unknown cid should be ErrNotFound, got: %v", err)
	}
	if _, err := s.GetLinks(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("get links of unknown cid should be ErrNotFound, got: %v", err)
	}
}

func TestHas(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	blob := []byte("present")
	id := RawCid(blob)

	has, err := s.Has(ctx, id)
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if has {
		t.Error("has should be false before put")
	}

	if err := s.Put(ctx, id, blob, nil); err != nil {
		t.Fatalf("put: %v", err)
	}

	has, err = s.Has(ctx, id)
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if !has {
		t.Error("has should be true after put")
	}
}

func TestLinks(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	childA := []byte("child a")
	childB := []byte("child b")
	parent := []byte("parent")

	links := []cid.Cid{RawCid(childA), RawCid(childB)}
	parentID := RawCid(parent)

	if err := s.Put(ctx, parentID, parent, links); err != nil {
		t.Fatalf("put parent: %v", err)
	}

	got, err := s.GetLinks(ctx, parentID)
	if err != nil {
		t.Fatalf("get links: %v", err)
	}
	if len(got) != len(links) {
		t.Fatalf("expected %d links, got %d", len(links), len(got))
	}
	for i := range links {
		if !links[i].Equals(got[i]) {
			t.Errorf("link %d mismatch: want %s, got %s", i, links[i], got[i])
		}
	}
}

func TestLinksEmptyForLeaf(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	blob := []byte("leaf")
	id := RawCid(blob)
	if err := s.Put(ctx, id, blob, nil); err != nil {
		t.Fatalf("put: %v", err)
	}

	links, err := s.GetLinks(ctx, id)
	if err != nil {
		t.Fatalf("get links: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("leaf blob should have no links, got: %v", links)
	}
}

func TestCreateExisting(t *testing.T) {
	ctx := context.Background()
	cfg := NewConfigGRPC(t.TempDir())

	s, err := Create(ctx, cfg)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := Create(ctx, cfg); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("create over an existing database should be ErrAlreadyExists, got: %v", err)
	}

	reopened, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("open should succeed over an existing database, got: %v", err)
	}
	_ = reopened.Close()
}

func TestClosed(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	id := RawCid([]byte("x"))
	if err := s.Put(ctx, id, []byte("x"), nil); !errors.Is(err, ErrClosed) {
		t.Errorf("put after close should be ErrClosed, got: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrClosed) {
		t.Errorf("get after close should be ErrClosed, got: %v", err)
	}
}

func TestRawCid(t *testing.T) {
	a := RawCid([]byte("same"))
	b := RawCid([]byte("same"))
	c := RawCid([]byte("different"))

	if !a.Equals(b) {
		t.Error("RawCid should be deterministic")
	}
	if a.Equals(c) {
		t.Error("RawCid should differ for different content")
	}
	if a.Version() != 1 {
		t.Errorf("RawCid should produce a v1 cid, got version %d", a.Version())
	}
}
