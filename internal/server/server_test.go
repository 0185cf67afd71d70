package server

import (
	"bytes"
	"context"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/izihawa/beetle/internal/store"
	"github.com/izihawa/beetle/pkg/metrics"
	"github.com/izihawa/beetle/pkg/rpc"
	"github.com/izihawa/beetle/pkg/rpcclient"
)

// startTestServer serves a fresh store over an in-process channel and
// returns a connected client alongside the server's meters.
func startTestServer(t *testing.T) (*rpcclient.StoreClient, *metrics.Metrics) {
	t.Helper()
	ctx := context.Background()

	addr := rpc.NewMemAddr()
	cfg := store.NewConfigWithRPC(t.TempDir(), addr)

	st, err := store.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	m := metrics.New(cfg.Metrics)
	srv := New(st, m)
	lis, err := rpc.Listen(ctx, addr)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.GracefulStop)

	client, err := rpcclient.DialStore(cfg.RPCClient)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, m
}

func TestVersion(t *testing.T) {
	client, _ := startTestServer(t)

	version, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != store.Version {
		t.Errorf("version should be %s, got: %s", store.Version, version)
	}
}

func TestPutGetOverRPC(t *testing.T) {
	ctx := context.Background()
	client, _ := startTestServer(t)

	blob := []byte("served blob")
	id := store.RawCid(blob)

	if err := client.Put(ctx, id, blob, nil); err != nil {
		t.Fatalf("put: %v", err)
	}

	data, found, err := client.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("blob should be found after put")
	}
	if !bytes.Equal(data, blob) {
		t.Errorf("get returned %q, want %q", data, blob)
	}

	has, err := client.Has(ctx, id)
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if !has {
		t.Error("has should be true after put")
	}

	size, found, err := client.GetSize(ctx, id)
	if err != nil {
		t.Fatalf("get size: %v", err)
	}
	if !found || size != uint64(len(blob)) {
		t.Errorf("size should be %d, got %d (found=%v)", len(blob), size, found)
	}
}

func TestGetMissingOverRPC(t *testing.T) {
	ctx := context.Background()
	client, _ := startTestServer(t)

	id := store.RawCid([]byte("never stored"))

	_, found, err := client.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Error("unknown cid should not be found")
	}

	_, found, err = client.GetLinks(ctx, id)
	if err != nil {
		t.Fatalf("get links: %v", err)
	}
	if found {
		t.Error("unknown cid should not have links")
	}
}

func TestByteCounters(t *testing.T) {
	ctx := context.Background()
	client, m := startTestServer(t)

	blob := []byte("counted bytes")
	id := store.RawCid(blob)

	if err := client.Put(ctx, id, blob, nil); err != nil {
		t.Fatalf("put: %v", err)
	}
	if got := testutil.ToFloat64(m.BytesStored); got != float64(len(blob)) {
		t.Errorf("bytes stored should be %d after put, got: %v", len(blob), got)
	}
	if got := testutil.ToFloat64(m.BytesServed); got != 0 {
		t.Errorf("bytes served should still be 0 before any get, got: %v", got)
	}

	if _, _, err := client.Get(ctx, id); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := testutil.ToFloat64(m.BytesServed); got != float64(len(blob)) {
		t.Errorf("bytes served should be %d after get, got: %v", len(blob), got)
	}

	// A miss serves no bytes.
	if _, _, err := client.Get(ctx, store.RawCid([]byte("absent"))); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := testutil.ToFloat64(m.BytesServed); got != float64(len(blob)) {
		t.Errorf("a miss should not move bytes served, got: %v", got)
	}
}

func TestLinksOverRPC(t *testing.T) {
	ctx := context.Background()
	client, _ := startTestServer(t)

	child := []byte("child")
	parent := []byte("parent")
	links := []cid.Cid{store.RawCid(child)}
	parentID := store.RawCid(parent)

	if err := client.Put(ctx, parentID, parent, links); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, found, err := client.GetLinks(ctx, parentID)
	if err != nil {
		t.Fatalf("get links: %v", err)
	}
	if !found {
		t.Fatal("stored blob should be found")
	}
	if len(got) != 1 || !got[0].Equals(links[0]) {
		t.Errorf("links mismatch: want %v, got %v", links, got)
	}
}
