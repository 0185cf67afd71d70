package rpcclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc"

	"github.com/izihawa/beetle/pkg/rpc"
)

// ErrNoStoreAddr is returned when dialing a store client from a
// configuration that has no store address.
var ErrNoStoreAddr = errors.New("rpcclient: no store address configured")

// StoreClient is a typed client for a node's store service.
type StoreClient struct {
	conn *grpc.ClientConn
	stub *rpc.StoreClient
}

// DialStore connects to the store service addressed by cfg.StoreAddr.
// Any address variant works, including an in-process mem address shared
// with the serving side.
func DialStore(cfg Config) (*StoreClient, error) {
	if cfg.StoreAddr == nil {
		return nil, ErrNoStoreAddr
	}
	conn, err := rpc.Dial(cfg.StoreAddr)
	if err != nil {
		return nil, err
	}
	return &StoreClient{conn: conn, stub: rpc.NewStoreClient(conn)}, nil
}

// Version reports the serving node's store version.
func (c *StoreClient) Version(ctx context.Context) (string, error) {
	resp, err := c.stub.Version(ctx, &rpc.VersionRequest{})
	if err != nil {
		return "", err
	}
	return resp.Version, nil
}

// Put stores a blob under its CID, together with the CIDs it links to.
func (c *StoreClient) Put(ctx context.Context, id cid.Cid, blob []byte, links []cid.Cid) error {
	req := &rpc.PutRequest{Cid: id.Bytes(), Blob: blob}
	for _, l := range links {
		req.Links = append(req.Links, l.Bytes())
	}
	_, err := c.stub.Put(ctx, req)
	return err
}

// Get retrieves a blob. The second return reports whether the store holds
// the CID.
func (c *StoreClient) Get(ctx context.Context, id cid.Cid) ([]byte, bool, error) {
	resp, err := c.stub.Get(ctx, &rpc.GetRequest{Cid: id.Bytes()})
	if err != nil {
		return nil, false, err
	}
	return resp.Data, resp.Found, nil
}

// Has reports whether the store holds the CID.
func (c *StoreClient) Has(ctx context.Context, id cid.Cid) (bool, error) {
	resp, err := c.stub.Has(ctx, &rpc.HasRequest{Cid: id.Bytes()})
	if err != nil {
		return false, err
	}
	return resp.Has, nil
}

// GetLinks returns the CIDs a stored blob links to.
func (c *StoreClient) GetLinks(ctx context.Context, id cid.Cid) ([]cid.Cid, bool, error) {
	resp, err := c.stub.GetLinks(ctx, &rpc.GetLinksRequest{Cid: id.Bytes()})
	if err != nil {
		return nil, false, err
	}
	if !resp.Found {
		return nil, false, nil
	}
	links := make([]cid.Cid, 0, len(resp.Links))
	for _, raw := range resp.Links {
		l, err := cid.Cast(raw)
		if err != nil {
			return nil, false, fmt.Errorf("bad link cid from store: %w", err)
		}
		links = append(links, l)
	}
	return links, true, nil
}

// GetSize returns the size of a stored blob in bytes.
func (c *StoreClient) GetSize(ctx context.Context, id cid.Cid) (uint64, bool, error) {
	resp, err := c.stub.GetSize(ctx, &rpc.GetSizeRequest{Cid: id.Bytes()})
	if err != nil {
		return 0, false, err
	}
	return resp.Size, resp.Found, nil
}

// Close tears down the underlying connection.
func (c *StoreClient) Close() error {
	return c.conn.Close()
}
