// Package server exposes a store node's content database over its RPC
// endpoint.
package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/izihawa/beetle/internal/store"
	"github.com/izihawa/beetle/pkg/metrics"
	"github.com/izihawa/beetle/pkg/rpc"
)

// service implements rpc.StoreServer over a content database.
type service struct {
	store   *store.Store
	metrics *metrics.Metrics
}

func (s *service) Version(context.Context, *rpc.VersionRequest) (*rpc.VersionResponse, error) {
	return &rpc.VersionResponse{Version: store.Version}, nil
}

func (s *service) Put(ctx context.Context, req *rpc.PutRequest) (*rpc.PutResponse, error) {
	id, err := cid.Cast(req.Cid)
	if err != nil {
		return nil, fmt.Errorf("bad cid: %w", err)
	}

	links := make([]cid.Cid, 0, len(req.Links))
	for _, raw := range req.Links {
		l, err := cid.Cast(raw)
		if err != nil {
			return nil, fmt.Errorf("bad link cid: %w", err)
		}
		links = append(links, l)
	}

	if err := s.store.Put(ctx, id, req.Blob, links); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.BytesStored.Add(float64(len(req.Blob)))
	}
	return &rpc.PutResponse{}, nil
}

func (s *service) Get(ctx context.Context, req *rpc.GetRequest) (*rpc.GetResponse, error) {
	id, err := cid.Cast(req.Cid)
	if err != nil {
		return nil, fmt.Errorf("bad cid: %w", err)
	}

	data, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return &rpc.GetResponse{Found: false}, nil
	}
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.BytesServed.Add(float64(len(data)))
	}
	return &rpc.GetResponse{Found: true, Data: data}, nil
}

func (s *service) Has(ctx context.Context, req *rpc.HasRequest) (*rpc.HasResponse, error) {
	id, err := cid.Cast(req.Cid)
	if err != nil {
		return nil, fmt.Errorf("bad cid: %w", err)
	}

	has, err := s.store.Has(ctx, id)
	if err != nil {
		return nil, err
	}
	return &rpc.HasResponse{Has: has}, nil
}

func (s *service) GetLinks(ctx context.Context, req *rpc.GetLinksRequest) (*rpc.GetLinksResponse, error) {
	id, err := cid.Cast(req.Cid)
	if err != nil {
		return nil, fmt.Errorf("bad cid: %w", err)
	}

	links, err := s.store.GetLinks(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return &rpc.GetLinksResponse{Found: false}, nil
	}
	if err != nil {
		return nil, err
	}

	resp := &rpc.GetLinksResponse{Found: true}
	for _, l := range links {
		resp.Links = append(resp.Links, l.Bytes())
	}
	return resp, nil
}

func (s *service) GetSize(ctx context.Context, req *rpc.GetSizeRequest) (*rpc.GetSizeResponse, error) {
	id, err := cid.Cast(req.Cid)
	if err != nil {
		return nil, fmt.Errorf("bad cid: %w", err)
	}

	size, err := s.store.GetSize(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return &rpc.GetSizeResponse{Found: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &rpc.GetSizeResponse{Found: true, Size: size}, nil
}
