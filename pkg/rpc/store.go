package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// StoreServiceName is the full gRPC service name of the store service.
const StoreServiceName = "beetle.store.Store"

// Store service messages. CIDs travel as their binary form; callers parse
// them back with cid.Cast.

type VersionRequest struct{}

type VersionResponse struct {
	Version string
}

type PutRequest struct {
	Cid   []byte
	Blob  []byte
	Links [][]byte
}

type PutResponse struct{}

type GetRequest struct {
	Cid []byte
}

type GetResponse struct {
	Found bool
	Data  []byte
}

type HasRequest struct {
	Cid []byte
}

type HasResponse struct {
	Has bool
}

type GetLinksRequest struct {
	Cid []byte
}

type GetLinksResponse struct {
	Found bool
	Links [][]byte
}

type GetSizeRequest struct {
	Cid []byte
}

type GetSizeResponse struct {
	Found bool
	Size  uint64
}

// StoreServer is the server-side contract of the store service.
type StoreServer interface {
	Version(context.Context, *VersionRequest) (*VersionResponse, error)
	Put(context.Context, *PutRequest) (*PutResponse, error)
	Get(context.Context, *GetRequest) (*GetResponse, error)
	Has(context.Context, *HasRequest) (*HasResponse, error)
	GetLinks(context.Context, *GetLinksRequest) (*GetLinksResponse, error)
	GetSize(context.Context, *GetSizeRequest) (*GetSizeResponse, error)
}

// RegisterStoreServer registers a StoreServer implementation with a gRPC
// server.
func RegisterStoreServer(s grpc.ServiceRegistrar, srv StoreServer) {
	s.RegisterService(&storeServiceDesc, srv)
}

func storeUnaryHandler[Req any, Resp any](
	method string,
	call func(StoreServer, context.Context, *Req) (*Resp, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	full := "/" + StoreServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(StoreServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(StoreServer), ctx, req.(*Req))
		})
	}
}

var storeServiceDesc = grpc.ServiceDesc{
	ServiceName: StoreServiceName,
	HandlerType: (*StoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Version", Handler: storeUnaryHandler("Version", StoreServer.Version)},
		{MethodName: "Put", Handler: storeUnaryHandler("Put", StoreServer.Put)},
		{MethodName: "Get", Handler: storeUnaryHandler("Get", StoreServer.Get)},
		{MethodName: "Has", Handler: storeUnaryHandler("Has", StoreServer.Has)},
		{MethodName: "GetLinks", Handler: storeUnaryHandler("GetLinks", StoreServer.GetLinks)},
		{MethodName: "GetSize", Handler: storeUnaryHandler("GetSize", StoreServer.GetSize)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "beetle/store",
}

// StoreClient is the client-side stub of the store service.
type StoreClient struct {
	cc grpc.ClientConnInterface
}

// NewStoreClient creates a store service stub over an established
// connection.
func NewStoreClient(cc grpc.ClientConnInterface) *StoreClient {
	return &StoreClient{cc: cc}
}

func invoke[Req any, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, "/"+StoreServiceName+"/"+method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StoreClient) Version(ctx context.Context, in *VersionRequest) (*VersionResponse, error) {
	return invoke[VersionRequest, VersionResponse](ctx, c.cc, "Version", in)
}

func (c *StoreClient) Put(ctx context.Context, in *PutRequest) (*PutResponse, error) {
	return invoke[PutRequest, PutResponse](ctx, c.cc, "Put", in)
}

func (c *StoreClient) Get(ctx context.Context, in *GetRequest) (*GetResponse, error) {
	return invoke[GetRequest, GetResponse](ctx, c.cc, "Get", in)
}

func (c *StoreClient) Has(ctx context.Context, in *HasRequest) (*HasResponse, error) {
	return invoke[HasRequest, HasResponse](ctx, c.cc, "Has", in)
}

func (c *StoreClient) GetLinks(ctx context.Context, in *GetLinksRequest) (*GetLinksResponse, error) {
	return invoke[GetLinksRequest, GetLinksResponse](ctx, c.cc, "GetLinks", in)
}

func (c *StoreClient) GetSize(ctx context.Context, in *GetSizeRequest) (*GetSizeResponse, error) {
	return invoke[GetSizeRequest, GetSizeResponse](ctx, c.cc, "GetSize", in)
}
