package remote

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/stockroom/internal/port"
)

// Server exposes a RecordStore over gRPC.
type Server struct {
	store port.RecordStore
}

func NewServer(store port.RecordStore) *Server {
	return &Server{store: store}
}

// Register attaches the record store service to s.
func (srv *Server) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(&serviceDesc, srv)
}

func (srv *Server) listItems(ctx context.Context, _ *empty) (*itemList, error) {
	items, err := srv.store.ListItems(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &itemList{Items: items}, nil
}

func (srv *Server) insertItem(ctx context.Context, in *itemMessage) (*itemMessage, error) {
	item, err := srv.store.InsertItem(ctx, in.Item)
	if err != nil {
		return nil, toStatus(err)
	}
	return &itemMessage{Item: item}, nil
}

func (srv *Server) updateItem(ctx context.Context, in *itemMessage) (*empty, error) {
	if err := srv.store.UpdateItem(ctx, in.Item); err != nil {
		return nil, toStatus(err)
	}
	return &empty{}, nil
}

func (srv *Server) deleteItem(ctx context.Context, in *deleteRequest) (*empty, error) {
	if err := srv.store.DeleteItem(ctx, in.ID); err != nil {
		return nil, toStatus(err)
	}
	return &empty{}, nil
}

func (srv *Server) listIssuances(ctx context.Context, _ *empty) (*issuanceList, error) {
	issuances, err := srv.store.ListIssuances(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &issuanceList{Issuances: issuances}, nil
}

func (srv *Server) insertIssuance(ctx context.Context, in *issuanceMessage) (*issuanceMessage, error) {
	rec, err := srv.store.InsertIssuance(ctx, in.Issuance)
	if err != nil {
		return nil, toStatus(err)
	}
	return &issuanceMessage{Issuance: rec}, nil
}

func (srv *Server) updateIssuance(ctx context.Context, in *issuanceMessage) (*empty, error) {
	if err := srv.store.UpdateIssuance(ctx, in.Issuance); err != nil {
		return nil, toStatus(err)
	}
	return &empty{}, nil
}

func (srv *Server) deleteIssuance(ctx context.Context, in *deleteRequest) (*empty, error) {
	if err := srv.store.DeleteIssuance(ctx, in.ID); err != nil {
		return nil, toStatus(err)
	}
	return &empty{}, nil
}

func toStatus(err error) error {
	msg := err.Error()
	var se *port.StoreError
	if errors.As(err, &se) && se.Message != "" {
		msg = se.Message
	}

	switch {
	case errors.Is(err, port.ErrNotFound):
		return status.Error(codes.NotFound, msg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, msg)
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, msg)
	}
	var te *port.TransportError
	if errors.As(err, &te) {
		return status.Error(codes.Unavailable, msg)
	}
	return status.Error(codes.FailedPrecondition, msg)
}

// recordStoreService is the handler type checked by grpc.RegisterService.
type recordStoreService interface {
	listItems(context.Context, *empty) (*itemList, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*recordStoreService)(nil),
	Methods: []grpc.MethodDesc{
		unary(methodListItems, (*Server).listItems),
		unary(methodInsertItem, (*Server).insertItem),
		unary(methodUpdateItem, (*Server).updateItem),
		unary(methodDeleteItem, (*Server).deleteItem),
		unary(methodListIssuances, (*Server).listIssuances),
		unary(methodInsertIssuance, (*Server).insertIssuance),
		unary(methodUpdateIssuance, (*Server).updateIssuance),
		unary(methodDeleteIssuance, (*Server).deleteIssuance),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stockroom/recordstore",
}

// unary builds the method descriptor that decodes Req, runs the interceptor
// chain and dispatches to fn.
func unary[Req, Resp any](name string, fn func(*Server, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(*Server), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return fn(srv.(*Server), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
