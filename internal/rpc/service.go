// Package rpc exposes the decision policy as a gRPC service. Messages are
// google.protobuf.Struct values, so no generated stubs are needed; the
// service descriptor is declared by hand below.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region names
const (
	ServiceName    = "pdmix.v1.DecisionService"
	DecideMethod   = "/" + ServiceName + "/Decide"
	decideMethodID = "Decide"
)

// #endregion names

// DecisionServiceServer is the server side of the decision service.
type DecisionServiceServer interface {
	Decide(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// #region service-desc
// ServiceDesc describes the decision service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DecisionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: decideMethodID, Handler: decideHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pdmix/v1/decision.proto",
}

// RegisterDecisionServiceServer attaches srv to s.
func RegisterDecisionServiceServer(s grpc.ServiceRegistrar, srv DecisionServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func decideHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DecisionServiceServer).Decide(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DecideMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DecisionServiceServer).Decide(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// #endregion service-desc
