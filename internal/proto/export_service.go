// Package proto describes the couplespace.export.ExportService gRPC API.
//
// Messages are protobuf well-known types, so no generated code is needed:
// requests are google.protobuf.Struct, artifacts come back as
// google.protobuf.BytesValue with the file name and mime type in the
// response header metadata.
//
// Request fields:
//
//	ExportAll        {"format": "json"|"markdown"}
//	ExportMonth      {"year": 2024, "month": 3}
//	ExportYearReport {"year": 2024}
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "couplespace.export.ExportService"

const (
	ExportService_ExportAll_FullMethodName        = "/" + ServiceName + "/ExportAll"
	ExportService_ExportMonth_FullMethodName      = "/" + ServiceName + "/ExportMonth"
	ExportService_ExportYearReport_FullMethodName = "/" + ServiceName + "/ExportYearReport"
	ExportService_Ping_FullMethodName             = "/" + ServiceName + "/Ping"
)

// ExportServiceServer is the server API for ExportService.
type ExportServiceServer interface {
	ExportAll(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
	ExportMonth(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
	ExportYearReport(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
	Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
}

// UnimplementedExportServiceServer can be embedded to have forward
// compatible implementations.
type UnimplementedExportServiceServer struct{}

func (UnimplementedExportServiceServer) ExportAll(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ExportAll not implemented")
}
func (UnimplementedExportServiceServer) ExportMonth(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ExportMonth not implemented")
}
func (UnimplementedExportServiceServer) ExportYearReport(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ExportYearReport not implemented")
}
func (UnimplementedExportServiceServer) Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func RegisterExportServiceServer(s grpc.ServiceRegistrar, srv ExportServiceServer) {
	s.RegisterService(&ExportService_ServiceDesc, srv)
}

// unary builds the method descriptor of a unary call.
func unary[Req, Resp any](name string, call func(ExportServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(ExportServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

var ExportService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ExportAll", ExportServiceServer.ExportAll),
		unary("ExportMonth", ExportServiceServer.ExportMonth),
		unary("ExportYearReport", ExportServiceServer.ExportYearReport),
		unary("Ping", ExportServiceServer.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "couplespace/export.proto",
}

// ExportServiceClient is the client API for ExportService.
type ExportServiceClient interface {
	ExportAll(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	ExportMonth(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	ExportYearReport(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
}

type exportServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewExportServiceClient(cc grpc.ClientConnInterface) ExportServiceClient {
	return &exportServiceClient{cc}
}

func (c *exportServiceClient) ExportAll(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, ExportService_ExportAll_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *exportServiceClient) ExportMonth(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, ExportService_ExportMonth_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *exportServiceClient) ExportYearReport(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, ExportService_ExportYearReport_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *exportServiceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, ExportService_Ping_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
