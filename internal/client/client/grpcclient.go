package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/common"
	"github.com/dmitrijs2005/couplespace/internal/export"
	pb "github.com/dmitrijs2005/couplespace/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// callTimeout bounds a single export call; archives are built in memory on
// the server, so this is generous.
const callTimeout = 2 * time.Minute

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.ExportServiceClient
	accessToken string
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to endpointURL. Extra dial options are
// appended after the defaults (insecure transport, token interceptor).
func NewGRPCClient(endpointURL, accessToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}

	dial := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dial...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewExportServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetValue() != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) ExportAll(ctx context.Context, format export.Format) (export.Artifact, error) {
	return s.call(ctx, s.client.ExportAll, map[string]any{"format": string(format)})
}

func (s *GRPCClient) ExportMonth(ctx context.Context, year, month int) (export.Artifact, error) {
	return s.call(ctx, s.client.ExportMonth, map[string]any{"year": year, "month": month})
}

func (s *GRPCClient) ExportYearReport(ctx context.Context, year int) (export.Artifact, error) {
	return s.call(ctx, s.client.ExportYearReport, map[string]any{"year": year})
}

type exportCall func(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)

// call runs one export RPC and rebuilds the artifact from the response body
// and its header metadata.
func (s *GRPCClient) call(ctx context.Context, rpc exportCall, fields map[string]any) (export.Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req, err := structpb.NewStruct(fields)
	if err != nil {
		return export.Artifact{}, fmt.Errorf("build request: %w", err)
	}

	var header metadata.MD
	resp, err := rpc(ctx, req, grpc.Header(&header))
	if err != nil {
		return export.Artifact{}, s.mapError(err)
	}

	return export.Artifact{
		Filename: firstValue(header, common.FilenameHeaderName, true),
		MimeType: firstValue(header, common.MimeTypeHeaderName, false),
		Bytes:    resp.GetValue(),
	}, nil
}

func firstValue(md metadata.MD, key string, escaped bool) string {
	vals := md.Get(key)
	if len(vals) == 0 {
		return ""
	}
	if !escaped {
		return vals[0]
	}
	v, err := url.PathUnescape(vals[0])
	if err != nil {
		return vals[0]
	}
	return v
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return common.ErrEmptyBackupWindow
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
