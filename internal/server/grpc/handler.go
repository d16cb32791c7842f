package grpc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"

	"github.com/dmitrijs2005/couplespace/internal/common"
	"github.com/dmitrijs2005/couplespace/internal/export"
	"github.com/dmitrijs2005/couplespace/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) ExportAll(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	owner, err := ownerOf(ctx)
	if err != nil {
		return nil, err
	}

	format, err := export.ParseFormat(stringField(req, "format", string(export.FormatJSON)))
	if err != nil {
		return nil, s.mapError(ctx, err)
	}

	a, err := s.exporter.BuildFlat(ctx, owner, format)
	if err != nil {
		return nil, s.mapError(ctx, err)
	}
	return s.respond(ctx, a)
}

func (s *GRPCServer) ExportMonth(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	owner, err := ownerOf(ctx)
	if err != nil {
		return nil, err
	}

	year, err := intField(req, "year")
	if err != nil {
		return nil, err
	}
	month, err := intField(req, "month")
	if err != nil {
		return nil, err
	}

	a, err := s.exporter.BuildMonthlyBackup(ctx, owner, year, month)
	if err != nil {
		return nil, s.mapError(ctx, err)
	}
	return s.respond(ctx, a)
}

func (s *GRPCServer) ExportYearReport(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	owner, err := ownerOf(ctx)
	if err != nil {
		return nil, err
	}

	year, err := intField(req, "year")
	if err != nil {
		return nil, err
	}

	a, err := s.exporter.BuildAnnualReport(ctx, owner, year)
	if err != nil {
		return nil, s.mapError(ctx, err)
	}
	return s.respond(ctx, a)
}

func (s *GRPCServer) Ping(ctx context.Context, req *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String("OK"), nil
}

// respond sends the artifact name and type as header metadata. The name is
// percent-encoded because metadata values must be ASCII.
func (s *GRPCServer) respond(ctx context.Context, a export.Artifact) (*wrapperspb.BytesValue, error) {
	md := metadata.Pairs(
		common.FilenameHeaderName, url.PathEscape(a.Filename),
		common.MimeTypeHeaderName, a.MimeType,
	)
	if err := grpc.SetHeader(ctx, md); err != nil {
		s.logger.Warn(ctx, "failed to set response header", "error", err)
	}
	s.logger.Info(ctx, "artifact sent", "file", a.Filename, "bytes", len(a.Bytes))
	return wrapperspb.Bytes(a.Bytes), nil
}

func (s *GRPCServer) mapError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrEmptyBackupWindow):
		return status.Error(codes.NotFound, common.ErrEmptyBackupWindow.Error())
	case errors.Is(err, common.ErrUnsupportedFormat), errors.Is(err, common.ErrInvalidWindow):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	s.logger.Error(ctx, "export failed", "error", err)
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}

func ownerOf(ctx context.Context) (string, error) {
	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "unauthorized")
	}
	return owner, nil
}

func stringField(req *structpb.Struct, name, def string) string {
	if req == nil {
		return def
	}
	if v, ok := req.GetFields()[name]; ok {
		if s, ok := v.GetKind().(*structpb.Value_StringValue); ok && s.StringValue != "" {
			return s.StringValue
		}
	}
	return def
}

func intField(req *structpb.Struct, name string) (int, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "missing field %q", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, status.Error(codes.InvalidArgument, fmt.Sprintf("field %q must be an integer", name))
	}
	return int(n.NumberValue), nil
}
