package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/couplespace/internal/export"
	"github.com/dmitrijs2005/couplespace/internal/logging"
	pb "github.com/dmitrijs2005/couplespace/internal/proto"
	"google.golang.org/grpc"
)

// Exporter builds artifacts for an owner; *export.Exporter implements it.
type Exporter interface {
	BuildFlat(ctx context.Context, owner string, format export.Format) (export.Artifact, error)
	BuildMonthlyBackup(ctx context.Context, owner string, year, month int) (export.Artifact, error)
	BuildAnnualReport(ctx context.Context, owner string, year int) (export.Artifact, error)
}

type GRPCServer struct {
	pb.UnimplementedExportServiceServer
	address   string
	exporter  Exporter
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, e Exporter, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		exporter:  e,
		jwtSecret: []byte(secretKey),
	}
}

// newServer creates the gRPC server with interceptors and the service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	pb.RegisterExportServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on l until ctx is canceled.
func (s *GRPCServer) Serve(ctx context.Context, l net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", l.Addr().String())

	if err := srv.Serve(l); err != nil {
		return err
	}

	return nil
}
