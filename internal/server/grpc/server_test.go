package grpc

import (
	"context"
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/common"
	"github.com/dmitrijs2005/couplespace/internal/export"
	"github.com/dmitrijs2005/couplespace/internal/logging"
	pb "github.com/dmitrijs2005/couplespace/internal/proto"
	"github.com/dmitrijs2005/couplespace/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// fakeExporter records the last call and returns canned results.
type fakeExporter struct {
	artifact export.Artifact
	err      error

	owner  string
	format export.Format
	year   int
	month  int
}

func (f *fakeExporter) BuildFlat(_ context.Context, owner string, format export.Format) (export.Artifact, error) {
	f.owner, f.format = owner, format
	return f.artifact, f.err
}

func (f *fakeExporter) BuildMonthlyBackup(_ context.Context, owner string, year, month int) (export.Artifact, error) {
	f.owner, f.year, f.month = owner, year, month
	return f.artifact, f.err
}

func (f *fakeExporter) BuildAnnualReport(_ context.Context, owner string, year int) (export.Artifact, error) {
	f.owner, f.year = owner, year
	return f.artifact, f.err
}

const testSecret = "super-secret"

// startBufServer serves s over an in-memory listener and returns a client.
func startBufServer(t *testing.T, s *GRPCServer) pb.ExportServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})
	return pb.NewExportServiceClient(conn)
}

func authed(t *testing.T, owner string) context.Context {
	t.Helper()
	tok, err := auth.GenerateToken(owner, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, tok)
}

func TestEndToEnd_ExportYearReport(t *testing.T) {
	fe := &fakeExporter{artifact: export.Artifact{
		Filename: "2024年度报告.md",
		MimeType: export.MimeMarkdown,
		Bytes:    []byte("# 2024 年度报告\n"),
	}}
	client := startBufServer(t, NewGRPCServer("", nopLogger{}, fe, testSecret))

	req, err := structpb.NewStruct(map[string]any{"year": 2024})
	require.NoError(t, err)

	var header metadata.MD
	resp, err := client.ExportYearReport(authed(t, "space-1"), req, grpc.Header(&header))
	require.NoError(t, err)

	assert.Equal(t, fe.artifact.Bytes, resp.GetValue())
	assert.Equal(t, "space-1", fe.owner)
	assert.Equal(t, 2024, fe.year)

	names := header.Get(common.FilenameHeaderName)
	require.Len(t, names, 1)
	name, err := url.PathUnescape(names[0])
	require.NoError(t, err)
	assert.Equal(t, "2024年度报告.md", name)
	assert.Equal(t, []string{export.MimeMarkdown}, header.Get(common.MimeTypeHeaderName))
}

func TestEndToEnd_MissingToken(t *testing.T) {
	client := startBufServer(t, NewGRPCServer("", nopLogger{}, &fakeExporter{}, testSecret))

	_, err := client.ExportAll(context.Background(), &structpb.Struct{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestEndToEnd_PingIsPublic(t *testing.T) {
	client := startBufServer(t, NewGRPCServer("", nopLogger{}, &fakeExporter{}, testSecret))

	resp, err := client.Ping(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.GetValue())
}

func TestEndToEnd_EmptyWindowIsNotFound(t *testing.T) {
	fe := &fakeExporter{err: common.ErrEmptyBackupWindow}
	client := startBufServer(t, NewGRPCServer("", nopLogger{}, fe, testSecret))

	req, err := structpb.NewStruct(map[string]any{"year": 2024, "month": 3})
	require.NoError(t, err)

	_, err = client.ExportMonth(authed(t, "space-1"), req)
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Equal(t, 3, fe.month)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", nopLogger{}, &fakeExporter{}, "secret")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", nopLogger{}, &fakeExporter{}, "secret")

	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}
