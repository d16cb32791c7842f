package delivery

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/couplespace/internal/export"
	"github.com/dmitrijs2005/couplespace/internal/logging"
	"github.com/dmitrijs2005/couplespace/internal/netx"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	uploadPresigned = netx.PutPresigned

	now = time.Now
)

// S3Config points at an S3-compatible bucket (AWS or MinIO).
type S3Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	Bucket       string
	BaseEndpoint string
	// LinkExpiry bounds both the upload URL and the returned download link.
	LinkExpiry time.Duration
}

// Stored describes an uploaded artifact.
type Stored struct {
	Key string
	// URL is a presigned GET link valid for S3Config.LinkExpiry.
	URL string
}

// S3Deliverer uploads artifacts through presigned PUT URLs and returns a
// presigned download link.
type S3Deliverer struct {
	cfg    S3Config
	owner  string
	client *http.Client
	logger logging.Logger
}

func NewS3Deliverer(cfg S3Config, l logging.Logger) *S3Deliverer {
	if cfg.LinkExpiry <= 0 {
		cfg.LinkExpiry = 15 * time.Minute
	}
	return &S3Deliverer{cfg: cfg, client: http.DefaultClient, logger: l.With("module", "s3_delivery")}
}

// ForOwner returns a copy whose keys are scoped to one couple space.
func (d *S3Deliverer) ForOwner(owner string) *S3Deliverer {
	c := *d
	c.owner = owner
	return &c
}

// StorageKey builds exports/<owner>/<yyyy>/<mm>/<dd>/<uuid>/<filename>.
func StorageKey(owner, filename string, at time.Time) string {
	if owner == "" {
		owner = "shared"
	}
	return path.Join("exports", owner,
		fmt.Sprintf("%04d", at.Year()),
		fmt.Sprintf("%02d", int(at.Month())),
		fmt.Sprintf("%02d", at.Day()),
		uuid.NewString(),
		filename)
}

func (d *S3Deliverer) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(d.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			d.cfg.AccessKey,
			d.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if d.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(d.cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

// Upload stores the artifact under a fresh key and presigns a download link.
func (d *S3Deliverer) Upload(ctx context.Context, a export.Artifact, filename string) (Stored, error) {
	pc, err := d.presignClient(ctx)
	if err != nil {
		return Stored{}, failure(filename, err)
	}

	bucket := d.cfg.Bucket
	key := StorageKey(d.owner, filename, now())
	contentType := a.MimeType

	put, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(d.cfg.LinkExpiry))
	if err != nil {
		return Stored{}, failure(filename, err)
	}

	if err := uploadPresigned(ctx, d.client, put.URL, contentType, a.Bytes); err != nil {
		return Stored{}, failure(filename, err)
	}

	disposition := ContentDisposition(filename)
	get, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket:                     &bucket,
		Key:                        &key,
		ResponseContentDisposition: &disposition,
	}, s3.WithPresignExpires(d.cfg.LinkExpiry))
	if err != nil {
		return Stored{}, failure(filename, err)
	}

	d.logger.Info(ctx, "artifact uploaded",
		"bucket", bucket,
		"key", key,
		"size", humanize.Bytes(uint64(len(a.Bytes))),
		"link_expires", humanize.Time(now().Add(d.cfg.LinkExpiry)),
	)
	return Stored{Key: key, URL: get.URL}, nil
}

func (d *S3Deliverer) Deliver(ctx context.Context, a export.Artifact, filename string) error {
	_, err := d.Upload(ctx, a, filename)
	return err
}

// UploadFor is Upload scoped to owner, under the artifact's own file name.
func (d *S3Deliverer) UploadFor(ctx context.Context, owner string, a export.Artifact) (Stored, error) {
	return d.ForOwner(owner).Upload(ctx, a, a.Filename)
}
