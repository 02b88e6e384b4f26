// Package s3store adapts the S3 SDK to the pipeline's object store port.
package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/autobmg/processdocs/internal/core"
)

// lifecycleRuleID identifies the delivery-prefix expiry rule. The ID is fixed
// so repeated installs replace the same rule instead of accumulating
// duplicates.
const lifecycleRuleID = "processdocs-expire-delivered-archives"

// S3API is the slice of the S3 client this adapter needs.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	PutBucketLifecycleConfiguration(ctx context.Context, params *s3.PutBucketLifecycleConfigurationInput, optFns ...func(*s3.Options)) (*s3.PutBucketLifecycleConfigurationOutput, error)
}

// PresignAPI is the slice of the S3 presign client this adapter needs.
type PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Options configures the store adapter.
type Options struct {
	Client    S3API      // Required: S3 client
	Presigner PresignAPI // Required: presign client
	Bucket    string     // Required: bucket name

	Clock  func() time.Time // Optional: defaults to time.Now
	Logger *slog.Logger     // Optional: structured logger
}

// Store implements core.ObjectStore on one S3 bucket.
type Store struct {
	client    S3API
	presigner PresignAPI
	bucket    string
	clock     func() time.Time
	logger    *slog.Logger
}

var _ core.ObjectStore = (*Store)(nil)

// New builds a Store. Callers should pass a validated config.
func New(opts Options) (*Store, error) {
	if opts.Client == nil {
		return nil, errors.New("s3 client is required")
	}
	if opts.Presigner == nil {
		return nil, errors.New("s3 presign client is required")
	}
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		client:    opts.Client,
		presigner: opts.Presigner,
		bucket:    bucket,
		clock:     clock,
		logger:    logger,
	}, nil
}

// List returns every key under prefix, following continuation tokens until
// the listing is exhausted.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var token *string

	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list objects under %s: %w", prefix, err)
		}

		for _, obj := range out.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}

		if !aws.ToBool(out.IsTruncated) {
			return keys, nil
		}
		token = out.NextContinuationToken
	}
}

// Download streams one object into destPath.
func (s *Store) Download(ctx context.Context, key, destPath string) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("get object %s: %w", key, err)
	}
	defer func() {
		_ = out.Body.Close()
	}()

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	if _, err := io.Copy(f, out.Body); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	return f.Close()
}

// Upload stores the file at srcPath under key.
func (s *Store) Upload(ctx context.Context, key, srcPath string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer func() {
		_ = f.Close()
	}()

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if strings.HasSuffix(key, ".zip") {
		input.ContentType = aws.String("application/zip")
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// PresignGet mints a capability URL for key. The expiry instant is computed
// from the local clock at issuance, matching the signature's validity window.
func (s *Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	issuedAt := s.clock()

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign %s: %w", key, err)
	}

	return req.URL, issuedAt.Add(ttl), nil
}

// EnsureLifecycle installs the delivery-prefix expiry rule. The bucket keeps
// one rule under a fixed ID; installing again replaces it (last write wins),
// so the call is idempotent. Retention is rounded up to whole days, the
// granularity S3 lifecycle rules support.
func (s *Store) EnsureLifecycle(ctx context.Context, prefix string, retention time.Duration) error {
	days := int32((retention + 24*time.Hour - 1) / (24 * time.Hour))
	if days < 1 {
		days = 1
	}

	_, err := s.client.PutBucketLifecycleConfiguration(ctx, &s3.PutBucketLifecycleConfigurationInput{
		Bucket: aws.String(s.bucket),
		LifecycleConfiguration: &s3types.BucketLifecycleConfiguration{
			Rules: []s3types.LifecycleRule{
				{
					ID:     aws.String(lifecycleRuleID),
					Status: s3types.ExpirationStatusEnabled,
					Filter: &s3types.LifecycleRuleFilter{
						Prefix: aws.String(prefix),
					},
					Expiration: &s3types.LifecycleExpiration{
						Days: aws.Int32(days),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put lifecycle configuration for %s: %w", prefix, err)
	}

	s.logger.DebugContext(ctx, "lifecycle rule ensured",
		"prefix", prefix, "days", days)
	return nil
}
