// Package s3 implements storage.Gateway on top of the AWS SDK v2.
//
// It is selected with storage.provider=s3 and talks to Amazon S3 or any
// S3-compatible endpoint (path-style addressing is forced when an endpoint is set).
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"bucket-browser/core/errs"
	"bucket-browser/core/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// API is the subset of the S3 client used by the gateway.
type API interface {
	ListBuckets(ctx context.Context, params *awss3.ListBucketsInput, optFns ...func(*awss3.Options)) (*awss3.ListBucketsOutput, error)
	ListObjectsV2(ctx context.Context, params *awss3.ListObjectsV2Input, optFns ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error)
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
}

// Uploader streams object bodies, switching to multipart for large uploads.
type Uploader interface {
	Upload(ctx context.Context, input *awss3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Presigner signs GET requests.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Gateway is the AWS SDK implementation of storage.Gateway.
type Gateway struct {
	api       API
	uploader  Uploader
	presigner Presigner
}

var _ storage.Gateway = (*Gateway)(nil)

// New assembles a Gateway from its parts.
func New(api API, uploader Uploader, presigner Presigner) *Gateway {
	return &Gateway{api: api, uploader: uploader, presigner: presigner}
}

// NewGateway builds an S3 client from the storage configuration.
func NewGateway(ctx context.Context, cfg storage.Config) (*Gateway, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*awss3.Options)
	if cfg.Endpoint != "" {
		endpoint := endpointURL(cfg.Endpoint, cfg.UseSSL)
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	client := awss3.NewFromConfig(awsCfg, s3Opts...)
	return New(client, manager.NewUploader(client), awss3.NewPresignClient(client)), nil
}

func endpointURL(endpoint string, useSSL bool) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

func (g *Gateway) ListBuckets(ctx context.Context) ([]string, error) {
	out, err := g.api.ListBuckets(ctx, &awss3.ListBucketsInput{})
	if err != nil {
		return nil, mapError(err, "failed to list buckets")
	}

	names := make([]string, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		names = append(names, aws.ToString(b.Name))
	}
	return names, nil
}

func (g *Gateway) List(ctx context.Context, bucket, prefix string) (*storage.Listing, error) {
	if bucket == "" {
		return nil, errs.Invalid("bucket name is empty")
	}

	paginator := awss3.NewListObjectsV2Paginator(g.api, &awss3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String(storage.Delimiter),
	})

	listing := &storage.Listing{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, mapError(err, "failed to list objects")
		}

		for _, cp := range page.CommonPrefixes {
			listing.FolderPrefixes = append(listing.FolderPrefixes, aws.ToString(cp.Prefix))
		}
		for _, obj := range page.Contents {
			record := storage.ObjectRecord{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				record.LastModified = *obj.LastModified
			}
			listing.Objects = append(listing.Objects, record)
		}
	}

	return listing, nil
}

func (g *Gateway) Put(ctx context.Context, bucket, key string, body io.Reader, size int64) error {
	if bucket == "" || key == "" {
		return errs.Invalid("bucket and key are required")
	}

	input := &awss3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := g.uploader.Upload(ctx, input); err != nil {
		return mapError(err, "failed to upload object")
	}
	return nil
}

func (g *Gateway) PutEmpty(ctx context.Context, bucket, key string) error {
	if !strings.HasSuffix(key, storage.Delimiter) {
		return errs.Invalid("folder marker key %q must end with %q", key, storage.Delimiter)
	}

	_, err := g.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(nil),
		ContentLength: aws.Int64(0),
	})
	if err != nil {
		return mapError(err, "failed to create folder marker")
	}
	return nil
}

func (g *Gateway) Delete(ctx context.Context, bucket, key string) error {
	if bucket == "" || key == "" {
		return errs.Invalid("bucket and key are required")
	}

	_, err := g.api.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err == nil || isMissingKey(err) {
		return nil
	}
	return mapError(err, "failed to delete object")
}

func (g *Gateway) PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = storage.DefaultPresignTTL
	}

	req, err := g.presigner.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, awss3.WithPresignExpires(ttl))
	if err != nil {
		return "", mapError(err, "failed to generate presigned URL")
	}
	return req.URL, nil
}
