// Package storage provides the object-storage gateway used by the browser.
//
// It wraps the MinIO Go client behind a small Client interface and exposes the
// Gateway contract: list buckets, delimited listing, put, folder-marker creation,
// delete and presigned download URLs. The gateway is stateless; every backend
// failure is translated into the core/errs taxonomy.
//
// # Folders
//
// There are no real directories. A folder is a zero-byte marker object whose key
// ends in Delimiter ("/"), and listings group keys by the delimiter so that only
// the immediate children of a prefix come back.
//
// # Providers
//
//   - minio (default): NewGateway(NewClient(cfg)), works with MinIO and any S3-compatible endpoint.
//   - s3: see core/storage/s3, built on the AWS SDK v2.
//
// # Usage
//
//	client, err := storage.NewClient(cfg)
//	gw := storage.NewGateway(client)
//	listing, err := gw.List(ctx, "assets", "images/")
package storage
