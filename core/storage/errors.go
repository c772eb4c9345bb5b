package storage

import (
	"context"
	"errors"
	"net/http"

	"bucket-browser/core/errs"

	"github.com/minio/minio-go/v7"
)

// ClassifyCode maps an S3 protocol error code and HTTP status to an error kind.
// Codes win over status because some backends answer 200-range statuses with an error body.
func ClassifyCode(code string, status int) errs.Kind {
	switch code {
	case "NoSuchBucket", "NoSuchKey", "NoSuchUpload", "NotFound":
		return errs.KindNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "AllAccessDisabled", "ExpiredToken", "InvalidToken":
		return errs.KindAccessDenied
	case "InvalidBucketName", "InvalidObjectName", "KeyTooLongError", "InvalidArgument", "EntityTooLarge":
		return errs.KindInvalidArgument
	case "BucketAlreadyExists", "BucketAlreadyOwnedByYou", "ObjectAlreadyExists", "PreconditionFailed":
		return errs.KindAlreadyExists
	case "RequestTimeout", "SlowDown", "ServiceUnavailable", "InternalError":
		return errs.KindTransient
	}

	switch status {
	case http.StatusNotFound:
		return errs.KindNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return errs.KindAccessDenied
	case http.StatusBadRequest:
		return errs.KindInvalidArgument
	case http.StatusConflict, http.StatusPreconditionFailed:
		return errs.KindAlreadyExists
	}

	return errs.KindTransient
}

// IsMissingKey reports whether err is the backend saying the object key does not exist.
// A missing bucket is not a missing key.
func IsMissingKey(err error) bool {
	var resp minio.ErrorResponse
	return errors.As(err, &resp) && resp.Code == "NoSuchKey"
}

// mapError translates a MinIO SDK error into a *errs.Error.
// Anything that is not a recognised S3 error response is a network or I/O failure and
// therefore transient.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.KindTransient, msg, err)
	}

	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return errs.Wrap(ClassifyCode(resp.Code, resp.StatusCode), msg, err)
	}

	return errs.Wrap(errs.KindTransient, msg, err)
}
