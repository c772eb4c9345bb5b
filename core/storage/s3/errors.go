package s3

import (
	"context"
	"errors"

	"bucket-browser/core/errs"
	"bucket-browser/core/storage"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

// isMissingKey reports whether err is a NoSuchKey answer. A missing bucket is not a missing key.
func isMissingKey(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey"
}

// mapError translates an AWS SDK error into a *errs.Error.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.KindTransient, msg, err)
	}

	status := 0
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		status = respErr.HTTPStatusCode()
	}

	code := ""
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.ErrorCode()
	}

	if code == "" && status == 0 {
		return errs.Wrap(errs.KindTransient, msg, err)
	}
	return errs.Wrap(storage.ClassifyCode(code, status), msg, err)
}
