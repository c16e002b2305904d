package awsinventory

import (
	"errors"

	"github.com/aws/smithy-go"
)

// isAPIErrorCode reports whether err is an AWS API error with the given
// error code. Used to tell "attribute not configured" responses (e.g.
// NoSuchBucketPolicy) apart from genuine call failures.
func isAPIErrorCode(err error, code string) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == code
}
