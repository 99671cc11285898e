package schema

import (
	"errors"
)

var (
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidContentHash = errors.New("invalid_content_hash")
	ErrUnknownContentCode = errors.New("unknown_content_codec")

	ErrUnauthorized   = errors.New("unauthorized")
	ErrDomainNotFound = errors.New("domain_not_found")
	ErrNameNotFound   = errors.New("name_not_found")
	ErrNameClaimed    = errors.New("name_claimed_by_another")

	ErrQuotaExceeded    = errors.New("quota_exceeded")
	ErrQuotaWouldExceed = errors.New("quota_would_be_exceeded")

	ErrBatchTooLarge = errors.New("batch_too_large")
	ErrBatchFailed   = errors.New("batch_failed")
)
