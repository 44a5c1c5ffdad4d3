package commonModels

import "errors"

var (
	ErrUnsupportedProvider = errors.New("unsupported embedding provider")
	ErrNamespaceRequired   = errors.New("namespace is required")
	ErrVectorCountMismatch = errors.New("vector count does not match chip count")
	ErrRateLimited         = errors.New("rate limited by upstream service")
	ErrIndexUnavailable    = errors.New("vector index unavailable")
	ErrEmptyBatch          = errors.New("batch has no records")
	ErrMissingAPIKey       = errors.New("embedding api key not set")
)
