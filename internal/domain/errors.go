package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrIndexQueryFailed signals a vector index query failure.
	ErrIndexQueryFailed = errors.New("index query failed")
	// ErrModelMismatch signals that the configured embedding model differs
	// from the one the corpus was embedded with. Vectors across models are
	// not comparable, so this is fatal at startup.
	ErrModelMismatch = errors.New("embedding model mismatch")
	// ErrInvalidArgument signals a malformed request parameter.
	ErrInvalidArgument = errors.New("invalid argument")
)
