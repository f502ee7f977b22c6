package domain

import "errors"

var (
	// ErrNotFound signals that an identity lookup found nothing.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals a malformed category, path, filter or pagination argument.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmbeddingUnavailable signals that the embedding inference call failed.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrRetrievalFailed signals that every requested retrieval channel failed.
	ErrRetrievalFailed = errors.New("retrieval failed")
)
