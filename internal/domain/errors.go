package domain

import "errors"

var (
	// ErrEmptyQuery signals a blank or whitespace-only query string.
	// This is a caller contract violation, not a pipeline outcome.
	ErrEmptyQuery = errors.New("empty query")
	// ErrDirectoryUnavailable signals that the entity directory could not be read.
	ErrDirectoryUnavailable = errors.New("entity directory unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrAliasFile signals an unreadable or malformed alias dictionary file.
	ErrAliasFile = errors.New("invalid alias file")
)

// KeyPrefix namespaces every refdesk key in the backing store.
const KeyPrefix = "refdesk:"
