package engine

import (
	"context"
	"io"
)

type Named interface {
	Name() string
	Kind() string
}

type Closer interface {
	Close(context.Context) error
}

// Sink stores encoded results under a relative path.
type Sink interface {
	Named
	Closer
	Write(ctx context.Context, path string, data io.Reader) error
}

// Encoder transforms results into a specific format.
type Encoder interface {
	// EncodeResult encodes a single result to a reader.
	EncodeResult(ctx context.Context, result Result) (io.Reader, error)

	// FileExtension returns extension without dot (e.g., "json").
	FileExtension() string
}

const (
	// ISO8601Basic is a URL-safe timestamp format without colons.
	ISO8601Basic = "20060102T150405Z"
)
