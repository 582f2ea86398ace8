package sinks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/infracollect/pizzacheck/internal/engine"
)

// StreamSink writes every result to a single writer, one after the other.
// The path is ignored.
type StreamSink struct {
	name string
	mu   sync.Mutex
	w    io.Writer
}

func NewStreamSink(name string, w io.Writer) *StreamSink {
	return &StreamSink{name: name, w: w}
}

var _ engine.Sink = (*StreamSink)(nil)

func (s *StreamSink) Name() string {
	return fmt.Sprintf("stream(%s)", s.name)
}

func (s *StreamSink) Kind() string {
	return "stream"
}

func (s *StreamSink) Write(ctx context.Context, _ string, data io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.Copy(s.w, data); err != nil {
		return fmt.Errorf("failed to copy data to %s: %w", s.name, err)
	}
	return nil
}

func (s *StreamSink) Close(ctx context.Context) error {
	return nil
}
