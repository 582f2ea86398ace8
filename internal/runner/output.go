package runner

import (
	"fmt"
	"os"
	"path/filepath"

	v1 "github.com/infracollect/pizzacheck/apis/v1"
	"github.com/infracollect/pizzacheck/internal/engine"
	"github.com/infracollect/pizzacheck/internal/engine/encoders"
	"github.com/infracollect/pizzacheck/internal/engine/sinks"
)

// buildEncoder creates an encoder from the output spec.
// Defaults to compact JSON if no encoding is specified.
func buildEncoder(output *v1.OutputSpec) (engine.Encoder, error) {
	if output == nil || output.Encoding == nil {
		return encoders.NewJSONEncoder(""), nil
	}

	if output.Encoding.JSON != nil {
		return encoders.NewJSONEncoder(output.Encoding.JSON.Indent), nil
	}

	return nil, fmt.Errorf("unknown encoding type")
}

// buildSink creates a sink from the job spec: stdout unless a filesystem sink
// is configured.
func buildSink(job v1.CheckJob) (engine.Sink, error) {
	out := job.Spec.Output
	if out == nil || out.Sink == nil {
		return sinks.NewStreamSink("stdout", os.Stdout), nil
	}

	if out.Sink.Stdout != nil && out.Sink.Filesystem != nil {
		return nil, fmt.Errorf("invalid sink configuration: stdout and filesystem are mutually exclusive")
	}

	if out.Sink.Filesystem != nil {
		return buildFilesystemSink(out.Sink.Filesystem)
	}

	return sinks.NewStreamSink("stdout", os.Stdout), nil
}

func buildFilesystemSink(spec *v1.FilesystemSpec) (engine.Sink, error) {
	var path, prefix string
	if spec.Path != nil {
		path = *spec.Path
	}
	if spec.Prefix != nil {
		prefix = *spec.Prefix
	}

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = wd
	}

	sink, err := sinks.NewFilesystemSinkFromPath(filepath.Join(path, prefix))
	if err != nil {
		return nil, err
	}
	return sink, nil
}
