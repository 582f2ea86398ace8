package encoders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/infracollect/pizzacheck/internal/engine"
)

type JSONEncoder struct {
	indent string
}

func NewJSONEncoder(indent string) engine.Encoder {
	return &JSONEncoder{
		indent: indent,
	}
}

// EncodeResult encodes the whole result, including its ID and metadata.
func (e *JSONEncoder) EncodeResult(ctx context.Context, result engine.Result) (io.Reader, error) {
	var buff bytes.Buffer
	encoder := json.NewEncoder(&buff)
	if e.indent != "" {
		encoder.SetIndent("", e.indent)
	}

	if err := encoder.Encode(result); err != nil {
		return nil, fmt.Errorf("failed to encode result %s as JSON: %w", result.ID, err)
	}

	return &buff, nil
}

func (e *JSONEncoder) FileExtension() string {
	return "json"
}
