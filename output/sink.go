// Package output persists the recovered suggestion value.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Sink writes a finished output document somewhere durable.
type Sink interface {
	Write(ctx context.Context, data []byte) error
}

// WriteRecovered serializes a recovered value as indented UTF-8 JSON and hands
// it to the sink. The value is JSON-serializable by the recovery contract; a
// marshal failure here means that contract was broken upstream.
func WriteRecovered(ctx context.Context, sink Sink, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recovered value: %w", err)
	}
	return sink.Write(ctx, data)
}

// FileSink writes the output document to a local path, overwriting any
// previous run's file.
type FileSink struct {
	FilePath string
}

func NewFileSink(filePath string) *FileSink {
	return &FileSink{FilePath: filePath}
}

func (f *FileSink) Write(ctx context.Context, data []byte) error {
	return os.WriteFile(f.FilePath, data, 0644)
}
