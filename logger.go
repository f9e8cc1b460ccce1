package recipesuggest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RunLogger is the interface for run logging.
type RunLogger interface {
	LogRun(run RunLog) error
}

// NewRunLogFilePath returns a file path based on a cleaned up model name or id to make it easier to identify logs produced with various models.
func NewRunLogFilePath(dir, model string) string {
	return filepath.Join(dir, fmt.Sprintf(
		"%d.%s.json",
		time.Now().Unix(),
		strings.ReplaceAll(strings.ToLower(model), ":", "_"),
	))
}

// RunLog captures a single suggestion run end to end.
type RunLog struct {
	Timestamp time.Time `json:"timestamp"`
	Task      string    `json:"task,omitempty"`
	RawOutput any       `json:"raw_output,omitempty"`
	Recovered any       `json:"recovered,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// FileRunLogger logs to a file, accumulating runs and flushing at the end
type FileRunLogger struct {
	runs   []RunLog
	writer io.Writer
}

// NewFileRunLogger creates a new file-based run logger
func NewFileRunLogger(writer io.Writer) *FileRunLogger {
	return &FileRunLogger{
		runs:   make([]RunLog, 0),
		writer: writer,
	}
}

// LogRun logs a run to the buffer (does not flush immediately)
func (frl *FileRunLogger) LogRun(run RunLog) error {
	frl.runs = append(frl.runs, run)
	return nil
}

// Flush flushes all accumulated runs to the writer
func (frl *FileRunLogger) Flush() error {
	if frl.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"suggestion_session": map[string]any{
			"timestamp": time.Now(),
			"runs":      frl.runs,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run log: %w", err)
	}

	if _, err := frl.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write run log: %w", err)
	}

	// Clear the buffer after successful write
	frl.runs = frl.runs[:0]
	return nil
}

// NoOpRunLogger is a logger that discards all log entries
type NoOpRunLogger struct{}

// NewNoOpRunLogger creates a new no-op run logger
func NewNoOpRunLogger() *NoOpRunLogger {
	return &NoOpRunLogger{}
}

// LogRun discards the run log (no-op)
func (nop *NoOpRunLogger) LogRun(run RunLog) error {
	return nil
}

// StdoutRunLogger logs each run as a JSON line to stdout (for Lambda/CloudWatch)
type StdoutRunLogger struct{}

// NewStdoutRunLogger creates a new stdout-based run logger
func NewStdoutRunLogger() *StdoutRunLogger {
	return &StdoutRunLogger{}
}

// LogRun writes the run as a JSON line to os.Stdout
func (l *StdoutRunLogger) LogRun(run RunLog) error {
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
