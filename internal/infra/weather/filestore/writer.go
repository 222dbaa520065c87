package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yanqian/dailyreport/internal/domain/weather"
)

// Writer stores the snapshot as a single JSON document on local disk.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter returns a writer targeting path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger.With("component", "weather.filestore")}
}

// Write replaces the file contents with snapshot, creating parent directories.
// The document is written to a temporary file first and renamed into place.
func (w *Writer) Write(ctx context.Context, snapshot weather.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snapshot == nil {
		snapshot = weather.Snapshot{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("encode weather snapshot: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create weather output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".weather-*.json")
	if err != nil {
		return fmt.Errorf("create temp weather file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write weather file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close weather file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod weather file: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replace weather file: %w", err)
	}
	w.logger.Info("weather data saved", "path", w.path, "hours", len(snapshot))
	return nil
}

var _ weather.Writer = (*Writer)(nil)
