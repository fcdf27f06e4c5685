package status

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcoot/coophost-go/internal/model"
)

// FileSink overwrites a JSON status file on every publish. The write goes
// through a temp file and rename so readers never observe a partial snapshot.
type FileSink struct {
	path string
}

// Ensure FileSink implements Sink
var _ Sink = (*FileSink)(nil)

// NewFileSink creates a sink writing to the given path
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Write(status model.SessionStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".status-*")
	if err != nil {
		return fmt.Errorf("create temp status file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write status file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close status file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace status file: %w", err)
	}
	return nil
}
