package checkpoint

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gindownload/pkg/logger"
)

// Counter is the on-disk progress counter
type Counter struct {
	path   string
	logger logger.Logger
}

// Status summarises the counter file for display
type Status struct {
	Path    string
	Exists  bool
	Valid   bool
	Next    int
	Raw     string
	ModTime time.Time
}

// NewCounter creates a counter stored at path
func NewCounter(path string, log logger.Logger) *Counter {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Counter{path: path, logger: log}
}

// Path returns the counter file location
func (c *Counter) Path() string {
	return c.path
}

// Load reads the counter. It returns the ordinal of the next step to run and
// whether a previous run left a valid value behind. A missing, unparsable or
// negative value yields (0, false). Only read failures other than absence are
// returned as errors.
func (c *Counter) Load() (int, bool, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read counter file: %w", err)
	}

	next, ok := parse(string(data))
	if !ok {
		c.logger.WarnWithFields("Ignoring unreadable counter", map[string]interface{}{
			"path":    c.path,
			"content": strings.TrimSpace(string(data)),
		})
		return 0, false, nil
	}

	c.logger.DebugWithFields("Counter loaded", map[string]interface{}{
		"path": c.path,
		"next": next,
	})
	return next, true, nil
}

func parse(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Advance persists next atomically
func (c *Counter) Advance(next int) error {
	if next < 0 {
		return fmt.Errorf("counter cannot be negative: %d", next)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create counter directory: %w", err)
	}

	tempPath := c.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary counter file: %w", err)
	}

	if _, err := file.WriteString(strconv.Itoa(next)); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write counter: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync counter file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close counter file: %w", err)
	}

	if err := os.Rename(tempPath, c.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace counter file: %w", err)
	}

	c.logger.DebugWithFields("Counter advanced", map[string]interface{}{
		"path": c.path,
		"next": next,
	})
	return nil
}

// Finalize removes the counter after a completed run
func (c *Counter) Finalize() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete counter: %w", err)
	}
	c.logger.DebugWithFields("Counter removed", map[string]interface{}{"path": c.path})
	return nil
}

// Exists checks if a counter file exists
func (c *Counter) Exists() bool {
	_, err := os.Stat(c.path)
	return err == nil
}

// Status inspects the counter without interpreting it for a run
func (c *Counter) Status() (*Status, error) {
	st := &Status{Path: c.path}

	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return nil, fmt.Errorf("failed to stat counter file: %w", err)
	}
	st.Exists = true
	st.ModTime = info.ModTime()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read counter file: %w", err)
	}
	st.Raw = strings.TrimSpace(string(data))
	st.Next, st.Valid = parse(st.Raw)
	return st, nil
}
