package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"gindownload/pkg/logger"
)

func newTestCounter(t *testing.T) (*Counter, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counter.dat")
	return NewCounter(path, logger.NewTestLogger()), path
}

func TestLoadMissing(t *testing.T) {
	c, _ := newTestCounter(t)

	next, resumed, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if next != 0 || resumed {
		t.Errorf("Load() = (%d, %v), want (0, false)", next, resumed)
	}
	if c.Exists() {
		t.Error("Exists() = true for missing counter")
	}
}

func TestLoadContents(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantNext    int
		wantResumed bool
	}{
		{"plain value", "5", 5, true},
		{"trailing newline", "12\n", 12, true},
		{"zero", "0", 0, true},
		{"garbage", "abc", 0, false},
		{"negative", "-3", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, path := newTestCounter(t)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			next, resumed, err := c.Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if next != tt.wantNext || resumed != tt.wantResumed {
				t.Errorf("Load() = (%d, %v), want (%d, %v)", next, resumed, tt.wantNext, tt.wantResumed)
			}
		})
	}
}

func TestAdvanceWritesPlainDecimal(t *testing.T) {
	c, path := newTestCounter(t)

	for _, n := range []int{1, 2, 10} {
		if err := c.Advance(n); err != nil {
			t.Fatalf("Advance(%d) error = %v", n, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "10" {
		t.Errorf("counter content = %q, want %q", data, "10")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary counter file left behind")
	}

	next, resumed, _ := c.Load()
	if next != 10 || !resumed {
		t.Errorf("Load() after Advance = (%d, %v)", next, resumed)
	}
}

func TestAdvanceRejectsNegative(t *testing.T) {
	c, _ := newTestCounter(t)
	if err := c.Advance(-1); err == nil {
		t.Error("Advance(-1) should fail")
	}
}

func TestAdvanceCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "nested", "counter.dat")
	c := NewCounter(path, nil)
	if err := c.Advance(3); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if !c.Exists() {
		t.Error("counter not written")
	}
}

func TestFinalize(t *testing.T) {
	c, _ := newTestCounter(t)
	if err := c.Advance(4); err != nil {
		t.Fatal(err)
	}
	if err := c.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if c.Exists() {
		t.Error("counter still exists after Finalize")
	}
	// A second finalize is a no-op
	if err := c.Finalize(); err != nil {
		t.Errorf("second Finalize() error = %v", err)
	}
}

func TestStatus(t *testing.T) {
	c, path := newTestCounter(t)

	st, err := c.Status()
	if err != nil {
		t.Fatal(err)
	}
	if st.Exists {
		t.Error("Status reports missing counter as existing")
	}

	if err := os.WriteFile(path, []byte("junk"), 0644); err != nil {
		t.Fatal(err)
	}
	st, err = c.Status()
	if err != nil {
		t.Fatal(err)
	}
	if !st.Exists || st.Valid || st.Raw != "junk" {
		t.Errorf("unexpected status for junk counter: %+v", st)
	}

	if err := c.Advance(7); err != nil {
		t.Fatal(err)
	}
	st, _ = c.Status()
	if !st.Valid || st.Next != 7 {
		t.Errorf("unexpected status: %+v", st)
	}
}
