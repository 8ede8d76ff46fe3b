package logger

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects output to a buffer for the duration of the test.
func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		log     func(format string, args ...any)
		verbose bool
		want    string
	}{
		{"debug verbose", Debug, true, "[DEBUG] page 2: 3 passages\n"},
		{"debug quiet", Debug, false, ""},
		{"info verbose", Info, true, "[INFO] page 2: 3 passages\n"},
		{"info quiet", Info, false, ""},
		{"warn verbose", Warn, true, "[WARN] page 2: 3 passages\n"},
		{"warn quiet", Warn, false, ""},
		{"error verbose", Error, true, "[ERROR] page 2: 3 passages\n"},
		{"error quiet", Error, false, "[ERROR] page 2: 3 passages\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.verbose)
			tt.log("page %d: %d passages", 2, 3)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSection(t *testing.T) {
	buf := capture(t, true)
	Section("Ingestion")
	assert.Equal(t, "\n=== Ingestion ===\n", buf.String())

	buf = capture(t, false)
	Section("Ingestion")
	assert.Empty(t, buf.String())
}

func TestTimer(t *testing.T) {
	buf := capture(t, true)
	Timer("parse lease.pdf")()
	assert.Regexp(t, regexp.MustCompile(`^\[DEBUG\] parse lease\.pdf took \S+\n$`), buf.String())

	buf = capture(t, false)
	Timer("parse lease.pdf")()
	assert.Empty(t, buf.String())
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)
	// Writers share a read lock, so the sink must be safe for concurrent use.
	SetOutput(io.Discard)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			SetVerbose(n%2 == 0)
		}(i)
		go func(n int) {
			defer wg.Done()
			Debug("message %d", n)
			Info("message %d", n)
			_ = IsVerbose()
		}(i)
	}
	wg.Wait()
}
