package osmextract

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// VerboseReader wraps a seekable file, tracking cumulative bytes read
// across passes (seeks don't reset the counter) and the number of times
// the stream has been rewound.
type VerboseReader struct {
	inner    io.ReadSeeker
	filesize int64
	position atomic.Int64
	passes   atomic.Int64
}

// NewVerboseReader wraps inner, which must report filesize bytes total.
func NewVerboseReader(inner io.ReadSeeker, filesize int64) *VerboseReader {
	return &VerboseReader{inner: inner, filesize: filesize}
}

func (r *VerboseReader) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	r.position.Add(int64(n))
	return n, err
}

// Seek rewinds or repositions the stream. A seek to the start marks the
// beginning of a new pass.
func (r *VerboseReader) Seek(offset int64, whence int) (int64, error) {
	if whence == io.SeekStart && offset == 0 {
		r.passes.Add(1)
	}
	return r.inner.Seek(offset, whence)
}

// VerboseReaderManager polls a VerboseReader on a timer and logs its
// progress until Stop is called. Start/Stop are idempotent.
type VerboseReaderManager struct {
	reader   *VerboseReader
	interval time.Duration
	logger   zerolog.Logger
	done     chan struct{}
}

// NewVerboseReaderManager builds a manager with the default 3s report
// interval.
func NewVerboseReaderManager(r *VerboseReader, logger zerolog.Logger) *VerboseReaderManager {
	return &VerboseReaderManager{reader: r, interval: 3 * time.Second, logger: logger}
}

// WithInterval overrides the default polling interval.
func (m *VerboseReaderManager) WithInterval(d time.Duration) *VerboseReaderManager {
	m.interval = d
	return m
}

// Start begins the background reporting goroutine. Calling Start while
// already running first stops the previous goroutine.
func (m *VerboseReaderManager) Start() {
	m.Stop()
	done := make(chan struct{})
	m.done = done
	go m.loop(done)
}

// Stop terminates the reporting goroutine, if running.
func (m *VerboseReaderManager) Stop() {
	if m.done == nil {
		return
	}
	close(m.done)
	m.done = nil
}

func (m *VerboseReaderManager) loop(done chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			m.report()
		}
	}
}

func (m *VerboseReaderManager) report() {
	pos := m.reader.position.Load()
	total := m.reader.filesize
	percent := float64(0)
	if total > 0 {
		percent = float64(pos) / float64(total) * 100
	}
	m.logger.Info().
		Int64("pass", m.reader.passes.Load()).
		Str("read", humanize.Bytes(uint64(pos))).
		Str("total", humanize.Bytes(uint64(total))).
		Float64("percent", percent).
		Msg("extract progress")
}
