package signal

import (
	"context"
	"log"
	"sync"
	"time"

	labeler "github.com/skymod/labeler"
)

// CallLogEntry records a single external signal call.
type CallLogEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Source       string        `json:"source"`
	TextLen      int           `json:"text_len"`
	Duration     time.Duration `json:"duration_ms"`
	Success      bool          `json:"success"`
	ErrorCode    string        `json:"error_code,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	RetryCount   int           `json:"retry_count,omitempty"`
}

// CallLogger records external signal calls.
type CallLogger interface {
	// Log records a call entry.
	Log(ctx context.Context, entry CallLogEntry)

	// LogAsync records a call entry asynchronously.
	LogAsync(ctx context.Context, entry CallLogEntry)
}

// StandardLogger is the default CallLogger. It prints one line per call via
// the stdlib logger and buffers async entries on a channel.
type StandardLogger struct {
	asyncChan chan CallLogEntry
	wg        sync.WaitGroup
	closed    bool
	mu        sync.RWMutex
}

// NewStandardLogger creates a new standard logger with the given async
// buffer size (0 means 256).
func NewStandardLogger(bufferSize int) *StandardLogger {
	if bufferSize == 0 {
		bufferSize = 256
	}
	l := &StandardLogger{
		asyncChan: make(chan CallLogEntry, bufferSize),
	}
	l.wg.Add(1)
	go l.processAsyncLogs()
	return l
}

// Log records a call entry synchronously.
func (l *StandardLogger) Log(ctx context.Context, entry CallLogEntry) {
	l.logEntry(entry)
}

// LogAsync records a call entry asynchronously. When the buffer is full the
// entry is logged synchronously instead of being dropped.
func (l *StandardLogger) LogAsync(ctx context.Context, entry CallLogEntry) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return
	}

	select {
	case l.asyncChan <- entry:
	default:
		l.logEntry(entry)
	}
}

func (l *StandardLogger) logEntry(entry CallLogEntry) {
	durationMs := entry.Duration.Milliseconds()
	if entry.Success {
		log.Printf("[signal:%s] ok textLen=%d duration=%dms retries=%d",
			entry.Source, entry.TextLen, durationMs, entry.RetryCount)
	} else {
		log.Printf("[signal:%s] failed textLen=%d duration=%dms retries=%d error=[%s] %s",
			entry.Source, entry.TextLen, durationMs, entry.RetryCount,
			entry.ErrorCode, entry.ErrorMessage)
	}
}

func (l *StandardLogger) processAsyncLogs() {
	defer l.wg.Done()
	for entry := range l.asyncChan {
		l.logEntry(entry)
	}
}

// Close shuts down the logger and waits for pending entries.
func (l *StandardLogger) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	close(l.asyncChan)
	l.wg.Wait()
}

// NopCallLogger discards all entries.
type NopCallLogger struct{}

func (NopCallLogger) Log(ctx context.Context, entry CallLogEntry)      {}
func (NopCallLogger) LogAsync(ctx context.Context, entry CallLogEntry) {}

// CallTimer times a signal call and produces a log entry.
type CallTimer struct {
	entry     CallLogEntry
	startTime time.Time
	logger    CallLogger
}

// StartCall starts timing a signal call.
func StartCall(logger CallLogger, source string, textLen int) *CallTimer {
	return &CallTimer{
		entry: CallLogEntry{
			Timestamp: time.Now(),
			Source:    source,
			TextLen:   textLen,
		},
		startTime: time.Now(),
		logger:    logger,
	}
}

// WithRetryCount sets the retry count.
func (t *CallTimer) WithRetryCount(count int) *CallTimer {
	t.entry.RetryCount = count
	return t
}

// Success logs a successful call.
func (t *CallTimer) Success(ctx context.Context) {
	t.entry.Duration = time.Since(t.startTime)
	t.entry.Success = true
	t.logger.LogAsync(ctx, t.entry)
}

// Error logs a failed call.
func (t *CallTimer) Error(ctx context.Context, err error) {
	t.entry.Duration = time.Since(t.startTime)
	t.entry.Success = false
	if err != nil {
		t.entry.ErrorCode = string(labeler.GetErrorCategory(err))
		t.entry.ErrorMessage = err.Error()
	}
	t.logger.LogAsync(ctx, t.entry)
}
