package labeler

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorCategory represents the category of an error for handling decisions.
type ErrorCategory string

const (
	ErrorCategoryNetwork    ErrorCategory = "network"    // Network connectivity issues
	ErrorCategoryRateLimit  ErrorCategory = "rate_limit" // Rate limiting
	ErrorCategoryTimeout    ErrorCategory = "timeout"    // Request timeout
	ErrorCategoryAuth       ErrorCategory = "auth"       // Authentication/authorization
	ErrorCategoryConfig     ErrorCategory = "config"     // Configuration issues
	ErrorCategoryValidation ErrorCategory = "validation" // Input validation
	ErrorCategorySignal     ErrorCategory = "signal"     // Signal-provider errors
	ErrorCategoryInternal   ErrorCategory = "internal"   // Internal errors
)

// Common errors
var (
	ErrEmptyLexicon       = errors.New("labeler: lexicon contains no usable entries")
	ErrUnknownCategory    = errors.New("labeler: lexicon category not in active vocabulary")
	ErrDuplicatePhrase    = errors.New("labeler: duplicate literal phrase with conflicting category")
	ErrNoThresholds       = errors.New("labeler: no severity thresholds configured")
	ErrSignalUnavailable  = errors.New("labeler: external signal unavailable")
	ErrPostNotFound       = errors.New("labeler: post not found")
	ErrInvalidPostURL     = errors.New("labeler: invalid post URL or URI")
	ErrStoreNotConfigured = errors.New("labeler: store not configured")
	ErrRecordNotFound     = errors.New("labeler: label record not found")
	ErrTaskNotFound       = errors.New("labeler: review task not found")
	ErrTimeout            = errors.New("labeler: operation timeout")
	ErrRateLimited        = errors.New("labeler: rate limited by provider")

	// Config errors
	ErrMissingConfig = errors.New("labeler: missing required configuration")
	ErrInvalidConfig = errors.New("labeler: invalid configuration")
)

// SignalError represents an error from an external signal provider.
type SignalError struct {
	Provider   string        // Provider name (perspective, tencent, aliyun, huawei)
	Code       string        // Error code from provider
	Message    string        // Error message
	StatusCode int           // HTTP status code if applicable
	Category   ErrorCategory // Error category for handling
	Retryable  bool          // Whether this error is retryable
	Err        error         // Underlying error
}

func (e *SignalError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("labeler: signal %s error [%d/%s]: %s", e.Provider, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("labeler: signal %s error [%s]: %s", e.Provider, e.Code, e.Message)
}

func (e *SignalError) Unwrap() error {
	return e.Err
}

// NewSignalError creates a new signal error.
func NewSignalError(provider, code, message string) *SignalError {
	se := &SignalError{
		Provider: provider,
		Code:     code,
		Message:  message,
		Category: ErrorCategorySignal,
	}
	se.Retryable = se.isRetryable()
	return se
}

// WithStatusCode sets the HTTP status code.
func (e *SignalError) WithStatusCode(code int) *SignalError {
	e.StatusCode = code
	e.Category = categorizeByStatusCode(code)
	e.Retryable = e.isRetryable()
	return e
}

// WithCategory sets the error category.
func (e *SignalError) WithCategory(cat ErrorCategory) *SignalError {
	e.Category = cat
	e.Retryable = e.isRetryable()
	return e
}

// WithCause sets the underlying error.
func (e *SignalError) WithCause(err error) *SignalError {
	e.Err = err
	return e
}

func (e *SignalError) isRetryable() bool {
	switch e.Category {
	case ErrorCategoryNetwork, ErrorCategoryRateLimit, ErrorCategoryTimeout:
		return true
	}
	switch e.StatusCode {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

func categorizeByStatusCode(code int) ErrorCategory {
	switch {
	case code == 401 || code == 403:
		return ErrorCategoryAuth
	case code == 429:
		return ErrorCategoryRateLimit
	case code == 408 || code == 504:
		return ErrorCategoryTimeout
	case code >= 500:
		return ErrorCategoryInternal
	default:
		return ErrorCategorySignal
	}
}

// LexiconError represents a problem with a specific lexicon row.
type LexiconError struct {
	File string // Source file, if known
	Row  int    // 1-based row number in the source
	Err  error  // Underlying error
}

func (e *LexiconError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("labeler: lexicon error at %s row %d: %v", e.File, e.Row, e.Err)
	}
	return fmt.Sprintf("labeler: lexicon error at row %d: %v", e.Row, e.Err)
}

func (e *LexiconError) Unwrap() error {
	return e.Err
}

// NewLexiconError creates a new lexicon error.
func NewLexiconError(file string, row int, err error) *LexiconError {
	return &LexiconError{File: file, Row: row, Err: err}
}

// StoreError represents a database/store error.
type StoreError struct {
	Operation string // Operation that failed (create, update, query)
	Table     string // Table/collection name
	Err       error  // Underlying error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("labeler: store error during %s on %s: %v", e.Operation, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new store error.
func NewStoreError(operation, table string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Table:     table,
		Err:       err,
	}
}

// IsSignalError checks if an error is a signal-provider error.
func IsSignalError(err error) bool {
	var se *SignalError
	return errors.As(err, &se)
}

// IsLexiconError checks if an error is a lexicon row error.
func IsLexiconError(err error) bool {
	var le *LexiconError
	return errors.As(err, &le)
}

// IsStoreError checks if an error is a store error.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Check sentinel errors
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrRateLimited) {
		return true
	}

	// Check signal error
	var se *SignalError
	if errors.As(err, &se) {
		return se.Retryable
	}

	// Check for network errors
	if IsNetworkError(err) {
		return true
	}

	return false
}

// IsNetworkError checks if an error is a network-related error.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Check for common network error patterns in message
	msg := strings.ToLower(err.Error())
	networkPatterns := []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"connection timed out",
		"dial tcp",
		"dial udp",
	}
	for _, pattern := range networkPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}

	return false
}

// GetErrorCategory returns the category of an error.
func GetErrorCategory(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	var se *SignalError
	if errors.As(err, &se) {
		return se.Category
	}

	if IsNetworkError(err) {
		return ErrorCategoryNetwork
	}
	if errors.Is(err, ErrTimeout) {
		return ErrorCategoryTimeout
	}
	if errors.Is(err, ErrRateLimited) {
		return ErrorCategoryRateLimit
	}
	if errors.Is(err, ErrMissingConfig) || errors.Is(err, ErrInvalidConfig) {
		return ErrorCategoryConfig
	}

	var le *LexiconError
	if errors.As(err, &le) {
		return ErrorCategoryValidation
	}

	return ErrorCategoryInternal
}
