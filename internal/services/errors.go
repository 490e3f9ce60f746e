package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExtraction    = errors.New("extraction error")
	ErrTranscription = errors.New("transcription error")
	ErrFilesystem    = errors.New("filesystem error")
	ErrConfiguration = errors.New("configuration error")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() }

func (e *hintedError) Unwrap() error { return e.err }

// WithHint attaches an operator remediation hint to err. The hint travels with
// the error chain and surfaces through Details.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return err
	}
	return &hintedError{err: err, hint: hint}
}

// Hint returns the innermost remediation hint attached to err, if any.
func Hint(err error) (string, bool) {
	var hinted *hintedError
	if errors.As(err, &hinted) {
		return hinted.hint, true
	}
	return "", false
}

// FailureDetail describes a classified stage failure for persistence and logs.
type FailureDetail struct {
	Code    string
	Message string
	Hint    string
}

var markerCodes = []struct {
	marker error
	code   string
}{
	{ErrExtraction, "extraction"},
	{ErrTranscription, "transcription"},
	{ErrFilesystem, "filesystem"},
	{ErrConfiguration, "configuration"},
	{ErrTimeout, "timeout"},
}

// Details classifies err against the sentinel markers and strips the marker
// prefix from the message so persisted failures read cleanly.
func Details(err error) FailureDetail {
	detail := FailureDetail{Code: "failure"}
	if err == nil {
		detail.Message = "unknown failure"
		return detail
	}

	detail.Message = err.Error()
	for _, entry := range markerCodes {
		if errors.Is(err, entry.marker) {
			detail.Code = entry.code
			detail.Message = strings.TrimPrefix(detail.Message, entry.marker.Error()+": ")
			break
		}
	}
	if detail.Code == "failure" && (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)) {
		detail.Code = "timeout"
	}
	if hint, ok := Hint(err); ok {
		detail.Hint = hint
	}
	return detail
}
