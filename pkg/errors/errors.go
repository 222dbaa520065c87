package errors

import "errors"

// Error codes shared by the job pipeline.
const (
	CodeConfig        = "config_error"
	CodeFetchFailed   = "fetch_failed"
	CodeLLM           = "llm_error"
	CodeLogLoad       = "log_load_failed"
	CodeLogSave       = "log_save_failed"
	CodeNotify        = "notify_failed"
	CodeWeather       = "weather_failed"
	CodeRunInProgress = "run_in_progress"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode helps callers differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost AppError, or "" when err carries none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
