package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so that clones compare equal to their template.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "이메일 또는 비밀번호가 올바르지 않습니다.")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "비활성화된 계정입니다.")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "리소스를 찾을 수 없습니다.")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "권한이 없습니다.")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "인증이 필요합니다.")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "이미 존재하는 데이터입니다.")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "잘못된 입력값입니다.")
	ErrIO                 = New("IO_ERROR", http.StatusInternalServerError, "파일 처리 중 오류가 발생했습니다.")
	ErrRolledBack         = New("ROLLED_BACK", http.StatusInternalServerError, "저장 중 오류가 발생하여 모든 변경이 취소되었습니다.")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "서버 내부 오류가 발생했습니다.")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Internal wraps err as an INTERNAL_ERROR carrying the given message.
func Internal(err error, message string) *Error {
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, message)
}
