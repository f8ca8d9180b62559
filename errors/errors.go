package errors

import (
	stderrors "errors"
	"fmt"
)

const (
	ErrNotFound     = "NOT FOUND"
	ErrInvalidInput = "INVALID INPUT"
	ErrAuth         = "UNAUTHORIZED"
	ErrAccessDenied = "ACCESS DENIED"
	ErrConflict     = "CONFLICT"
	ErrInternal     = "INTERNAL"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ErrorResponse) Error() string {
	return fmt.Sprintf("code: %s, message: %s", e.Code, e.Message)
}

// CodeOf returns the application error code of err, or ErrInternal
// when err is not an ErrorResponse (wrapped or not).
func CodeOf(err error) string {
	var appErr ErrorResponse
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}
