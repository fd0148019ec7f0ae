package model

import (
	"errors"
	"fmt"
)

// ErrorCode classifies failures raised by the model and its producers.
type ErrorCode string

const (
	CodeInvalidHierarchy   ErrorCode = "INVALID_HIERARCHY"
	CodeUnsupportedQuery   ErrorCode = "UNSUPPORTED_QUERY"
	CodeLeafMetricMismatch ErrorCode = "LEAF_METRIC_MISMATCH"
	CodeInvalidReport      ErrorCode = "INVALID_REPORT"
)

const (
	CtxMetric = "metric"
	CtxParent = "parent"
	CtxName   = "name"
	CtxOther  = "other"
)

// Error is a coded model error. Absence of data (unset coverage, unknown
// metric names, unmatched searches) is never reported through it.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError tags err with code.
func WrapError(err error, code ErrorCode, msg string) error {
	return &Error{Code: code, Message: msg, Err: err}
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}
