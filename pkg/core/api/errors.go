/*
Copyright 2023 Loggie Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type ErrorCode string

const (
	ErrCodeSourceOpen        ErrorCode = "DATA_PARSER_00"
	ErrCodeSourcePosition    ErrorCode = "DATA_PARSER_01"
	ErrCodeInvalidOffset     ErrorCode = "DATA_PARSER_02"
	ErrCodeUnsupportedSource ErrorCode = "DATA_PARSER_03"
	ErrCodeCharset           ErrorCode = "DATA_PARSER_04"
	ErrCodePoolSize          ErrorCode = "DATA_PARSER_05"
	ErrCodeRateLimit         ErrorCode = "DATA_PARSER_06"
	ErrCodeConfig            ErrorCode = "DATA_PARSER_07"
	ErrCodeMalformed         ErrorCode = "DATA_PARSER_08"
	ErrCodeRecordTooLarge    ErrorCode = "DATA_PARSER_09"
	ErrCodeIO                ErrorCode = "DATA_PARSER_10"
	ErrCodeClosed            ErrorCode = "DATA_PARSER_11"
)

type ErrorKind int

const (
	// SourceError means the source could not be resolved, opened or positioned.
	SourceError ErrorKind = iota
	// ConfigError means the service or format configuration is unusable.
	ConfigError
	// ParseError means the content could not be turned into a record.
	ParseError
)

func (k ErrorKind) String() string {
	switch k {
	case SourceError:
		return "source"
	case ConfigError:
		return "config"
	case ParseError:
		return "parse"
	}
	return "unknown"
}

var codeKinds = map[ErrorCode]ErrorKind{
	ErrCodeSourceOpen:        SourceError,
	ErrCodeSourcePosition:    SourceError,
	ErrCodeInvalidOffset:     SourceError,
	ErrCodeUnsupportedSource: SourceError,
	ErrCodeCharset:           ConfigError,
	ErrCodePoolSize:          ConfigError,
	ErrCodeRateLimit:         ConfigError,
	ErrCodeConfig:            ConfigError,
	ErrCodeMalformed:         ParseError,
	ErrCodeRecordTooLarge:    ParseError,
	ErrCodeIO:                ParseError,
	ErrCodeClosed:            ParseError,
}

func (c ErrorCode) Kind() ErrorKind {
	return codeKinds[c]
}

// DataParserError is the only error kind returned across the service boundary.
type DataParserError struct {
	Code        ErrorCode
	SourceID    string
	Offset      string
	Recoverable bool

	msg   string
	cause error
}

func NewError(code ErrorCode, format string, args ...interface{}) *DataParserError {
	return &DataParserError{
		Code: code,
		msg:  fmt.Sprintf(format, args...),
	}
}

// WrapError keeps cause reachable through errors.Cause, errors.Is and errors.As.
func WrapError(cause error, code ErrorCode, format string, args ...interface{}) *DataParserError {
	e := NewError(code, format, args...)
	e.cause = cause
	return e
}

func (e *DataParserError) WithSource(id string) *DataParserError {
	e.SourceID = id
	return e
}

func (e *DataParserError) WithOffset(o Offset) *DataParserError {
	e.Offset = o.String()
	return e
}

// AsRecoverable marks the error as one the caller may skip: the parser is
// already positioned after the offending record.
func (e *DataParserError) AsRecoverable() *DataParserError {
	e.Recoverable = true
	return e
}

func (e *DataParserError) Kind() ErrorKind {
	return e.Code.Kind()
}

func (e *DataParserError) Message() string {
	return e.msg
}

func (e *DataParserError) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	sb.WriteString(": ")
	sb.WriteString(e.msg)
	if e.SourceID != "" || e.Offset != "" {
		sb.WriteString(" (source=")
		sb.WriteString(e.SourceID)
		sb.WriteString(", offset=")
		sb.WriteString(e.Offset)
		sb.WriteString(")")
	}
	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}
	return sb.String()
}

func (e *DataParserError) Cause() error {
	return e.cause
}

func (e *DataParserError) Unwrap() error {
	return e.cause
}

// IsRecoverable tells whether parsing may continue after err.
func IsRecoverable(err error) bool {
	var de *DataParserError
	if errors.As(err, &de) {
		return de.Recoverable
	}
	return false
}

// CodeOf returns the error code of err, or "" when err is not a DataParserError.
func CodeOf(err error) ErrorCode {
	var de *DataParserError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
