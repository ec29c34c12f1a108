package compat

import (
	"errors"
	"fmt"
)

// 解码失败的类别，可用 errors.Is 判断
var (
	ErrMissingField      = errors.New("missing field")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrMalformedTopLevel = errors.New("malformed top level")
	ErrAmbiguousTitle    = errors.New("ambiguous aspect title")
)

// DecodeError 携带出错路径的解码错误
type DecodeError struct {
	Kind     error
	Path     string
	Expected string
	Err      error
}

func (e *DecodeError) Error() string {
	msg := "compat: " + e.Kind.Error()
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Expected != "" {
		msg += fmt.Sprintf(" (expected %s)", e.Expected)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is 让 errors.Is(err, ErrMissingField) 之类的判断成立
func (e *DecodeError) Is(target error) bool {
	return target == e.Kind
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UserMessage 返回可以直接展示给用户的提示
func (e *DecodeError) UserMessage() string {
	switch e.Kind {
	case ErrMissingField:
		return fmt.Sprintf("The compatibility analysis came back incomplete (missing %s). Please try again.", e.Path)
	case ErrTypeMismatch:
		return fmt.Sprintf("The compatibility analysis had an unexpected format at %s. Please try again.", e.Path)
	case ErrAmbiguousTitle:
		return fmt.Sprintf("The compatibility analysis had an unclear entry at %s. Please try again.", e.Path)
	default:
		return "The compatibility analysis could not be read. Please try again."
	}
}

func missingField(path string) error {
	return &DecodeError{Kind: ErrMissingField, Path: path}
}

func typeMismatch(path, expected string) error {
	return &DecodeError{Kind: ErrTypeMismatch, Path: path, Expected: expected}
}

func malformed(err error) error {
	return &DecodeError{Kind: ErrMalformedTopLevel, Err: err}
}

func ambiguous(path string, keys []string) error {
	return &DecodeError{Kind: ErrAmbiguousTitle, Path: path, Expected: fmt.Sprintf("one title key, got %q", keys)}
}
