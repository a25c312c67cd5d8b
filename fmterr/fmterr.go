// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fmterr defines the errors reported by the evaluator.
//
// Every error carries a Kind so that callers can distinguish programmer
// misuse (binding conflicts, invalid indices, ...) from internal bugs.
// Missing data is never an error: it is reported as a nil value.
package fmterr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind of an evaluation error.
type Kind int

const (
	// Unknown is the kind of errors not created by this package.
	Unknown Kind = iota
	// BindingConflict is returned when binding a value to a node which is not a free symbol.
	BindingConflict
	// TypeMismatch is returned when a value does not conform to a declared type.
	TypeMismatch
	// UnknownField is returned when accessing a structure field that does not exist.
	UnknownField
	// IndexOutOfRange is returned when accessing an array out of its bounds.
	IndexOutOfRange
	// ShapeTransform is returned for illegal tensor view transforms.
	ShapeTransform
	// Internal marks a bug in the evaluator or an invalid graph.
	Internal
)

var kindNames = map[Kind]string{
	Unknown:         "unknown",
	BindingConflict: "binding conflict",
	TypeMismatch:    "type mismatch",
	UnknownField:    "unknown field",
	IndexOutOfRange: "index out of range",
	ShapeTransform:  "shape transform error",
	Internal:        "internal error",
}

// String returns the name of the kind.
func (k Kind) String() string {
	s, ok := kindNames[k]
	if !ok {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return s
}

type kindError struct {
	kind Kind
	err  error
}

// Errorf returns a new error of a given kind.
func Errorf(kind Kind, format string, a ...any) error {
	return &kindError{kind: kind, err: errors.Errorf(format, a...)}
}

// Wrap an existing error with a kind.
// Returns nil if err is nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

// Wrapf annotates an error with a message and a kind.
// Returns nil if err is nil.
func Wrapf(kind Kind, err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: errors.Wrapf(err, format, a...)}
}

// Internalf returns an internal error.
func Internalf(format string, a ...any) error {
	return Errorf(Internal, format, a...)
}

// KindOf returns the kind of an error.
// The outermost error with a kind wins.
func KindOf(err error) Kind {
	var kErr *kindError
	if !errors.As(err, &kErr) {
		return Unknown
	}
	return kErr.kind
}

// Is returns true if the error, or one of the errors it wraps, is of the given kind.
// Errors joining several errors are traversed.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	if kErr, ok := err.(*kindError); ok && kErr.kind == kind {
		return true
	}
	switch errT := err.(type) {
	case interface{ Unwrap() []error }:
		for _, err := range errT.Unwrap() {
			if Is(err, kind) {
				return true
			}
		}
		return false
	case interface{ Unwrap() error }:
		return Is(errT.Unwrap(), kind)
	}
	return false
}

func (err *kindError) Error() string {
	return err.kind.String() + ": " + err.err.Error()
}

// Unwrap returns the underlying error.
func (err *kindError) Unwrap() error {
	return err.err
}

// Format writes the error into the state of the formatter.
// The verb %+v prints the stack trace recorded when the error was created.
func (err *kindError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s: %+v", err.kind, err.err)
			return
		}
		fallthrough
	case 's':
		fmt.Fprint(s, err.Error())
	case 'q':
		fmt.Fprintf(s, "%q", err.Error())
	}
}
