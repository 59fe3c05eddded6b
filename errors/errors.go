/*
 * MIT License
 *
 * Copyright (c) 2024 Kalev Gonvick
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
)

// CodeError is a numeric error classification. Each package owns a
// contiguous code range starting at one of the MinPkg constants below and
// registers a message function for it in an init().
type CodeError uint32

const (
	UnknownError CodeError = iota
)

// Package code ranges.
const (
	MinPkgStatus       CodeError = 0x0100
	MinPkgExchange     CodeError = 0x0200
	MinPkgHandler      CodeError = 0x0300
	MinPkgDispatcher   CodeError = 0x0400
	MinPkgProxy        CodeError = 0x0500
	MinPkgCertificates CodeError = 0x0600
	MinPkgServer       CodeError = 0x0700
	MinPkgConfig       CodeError = 0x0800
)

// Message resolves a CodeError of a registered range to a human message.
type Message func(code CodeError) string

var (
	msgMut sync.RWMutex
	msgFct = make(map[CodeError]Message)
)

// RegisterFctMessage registers the message function for the 0x0100 codes
// starting at the given range start. Later registration of the same range
// replaces the previous function.
func RegisterFctMessage(min CodeError, fct Message) {
	msgMut.Lock()
	defer msgMut.Unlock()
	msgFct[min] = fct
}

// ExistInMapMessage returns true if a message function covering the given
// code has already been registered.
func ExistInMapMessage(code CodeError) bool {
	msgMut.RLock()
	defer msgMut.RUnlock()

	for min := range msgFct {
		if code >= min && code < min+0x0100 {
			return true
		}
	}

	return false
}

func getMessage(code CodeError) string {
	msgMut.RLock()
	defer msgMut.RUnlock()

	for min, fct := range msgFct {
		if code >= min && code < min+0x0100 {
			if m := fct(code); m != "" {
				return m
			}
		}
	}

	return "unknown error"
}

// GetCodeString returns the registered message of a code without
// constructing an error.
func (c CodeError) GetCodeString() string {
	return getMessage(c)
}

// Error builds a coded error, optionally chaining parent causes. Nil
// parents are discarded. The caller's file and line are captured.
func (c CodeError) Error(parent ...error) Error {
	e := &errs{
		code: c,
		msg:  getMessage(c),
	}

	if _, file, line, ok := runtime.Caller(1); ok {
		e.file = file
		e.line = line
	}

	e.AddParent(parent...)
	return e
}

// ErrorParent is a convenience alias of Error kept for call sites that
// always chain a cause.
func (c CodeError) ErrorParent(parent ...error) Error {
	e := c.Error(parent...).(*errs)

	if _, file, line, ok := runtime.Caller(1); ok {
		e.file = file
		e.line = line
	}

	return e
}

// Error is the coded error contract exposed by this module. It remains a
// standard error and cooperates with errors.Is / errors.As through Unwrap.
type Error interface {
	error

	// Code returns the numeric classification of this error.
	Code() CodeError

	// IsCode returns true if this error carries the given code.
	IsCode(code CodeError) bool

	// AddParent chains one or more causes under this error. Nil values
	// are ignored.
	AddParent(parent ...error)

	// HasParent returns true if at least one cause is chained.
	HasParent() bool

	// Unwrap exposes the chained causes to the stdlib errors helpers.
	Unwrap() []error

	// GetFile returns the source file that created the error.
	GetFile() string

	// GetLine returns the source line that created the error.
	GetLine() int
}

type errs struct {
	code   CodeError
	msg    string
	file   string
	line   int
	parent []error
}

func (e *errs) Error() string {
	if !e.HasParent() {
		return e.msg
	}

	p := make([]string, 0, len(e.parent))
	for _, err := range e.parent {
		p = append(p, err.Error())
	}

	return fmt.Sprintf("%s: %s", e.msg, strings.Join(p, ", "))
}

func (e *errs) Code() CodeError {
	return e.code
}

func (e *errs) IsCode(code CodeError) bool {
	return e.code == code
}

func (e *errs) AddParent(parent ...error) {
	for _, p := range parent {
		if p != nil {
			e.parent = append(e.parent, p)
		}
	}
}

func (e *errs) HasParent() bool {
	return len(e.parent) > 0
}

func (e *errs) Unwrap() []error {
	return e.parent
}

func (e *errs) GetFile() string {
	return e.file
}

func (e *errs) GetLine() int {
	return e.line
}

// Is makes two coded errors equal when they carry the same code, so that
// errors.Is(err, SomeCode.Error()) works without identity.
func (e *errs) Is(target error) bool {
	t, ok := target.(Error)
	return ok && t.Code() == e.code
}

// IsCode reports whether err is a coded error carrying the given code.
func IsCode(err error, code CodeError) bool {
	e, ok := err.(Error)
	return ok && e.IsCode(code)
}
