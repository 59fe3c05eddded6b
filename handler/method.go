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

package handler

import (
	"net/http"
	"strings"
)

// Method is an HTTP request method. The zero value is not valid; use
// ParseMethod or one of the Method* constants below.
type Method string

const (
	MethodOptions Method = http.MethodOptions
	MethodGet     Method = http.MethodGet
	MethodPost    Method = http.MethodPost
	MethodPut     Method = http.MethodPut
	MethodDelete  Method = http.MethodDelete
	MethodHead    Method = http.MethodHead
	MethodTrace   Method = http.MethodTrace
	MethodConnect Method = http.MethodConnect
	MethodPatch   Method = http.MethodPatch
)

var methods = map[string]Method{
	"OPTIONS": MethodOptions,
	"GET":     MethodGet,
	"POST":    MethodPost,
	"PUT":     MethodPut,
	"DELETE":  MethodDelete,
	"HEAD":    MethodHead,
	"TRACE":   MethodTrace,
	"CONNECT": MethodConnect,
	"PATCH":   MethodPatch,
}

// ParseMethod maps a case-insensitive method name onto its Method. An
// unknown name yields ErrorMethodInvalid.
func ParseMethod(s string) (Method, error) {
	if m, ok := methods[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return m, nil
	}

	return "", ErrorMethodInvalid.Error(nil)
}

// IsValid returns true for one of the known request methods.
func (m Method) IsValid() bool {
	_, ok := methods[string(m)]
	return ok
}

func (m Method) String() string {
	return string(m)
}

// UnmarshalText lets Method decode from configuration documents.
func (m *Method) UnmarshalText(text []byte) error {
	v, err := ParseMethod(string(text))
	if err != nil {
		return err
	}

	*m = v
	return nil
}
