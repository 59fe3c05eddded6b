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

import "strings"

// Binding associates one method and URL path prefix with the request and
// response chains run for matching exchanges. Bindings are evaluated in
// declaration order and the first match wins.
type Binding struct {
	// PathPrefix is the literal, case-sensitive prefix the request URI
	// path must begin with.
	PathPrefix string

	// Method must equal the request method exactly.
	Method Method

	// Request is the chain run before a response is produced.
	Request HTTPChain

	// Response is the chain run after the request chain completed.
	Response HTTPChain
}

// Matches reports whether the binding applies to the given method and
// request URI path. The prefix is literal: no wildcard, no template
// capture.
func (b Binding) Matches(method, path string) bool {
	return string(b.Method) == method && strings.HasPrefix(path, b.PathPrefix)
}

// Match walks the bindings in order and returns the first one matching
// the method and path.
func Match(bindings []Binding, method, path string) (Binding, bool) {
	for _, b := range bindings {
		if b.Matches(method, path) {
			return b, true
		}
	}

	return Binding{}, false
}
