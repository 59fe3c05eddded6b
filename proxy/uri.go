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

package proxy

import "strings"

// ForwardURI fuses the forward base with the inbound request path and
// query. One trailing slash of the base path is dropped before the
// inbound path is appended. When both sides carry a query, every
// forward-side pair is kept and only the request-side keys that do not
// collide with a forward-side key are added.
func ForwardURI(forwardBase, path, query string) string {
	base, baseQuery, _ := strings.Cut(forwardBase, "?")
	base = strings.TrimSuffix(base, "/")

	var b strings.Builder
	b.Grow(len(base) + len(path) + len(baseQuery) + len(query) + 2)
	b.WriteString(base)
	b.WriteString(path)

	if baseQuery == "" && query == "" {
		return b.String()
	}

	b.WriteByte('?')

	if baseQuery == "" {
		b.WriteString(query)
		return b.String()
	}

	b.WriteString(baseQuery)

	baseKeys := make(map[string]struct{})
	for _, pair := range strings.Split(baseQuery, "&") {
		k, _, _ := strings.Cut(pair, "=")
		baseKeys[k] = struct{}{}
	}

	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}

		k, v, _ := strings.Cut(pair, "=")
		if _, ok := baseKeys[k]; ok {
			continue
		}

		b.WriteByte('&')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
	}

	return strings.TrimSuffix(b.String(), "&")
}
