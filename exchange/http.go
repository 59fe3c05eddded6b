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

package exchange

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// HTTP is the exchange of the default message pair: an inbound
// *http.Request and an outbound *http.Response.
type HTTP = Exchange[*http.Request, *http.Response]

// HTTPView is the listener view of an HTTP exchange.
type HTTPView = View[*http.Request, *http.Response]

// HTTPListener observes one lifecycle edge of an HTTP exchange.
type HTTPListener = Listener[*http.Request, *http.Response]

// NewHTTP creates an HTTP exchange with the default status applier: on
// output consumption the response code of the status word overwrites the
// status line of the outgoing response, and a nil output materializes as
// an empty response carrying that code.
func NewHTTP(opt ...Option[*http.Request, *http.Response]) *HTTP {
	base := []Option[*http.Request, *http.Response]{
		WithStatusApplier[*http.Request, *http.Response](ApplyHTTPStatus),
	}

	return New[*http.Request, *http.Response](append(base, opt...)...)
}

// ApplyHTTPStatus is the default StatusApplier of HTTP exchanges.
func ApplyHTTPStatus(out *http.Response, code int) *http.Response {
	if out == nil {
		out = &http.Response{
			Proto:      "HTTP/1.1",
			ProtoMajor: 1,
			ProtoMinor: 1,
			Header:     make(http.Header),
			Body:       io.NopCloser(bytes.NewReader(nil)),
		}
	}

	out.StatusCode = code
	out.Status = fmt.Sprintf("%d %s", code, http.StatusText(code))
	return out
}
