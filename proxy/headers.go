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

import (
	"net/http"
	"strings"
)

const (
	headerConnection   = "Connection"
	headerUpgrade      = "Upgrade"
	headerTE           = "Te"
	headerForwardedFor = "X-Forwarded-For"
)

// hopHeaders are defined to apply to a single transport hop and must not
// be forwarded by an intermediary (RFC 7230 section 6.1).
var hopHeaders = []string{
	headerConnection,
	headerTE,
	"Trailer",
	"Keep-Alive",
	"Proxy-Connection",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Transfer-Encoding",
	headerUpgrade,
}

// upgradeType returns the Upgrade token when the Connection header lists
// an upgrade, else the empty string.
func upgradeType(h http.Header) string {
	if !headerListContains(h, headerConnection, "upgrade") {
		return ""
	}

	return h.Get(headerUpgrade)
}

// headerListContains reports whether a comma-separated header contains
// the given token, case-insensitive.
func headerListContains(h http.Header, name, token string) bool {
	for _, v := range h.Values(name) {
		for _, e := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(e), token) {
				return true
			}
		}
	}

	return false
}

// removeConnectionListed strips every header named by the Connection
// header itself.
func removeConnectionListed(h http.Header) {
	for _, v := range h.Values(headerConnection) {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				h.Del(name)
			}
		}
	}
}

// removeHopHeaders strips the fixed hop-by-hop set.
func removeHopHeaders(h http.Header) {
	for _, name := range hopHeaders {
		h.Del(name)
	}
}

// sanitizeRequest applies the proxy request transform in place: connection
// listed then hop-by-hop removal, TE trailers preservation, upgrade
// re-injection, forwarded-for composition.
func sanitizeRequest(h http.Header, clientIP, upgrade string) {
	teTrailers := headerListContains(h, headerTE, "trailers")

	removeConnectionListed(h)
	removeHopHeaders(h)

	if teTrailers {
		h.Set(headerTE, "trailers")
	}

	if upgrade != "" {
		h.Set(headerUpgrade, upgrade)
		h.Set(headerConnection, "UPGRADE")
	}

	if clientIP != "" {
		if prior := h.Get(headerForwardedFor); prior != "" {
			h.Set(headerForwardedFor, prior+", "+clientIP)
		} else {
			h.Set(headerForwardedFor, clientIP)
		}
	}
}

// sanitizeResponse strips the hop-by-hop and connection-listed headers of
// an upstream response before it becomes the exchange output.
func sanitizeResponse(h http.Header) {
	removeConnectionListed(h)
	removeHopHeaders(h)
}
