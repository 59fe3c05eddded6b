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

import "reflect"

// Key tags an attachment slot. Two attachments collide only when both the
// key and the stored value type match; the value type is part of the map
// key, so the same Key can hold values of different types side by side
// without misinterpretation.
type Key uint32

// Well-known attachment keys set by the framework.
const (
	// KeyAppContext holds the shared application context handed to the
	// dispatcher at construction.
	KeyAppContext Key = iota + 1

	// KeyClientSrc holds the remote peer address (*net.TCPAddr).
	KeyClientSrc

	// KeyCachedBody holds the fully buffered inbound body ([]byte).
	KeyCachedBody

	// KeyHijack holds the hook taking over the raw client connection for
	// protocol upgrades.
	KeyHijack
)

// KeyUserBase is the first key value reserved for user-defined
// attachments.
const KeyUserBase Key = 0x1000

// attKey is the composite map key: tag plus the stable per-type identity
// of the stored value.
type attKey struct {
	key Key
	typ reflect.Type
}
