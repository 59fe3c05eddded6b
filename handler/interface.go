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
	"bufio"
	"context"
	"net"
	"net/http"

	libxch "github.com/KalevGonvick/hyper-line/exchange"
)

// Handler drives an exchange one step forward. Implementations are shared
// across requests and goroutines: they carry no per-request state outside
// the exchange and must be safe for concurrent use. A non-nil error marks
// the chain step as failed; the dispatcher skips the remaining handlers
// of that chain and answers 500.
type Handler[I, O any] interface {
	Process(ctx context.Context, x *libxch.Exchange[I, O]) error
}

// HandlerFunc adapts a function to the Handler contract.
type HandlerFunc[I, O any] func(ctx context.Context, x *libxch.Exchange[I, O]) error

// Process implements Handler.
func (f HandlerFunc[I, O]) Process(ctx context.Context, x *libxch.Exchange[I, O]) error {
	return f(ctx, x)
}

// Chain is an ordered sequence of handlers run for one side of an
// exchange. Composition is expressed by ordering, never by wrapping.
type Chain[I, O any] []Handler[I, O]

// HTTP shorthand types for the default message pair.
type (
	HTTP      = Handler[*http.Request, *http.Response]
	HTTPFunc  = HandlerFunc[*http.Request, *http.Response]
	HTTPChain = Chain[*http.Request, *http.Response]
)

// HijackFunc takes over the raw client connection of an HTTP exchange for
// protocol upgrades. The dispatcher stores it under exchange.KeyHijack
// when the transport supports it; once invoked, the caller owns the
// connection and the dispatcher writes nothing further.
type HijackFunc func() (net.Conn, *bufio.ReadWriter, error)
