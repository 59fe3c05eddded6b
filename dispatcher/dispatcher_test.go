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

package dispatcher_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libdsp "github.com/KalevGonvick/hyper-line/dispatcher"
	libxch "github.com/KalevGonvick/hyper-line/exchange"
	libhdl "github.com/KalevGonvick/hyper-line/handler"
	liblog "github.com/KalevGonvick/hyper-line/logger"
)

// echoHandler consumes the input and stores a response whose body is the
// inbound body.
var echoHandler = libhdl.HTTPFunc(func(ctx context.Context, x *libxch.HTTP) error {
	req, err := x.ConsumeInput()
	if err != nil {
		return err
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}

	return x.SaveOutput(&http.Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       io.NopCloser(bytes.NewReader(body)),
	})
})

func serve(d libdsp.Dispatcher, method, target, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, rd)
	w := httptest.NewRecorder()
	d.ServeHTTP(w, req)
	return w
}

var _ = Describe("[TC-DP] Dispatcher", func() {
	Describe("Binding miss", func() {
		It("[TC-DP-001] should answer 404 with an empty body when nothing matches", func() {
			d := libdsp.New(libdsp.Config{
				Logger: liblog.Discard(),
				Bindings: []libhdl.Binding{
					{PathPrefix: "/api", Method: libhdl.MethodPost, Request: libhdl.HTTPChain{echoHandler}},
				},
			})

			w := serve(d, http.MethodGet, "/missing", "")
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.Len()).To(BeZero())
		})
	})

	Describe("Echo round trip", func() {
		It("[TC-DP-002] should return the request body through the echo chain", func() {
			d := libdsp.New(libdsp.Config{
				Logger: liblog.Discard(),
				Bindings: []libhdl.Binding{
					{PathPrefix: "/test", Method: libhdl.MethodPost, Request: libhdl.HTTPChain{echoHandler}},
				},
			})

			w := serve(d, http.MethodPost, "/test", "hello")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(Equal("hello"))
		})
	})

	Describe("Chain failure", func() {
		It("[TC-DP-003] should answer 500 and skip the remaining request handlers", func() {
			var after int

			failing := libhdl.HTTPFunc(func(ctx context.Context, x *libxch.HTTP) error {
				return errors.New("handler failure")
			})
			counting := libhdl.HTTPFunc(func(ctx context.Context, x *libxch.HTTP) error {
				after++
				return nil
			})

			d := libdsp.New(libdsp.Config{
				Logger: liblog.Discard(),
				Bindings: []libhdl.Binding{
					{PathPrefix: "/", Method: libhdl.MethodGet, Request: libhdl.HTTPChain{failing, counting}},
				},
			})

			w := serve(d, http.MethodGet, "/", "")
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(after).To(BeZero())
		})

		It("[TC-DP-004] should not run the response chain after a request chain failure", func() {
			var responseRan bool

			failing := libhdl.HTTPFunc(func(ctx context.Context, x *libxch.HTTP) error {
				return errors.New("handler failure")
			})
			observer := libhdl.HTTPFunc(func(ctx context.Context, x *libxch.HTTP) error {
				responseRan = true
				return nil
			})

			d := libdsp.New(libdsp.Config{
				Logger: liblog.Discard(),
				Bindings: []libhdl.Binding{
					{
						PathPrefix: "/",
						Method:     libhdl.MethodGet,
						Request:    libhdl.HTTPChain{failing},
						Response:   libhdl.HTTPChain{observer},
					},
				},
			})

			w := serve(d, http.MethodGet, "/", "")
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(responseRan).To(BeFalse())
		})

		It("[TC-DP-005] should answer 500 when a response chain handler fails", func() {
			failing := libhdl.HTTPFunc(func(ctx context.Context, x *libxch.HTTP) error {
				return errors.New("handler failure")
			})

			d := libdsp.New(libdsp.Config{
				Logger: liblog.Discard(),
				Bindings: []libhdl.Binding{
					{
						PathPrefix: "/",
						Method:     libhdl.MethodGet,
						Request:    libhdl.HTTPChain{echoHandler},
						Response:   libhdl.HTTPChain{failing},
					},
				},
			})

			w := serve(d, http.MethodGet, "/", "")
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Chain ordering", func() {
		It("[TC-DP-006] should run every request handler before any response handler", func() {
			var order []string

			step := func(name string) libhdl.HTTPFunc {
				return func(ctx context.Context, x *libxch.HTTP) error {
					order = append(order, name)
					return nil
				}
			}

			d := libdsp.New(libdsp.Config{
				Logger: liblog.Discard(),
				Bindings: []libhdl.Binding{
					{
						PathPrefix: "/",
						Method:     libhdl.MethodGet,
						Request:    libhdl.HTTPChain{step("req-1"), step("req-2")},
						Response:   libhdl.HTTPChain{step("rsp-1"), step("rsp-2")},
					},
				},
			})

			w := serve(d, http.MethodGet, "/", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(order).To(Equal([]string{"req-1", "req-2", "rsp-1", "rsp-2"}))
		})
	})

	Describe("Exchange wiring", func() {
		It("[TC-DP-007] should attach the client source, the app context and the buffered body", func() {
			type appCtx struct{ name string }

			var (
				gotSrc  bool
				gotApp  appCtx
				gotBody []byte
			)

			inspect := libhdl.HTTPFunc(func(ctx context.Context, x *libxch.HTTP) error {
				_, gotSrc = libxch.Attachment[*net.TCPAddr](x, libxch.KeyClientSrc)

				if v, ok := libxch.Attachment[any](x, libxch.KeyAppContext); ok {
					if a, ok := v.(appCtx); ok {
						gotApp = a
					}
				}

				gotBody, _ = libxch.Attachment[[]byte](x, libxch.KeyCachedBody)
				return nil
			})

			d := libdsp.New(libdsp.Config{
				Logger:     liblog.Discard(),
				AppContext: appCtx{name: "edge"},
				Bindings: []libhdl.Binding{
					{PathPrefix: "/", Method: libhdl.MethodPost, Request: libhdl.HTTPChain{inspect}},
				},
			})

			serve(d, http.MethodPost, "/", "payload")
			Expect(gotSrc).To(BeTrue())
			Expect(gotApp.name).To(Equal("edge"))
			Expect(gotBody).To(Equal([]byte("payload")))
		})

		It("[TC-DP-008] should transplant the status code into the written response", func() {
			teapot := libhdl.HTTPFunc(func(ctx context.Context, x *libxch.HTTP) error {
				x.SetCode(http.StatusTeapot)
				return nil
			})

			d := libdsp.New(libdsp.Config{
				Logger: liblog.Discard(),
				Bindings: []libhdl.Binding{
					{PathPrefix: "/", Method: libhdl.MethodGet, Request: libhdl.HTTPChain{teapot}},
				},
			})

			w := serve(d, http.MethodGet, "/", "")
			Expect(w.Code).To(Equal(http.StatusTeapot))
		})

		It("[TC-DP-009] should leave the connection alone once a handler consumed the output", func() {
			hijacking := libhdl.HTTPFunc(func(ctx context.Context, x *libxch.HTTP) error {
				x.SetCode(http.StatusSwitchingProtocols)
				_, err := x.ConsumeOutput()
				return err
			})

			d := libdsp.New(libdsp.Config{
				Logger: liblog.Discard(),
				Bindings: []libhdl.Binding{
					{PathPrefix: "/", Method: libhdl.MethodGet, Request: libhdl.HTTPChain{hijacking}},
				},
			})

			w := serve(d, http.MethodGet, "/", "")

			// The recorder keeps its zero state: the dispatcher wrote
			// neither a status nor a body.
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.Len()).To(BeZero())
			Expect(w.Result().Header).To(BeEmpty())
		})

		It("[TC-DP-010] should let the input replay through the request body", func() {
			double := libhdl.HTTPFunc(func(ctx context.Context, x *libxch.HTTP) error {
				req, err := x.Input()
				if err != nil {
					return err
				}

				first, err := io.ReadAll(req.Body)
				if err != nil {
					return err
				}

				rd, err := req.GetBody()
				if err != nil {
					return err
				}

				second, err := io.ReadAll(rd)
				if err != nil {
					return err
				}

				if !bytes.Equal(first, second) {
					return errors.New("replayed body differs")
				}

				return x.SaveOutput(&http.Response{
					StatusCode: http.StatusOK,
					Header:     make(http.Header),
					Body:       io.NopCloser(bytes.NewReader(second)),
				})
			})

			d := libdsp.New(libdsp.Config{
				Logger: liblog.Discard(),
				Bindings: []libhdl.Binding{
					{PathPrefix: "/", Method: libhdl.MethodPost, Request: libhdl.HTTPChain{double}},
				},
			})

			w := serve(d, http.MethodPost, "/", "replay")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(Equal("replay"))
		})
	})
})
