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

package proxy_test

import (
	"bufio"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libdsp "github.com/KalevGonvick/hyper-line/dispatcher"
	libhdl "github.com/KalevGonvick/hyper-line/handler"
	liblog "github.com/KalevGonvick/hyper-line/logger"
	libprx "github.com/KalevGonvick/hyper-line/proxy"
)

func hostPort(rawURL string) (string, int) {
	host, port, err := net.SplitHostPort(strings.TrimPrefix(rawURL, "http://"))
	Expect(err).ToNot(HaveOccurred())

	p, err := strconv.Atoi(port)
	Expect(err).ToNot(HaveOccurred())

	return host, p
}

func newProxyDispatcher(method libhdl.Method, prefix string, cfg libprx.Config) libdsp.Dispatcher {
	cfg.Logger = liblog.Discard()

	h, err := libprx.New(cfg)
	Expect(err).ToNot(HaveOccurred())

	return libdsp.New(libdsp.Config{
		Logger: liblog.Discard(),
		Bindings: []libhdl.Binding{
			{PathPrefix: prefix, Method: method, Request: libhdl.HTTPChain{h}},
		},
	})
}

var _ = Describe("[TC-PX] Proxy", func() {
	Describe("Config", func() {
		It("[TC-PX-001] should reject a config without a destination", func() {
			_, err := libprx.New(libprx.Config{})
			Expect(err).To(HaveOccurred())
		})

		It("[TC-PX-002] should reject an out-of-range port", func() {
			_, err := libprx.New(libprx.Config{
				DestinationHost: "127.0.0.1",
				DestinationPort: 70000,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Forwarding", func() {
		It("[TC-PX-010] should relay the exchange and sanitize the forwarded headers", func() {
			var (
				seenXFF    string
				seenHop    string
				seenKeep   string
				seenPath   string
				seenAccept string
				seenBody   []byte
			)

			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenXFF = r.Header.Get("X-Forwarded-For")
				seenHop = r.Header.Get("X-Hop")
				seenKeep = r.Header.Get("Keep-Alive")
				seenPath = r.URL.Path
				seenAccept = r.Header.Get("Accept")
				seenBody, _ = io.ReadAll(r.Body)

				w.Header().Set("X-Upstream", "yes")
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte("upstream-body"))
			}))
			defer upstream.Close()

			host, port := hostPort(upstream.URL)

			d := newProxyDispatcher(libhdl.MethodPost, "/api", libprx.Config{
				DestinationHost: host,
				DestinationPort: port,
			})

			req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader("data"))
			req.Header.Set("X-Forwarded-For", "10.0.0.1")
			req.Header.Set("Connection", "X-Hop")
			req.Header.Set("X-Hop", "1")
			req.Header.Set("Keep-Alive", "timeout=5")
			req.Header.Set("Accept", "text/plain")

			w := httptest.NewRecorder()
			d.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(w.Body.String()).To(Equal("upstream-body"))
			Expect(w.Header().Get("X-Upstream")).To(Equal("yes"))

			Expect(seenPath).To(Equal("/api/items"))
			Expect(seenBody).To(Equal([]byte("data")))
			Expect(seenAccept).To(Equal("text/plain"))
			Expect(seenHop).To(BeEmpty())
			Expect(seenKeep).To(BeEmpty())

			// The client ip is the last comma-separated entry.
			parts := strings.Split(seenXFF, ",")
			Expect(parts).To(HaveLen(2))
			Expect(strings.TrimSpace(parts[0])).To(Equal("10.0.0.1"))
			Expect(strings.TrimSpace(parts[1])).To(Equal("192.0.2.1"))
		})

		It("[TC-PX-011] should merge the forward base query into the request query", func() {
			var seenQuery string

			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenQuery = r.URL.RawQuery
				w.WriteHeader(http.StatusOK)
			}))
			defer upstream.Close()

			host, port := hostPort(upstream.URL)

			d := newProxyDispatcher(libhdl.MethodGet, "/", libprx.Config{
				DestinationHost: host,
				DestinationPort: port,
				ForwardBase:     upstream.URL + "/?a=1",
			})

			req := httptest.NewRequest(http.MethodGet, "/x?a=2&b=3", nil)
			w := httptest.NewRecorder()
			d.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(seenQuery).To(Equal("a=1&b=3"))
		})

		It("[TC-PX-012] should fail the exchange when the upstream is unreachable", func() {
			d := newProxyDispatcher(libhdl.MethodGet, "/", libprx.Config{
				DestinationHost: "127.0.0.1",
				DestinationPort: 1,
			})

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			w := httptest.NewRecorder()
			d.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Upgrade tunnel", func() {
		It("[TC-PX-020] should splice both streams after the upstream switched protocols", func() {
			// Raw upstream: HTTP/1 handshake by hand, then a byte echo.
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = ln.Close()
			}()

			go func() {
				conn, e := ln.Accept()
				if e != nil {
					return
				}
				defer func() {
					_ = conn.Close()
				}()

				br := bufio.NewReader(conn)
				req, e := http.ReadRequest(br)
				if e != nil {
					return
				}

				if req.Header.Get("Upgrade") != "websocket" {
					_, _ = io.WriteString(conn, "HTTP/1.1 400 Bad Request\r\n\r\n")
					return
				}

				_, _ = io.WriteString(conn,
					"HTTP/1.1 101 Switching Protocols\r\n"+
						"Upgrade: websocket\r\n"+
						"Connection: Upgrade\r\n\r\n")

				_, _ = io.Copy(conn, br)
			}()

			addr := ln.Addr().(*net.TCPAddr)

			h, err := libprx.New(libprx.Config{
				DestinationHost: addr.IP.String(),
				DestinationPort: addr.Port,
				Logger:          liblog.Discard(),
			})
			Expect(err).ToNot(HaveOccurred())

			front := httptest.NewServer(libdsp.New(libdsp.Config{
				Logger: liblog.Discard(),
				Bindings: []libhdl.Binding{
					{PathPrefix: "/ws", Method: libhdl.MethodGet, Request: libhdl.HTTPChain{h}},
				},
			}))
			defer front.Close()

			cli, err := net.Dial("tcp", strings.TrimPrefix(front.URL, "http://"))
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = cli.Close()
			}()

			Expect(cli.SetDeadline(time.Now().Add(5 * time.Second))).ToNot(HaveOccurred())

			_, err = io.WriteString(cli,
				"GET /ws HTTP/1.1\r\n"+
					"Host: front\r\n"+
					"Connection: upgrade\r\n"+
					"Upgrade: websocket\r\n\r\n")
			Expect(err).ToNot(HaveOccurred())

			cr := bufio.NewReader(cli)

			rsp, err := http.ReadResponse(cr, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(rsp.StatusCode).To(Equal(http.StatusSwitchingProtocols))

			// Bytes written on one side appear on the other.
			_, err = io.WriteString(cli, "ping\n")
			Expect(err).ToNot(HaveOccurred())

			line, err := cr.ReadString('\n')
			Expect(err).ToNot(HaveOccurred())
			Expect(line).To(Equal("ping\n"))
		})

		It("[TC-PX-021] should fail the exchange when the upstream refuses the upgrade", func() {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			}))
			defer upstream.Close()

			host, port := hostPort(upstream.URL)

			front := httptest.NewServer(newProxyDispatcher(libhdl.MethodGet, "/ws", libprx.Config{
				DestinationHost: host,
				DestinationPort: port,
			}))
			defer front.Close()

			cli, err := net.Dial("tcp", strings.TrimPrefix(front.URL, "http://"))
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = cli.Close()
			}()

			Expect(cli.SetDeadline(time.Now().Add(5 * time.Second))).ToNot(HaveOccurred())

			_, err = io.WriteString(cli,
				"GET /ws HTTP/1.1\r\n"+
					"Host: front\r\n"+
					"Connection: upgrade\r\n"+
					"Upgrade: websocket\r\n\r\n")
			Expect(err).ToNot(HaveOccurred())

			rsp, err := http.ReadResponse(bufio.NewReader(cli), nil)
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = rsp.Body.Close()
			}()

			Expect(rsp.StatusCode).To(Equal(http.StatusInternalServerError))
		})
	})
})
