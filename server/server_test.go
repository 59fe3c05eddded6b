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

package server_test

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libtls "github.com/KalevGonvick/hyper-line/certificates"
	libxch "github.com/KalevGonvick/hyper-line/exchange"
	libhdl "github.com/KalevGonvick/hyper-line/handler"
	liblog "github.com/KalevGonvick/hyper-line/logger"
	libsrv "github.com/KalevGonvick/hyper-line/server"
)

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

// freePort grabs an ephemeral port and releases it for the server under
// test.
func freePort() int {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).ToNot(HaveOccurred())

	port := ln.Addr().(*net.TCPAddr).Port
	Expect(ln.Close()).ToNot(HaveOccurred())
	return port
}

func waitReady(url string, cli *http.Client) {
	Eventually(func() error {
		rsp, err := cli.Get(url)
		if err != nil {
			return err
		}
		_ = rsp.Body.Close()
		return nil
	}, 5*time.Second, 50*time.Millisecond).Should(Succeed())
}

var _ = Describe("[TC-SR] Server", func() {
	Describe("Builder", func() {
		It("[TC-SR-001] should apply the defaults", func() {
			cfg := libsrv.NewBuilder().Build()

			Expect(cfg.WorkerThreads).To(Equal(1))
			Expect(cfg.WorkerThreadName).To(Equal("WT"))
			Expect(cfg.Port).To(Equal(8080))
			Expect(cfg.TLSEnabled).To(BeFalse())
		})

		It("[TC-SR-002] should derive the tls flag from supplied material", func() {
			cfg := libsrv.NewBuilder().
				TLSServer(libtls.Config{}).
				Build()

			Expect(cfg.TLSEnabled).To(BeTrue())
			Expect(cfg.TLSServer).ToNot(BeNil())
		})

		It("[TC-SR-003] should keep the binding declaration order", func() {
			cfg := libsrv.NewBuilder().
				AddPath(libhdl.Binding{PathPrefix: "/a", Method: libhdl.MethodGet}).
				AddPath(libhdl.Binding{PathPrefix: "/b", Method: libhdl.MethodGet}).
				Build()

			Expect(cfg.Bindings).To(HaveLen(2))
			Expect(cfg.Bindings[0].PathPrefix).To(Equal("/a"))
			Expect(cfg.Bindings[1].PathPrefix).To(Equal("/b"))
		})
	})

	Describe("Config validation", func() {
		It("[TC-SR-010] should reject an out-of-range port", func() {
			cfg := libsrv.NewBuilder().Port(70000).Build()
			Expect(cfg.Validate()).To(HaveOccurred())
		})

		It("[TC-SR-011] should reject a missing worker name", func() {
			cfg := libsrv.NewBuilder().WorkerThreadName("").Build()
			Expect(cfg.Validate()).To(HaveOccurred())
		})

		It("[TC-SR-012] should accept the defaults", func() {
			Expect(libsrv.NewBuilder().Build().Validate()).ToNot(HaveOccurred())
		})
	})

	Describe("Run", func() {
		It("[TC-SR-020] should serve bindings until the context is cancelled", func() {
			port := freePort()

			cfg := libsrv.NewBuilder().
				Port(port).
				WorkerThreads(4).
				Logger(liblog.Discard()).
				AddPath(libhdl.Binding{
					PathPrefix: "/test",
					Method:     libhdl.MethodPost,
					Request:    libhdl.HTTPChain{echoHandler},
				}).
				Build()

			ctx, cancel := context.WithCancel(context.Background())

			done := make(chan error, 1)
			go func() {
				done <- libsrv.Run(ctx, cfg)
			}()

			base := "http://127.0.0.1:" + strconv.Itoa(port)
			waitReady(base+"/ready", http.DefaultClient)

			rsp, err := http.Post(base+"/test", "text/plain", strings.NewReader("hello"))
			Expect(err).ToNot(HaveOccurred())

			body, err := io.ReadAll(rsp.Body)
			Expect(err).ToNot(HaveOccurred())
			Expect(rsp.Body.Close()).ToNot(HaveOccurred())

			Expect(rsp.StatusCode).To(Equal(http.StatusOK))
			Expect(string(body)).To(Equal("hello"))

			cancel()
			Eventually(done, 5*time.Second).Should(Receive(BeNil()))
		})

		It("[TC-SR-021] should fail when tls is enabled without material", func() {
			cfg := libsrv.NewBuilder().Build()
			cfg.TLSEnabled = true

			Expect(libsrv.Run(context.Background(), cfg)).To(HaveOccurred())
		})
	})
})
