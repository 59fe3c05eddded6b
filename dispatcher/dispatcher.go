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

package dispatcher

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	libxch "github.com/KalevGonvick/hyper-line/exchange"
	libhdl "github.com/KalevGonvick/hyper-line/handler"
	liblog "github.com/KalevGonvick/hyper-line/logger"
	libmet "github.com/KalevGonvick/hyper-line/metrics"
	libsts "github.com/KalevGonvick/hyper-line/status"
)

// defaultMaxBodyBytes guards the in-memory buffering of inbound bodies
// when the config does not set a limit.
const defaultMaxBodyBytes int64 = 32 << 20

// Config assembles a dispatcher.
type Config struct {
	// Bindings is the ordered path binding table; the first match wins.
	Bindings []libhdl.Binding

	// AppContext is the shared application context attached to every
	// exchange under exchange.KeyAppContext.
	AppContext any

	// Logger provides the logging entry point; nil means the process
	// default.
	Logger liblog.FuncLog

	// Metrics receives one observation per dispatched exchange; nil
	// disables collection.
	Metrics *libmet.Exchange

	// MaxBodyBytes caps the buffered inbound body; zero applies the
	// default of 32 MiB.
	MaxBodyBytes int64
}

// Dispatcher matches requests to a binding, drives both handler chains
// over a fresh exchange and materializes the stored output.
type Dispatcher interface {
	http.Handler
}

// New builds the dispatcher for the given configuration.
func New(cfg Config) Dispatcher {
	if cfg.Logger == nil {
		cfg.Logger = liblog.Default()
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}

	return &dsp{cfg: cfg}
}

type dsp struct {
	cfg Config
}

func (o *dsp) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		start   = time.Now()
		outcome = libmet.OutcomeMatched
		ent     = o.entry(r)
	)

	defer func() {
		o.cfg.Metrics.Observe(outcome, time.Since(start))
	}()

	bnd, ok := libhdl.Match(o.cfg.Bindings, r.Method, r.URL.Path)
	if !ok {
		outcome = libmet.OutcomeUnmatched
		ent.WithField("path", r.URL.Path).Debug("no binding matches")
		w.WriteHeader(http.StatusNotFound)
		return
	}

	body, err := o.bufferBody(w, r)
	if err != nil {
		outcome = libmet.OutcomeFailed
		ent.WithField("path", r.URL.Path).Errorf("buffering request body: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	x := o.newExchange(w, r, body)

	if err = o.runChain(r, x, bnd.Request); err != nil {
		outcome = libmet.OutcomeFailed
		ent.Errorf("request chain failed: %v", err)
		o.fail(w, x)
		return
	}

	if err = o.runChain(r, x, bnd.Response); err != nil {
		outcome = libmet.OutcomeFailed
		ent.Errorf("response chain failed: %v", err)
		o.fail(w, x)
		return
	}

	// A handler that consumed the output owns the connection now
	// (protocol upgrade); nothing further may be written.
	if x.Status().AnyFlags(libsts.OutputConsumed) {
		return
	}

	out, err := x.ConsumeOutput()
	if err != nil {
		outcome = libmet.OutcomeFailed
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	o.write(w, out, ent)
}

// bufferBody materializes the inbound body in memory so handlers can
// replay it.
func (o *dsp) bufferBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	defer func() {
		_ = r.Body.Close()
	}()

	return io.ReadAll(http.MaxBytesReader(w, r.Body, o.cfg.MaxBodyBytes))
}

func (o *dsp) newExchange(w http.ResponseWriter, r *http.Request, body []byte) *libxch.HTTP {
	x := libxch.NewHTTP(libxch.WithLogger[*http.Request, *http.Response](o.cfg.Logger))

	libxch.Attach[any](x, libxch.KeyAppContext, o.cfg.AppContext)
	libxch.Attach(x, libxch.KeyCachedBody, body)

	if src := remoteAddr(r); src != nil {
		libxch.Attach(x, libxch.KeyClientSrc, src)
	}

	if hj, ok := w.(http.Hijacker); ok {
		libxch.Attach[libhdl.HijackFunc](x, libxch.KeyHijack, hj.Hijack)
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	r.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	r.ContentLength = int64(len(body))

	x.Mark(libsts.InputBuffered)
	x.SaveInput(r)

	return x
}

// runChain drives the handlers sequentially; the first failure stops the
// chain.
func (o *dsp) runChain(r *http.Request, x *libxch.HTTP, chain libhdl.HTTPChain) error {
	for _, h := range chain {
		if h == nil {
			continue
		}

		if err := h.Process(r.Context(), x); err != nil {
			return err
		}
	}

	return nil
}

// fail answers 500 unless a handler already took the connection over.
func (o *dsp) fail(w http.ResponseWriter, x *libxch.HTTP) {
	if x.Status().AnyFlags(libsts.OutputConsumed) {
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
}

func (o *dsp) write(w http.ResponseWriter, out *http.Response, ent *logrus.Entry) {
	if out == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	for k, vv := range out.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}

	w.WriteHeader(out.StatusCode)

	if out.Body != nil {
		if _, err := io.Copy(w, out.Body); err != nil {
			ent.Errorf("writing response body: %v", err)
		}
		_ = out.Body.Close()
	}
}

func (o *dsp) entry(r *http.Request) *logrus.Entry {
	return o.cfg.Logger().WithFields(logrus.Fields{
		liblog.FieldWorker: WorkerFromContext(r.Context()),
		liblog.FieldRemote: r.RemoteAddr,
	})
}

func remoteAddr(r *http.Request) *net.TCPAddr {
	host, port, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
		port = "0"
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return nil
	}

	p, _ := strconv.Atoi(port)
	return &net.TCPAddr{IP: ip, Port: p}
}
