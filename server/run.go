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

package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	libtls "github.com/KalevGonvick/hyper-line/certificates"
	libdsp "github.com/KalevGonvick/hyper-line/dispatcher"
	liblog "github.com/KalevGonvick/hyper-line/logger"
)

const timeoutShutdown = 10 * time.Second

// Run binds 0.0.0.0:<port> and serves connections until the context is
// cancelled or the process is interrupted, then shuts down gracefully.
// It returns nil on a graceful stop.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Logger == nil {
		cfg.Logger = liblog.Default()
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.AppContext == nil {
		cfg.AppContext = &cfg
	}

	dsp := libdsp.New(libdsp.Config{
		Bindings:   cfg.Bindings,
		AppContext: cfg.AppContext,
		Logger:     cfg.Logger,
		Metrics:    cfg.Metrics,
	})

	var seq uint64

	srv := &http.Server{
		Handler:  dsp,
		ErrorLog: log.New(cfg.Logger().WriterLevel(logrus.ErrorLevel), "", 0),
		ConnContext: func(cctx context.Context, c net.Conn) context.Context {
			id := atomic.AddUint64(&seq, 1)
			return libdsp.WithWorker(cctx, fmt.Sprintf("%s-%d", cfg.WorkerThreadName, id))
		},
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", cfg.Port))
	if err != nil {
		return ErrorListen.Error(err)
	}

	if cfg.WorkerThreads > 0 {
		ln = netutil.LimitListener(ln, cfg.WorkerThreads)
	}

	scheme := "http"

	if cfg.TLSEnabled {
		t, e := libtls.New(*cfg.TLSServer)
		if e != nil {
			_ = ln.Close()
			return e
		}

		srv.TLSConfig = t.ServerTLS()

		if e = http2.ConfigureServer(srv, &http2.Server{}); e != nil {
			_ = ln.Close()
			return ErrorHTTP2Configure.Error(e)
		}

		ln = tls.NewListener(ln, srv.TLSConfig)
		scheme = "https"
	} else {
		// Cleartext connections auto-detect HTTP/2 prior knowledge.
		srv.Handler = h2c.NewHandler(dsp, &http2.Server{})
	}

	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Logger().WithField("workers", cfg.WorkerThreads).
		Infof("starting to serve on %s://0.0.0.0:%d", scheme, cfg.Port)

	g, gctx := errgroup.WithContext(sctx)

	g.Go(func() error {
		if e := srv.Serve(ln); !errors.Is(e, http.ErrServerClosed) {
			return e
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shCtx, cnl := context.WithTimeout(context.Background(), timeoutShutdown)
		defer cnl()

		return srv.Shutdown(shCtx)
	})

	if err = g.Wait(); err != nil {
		cfg.Logger().Errorf("server stopped: %v", err)
		return ErrorServerServe.Error(err)
	}

	cfg.Logger().Info("server stopped")
	return nil
}
