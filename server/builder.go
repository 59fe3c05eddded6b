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
	libtls "github.com/KalevGonvick/hyper-line/certificates"
	libhdl "github.com/KalevGonvick/hyper-line/handler"
	liblog "github.com/KalevGonvick/hyper-line/logger"
	libmet "github.com/KalevGonvick/hyper-line/metrics"
)

// Builder assembles a Config fluently. Build performs no validation
// beyond field presence; Run validates before serving.
type Builder struct {
	cfg Config
}

// NewBuilder starts from the defaults: one worker, prefix "WT", port
// 8080, no TLS.
func NewBuilder() *Builder {
	return &Builder{
		cfg: Config{
			WorkerThreads:    1,
			WorkerThreadName: "WT",
			Port:             8080,
		},
	}
}

// WorkerThreads sets the connection concurrency cap.
func (b *Builder) WorkerThreads(n int) *Builder {
	b.cfg.WorkerThreads = n
	return b
}

// WorkerThreadName sets the worker name prefix.
func (b *Builder) WorkerThreadName(name string) *Builder {
	b.cfg.WorkerThreadName = name
	return b
}

// Port sets the listening port.
func (b *Builder) Port(port int) *Builder {
	b.cfg.Port = port
	return b
}

// TLSServer supplies the server-side certificate material and enables
// TLS.
func (b *Builder) TLSServer(cfg libtls.Config) *Builder {
	b.cfg.TLSServer = &cfg
	b.cfg.TLSEnabled = true
	return b
}

// TLSClient supplies the client-side material for outbound proxying.
func (b *Builder) TLSClient(cfg libtls.Config) *Builder {
	b.cfg.TLSClient = &cfg
	return b
}

// AddPath appends a path binding; bindings keep their declaration order.
func (b *Builder) AddPath(binding libhdl.Binding) *Builder {
	b.cfg.Bindings = append(b.cfg.Bindings, binding)
	return b
}

// AppContext sets the shared application context attached to every
// exchange.
func (b *Builder) AppContext(v any) *Builder {
	b.cfg.AppContext = v
	return b
}

// Logger sets the logging provider.
func (b *Builder) Logger(fl liblog.FuncLog) *Builder {
	b.cfg.Logger = fl
	return b
}

// Metrics wires the dispatcher collectors.
func (b *Builder) Metrics(m *libmet.Exchange) *Builder {
	b.cfg.Metrics = m
	return b
}

// Build returns the assembled configuration.
func (b *Builder) Build() Config {
	return b.cfg
}
