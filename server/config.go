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
	"fmt"

	libval "github.com/go-playground/validator/v10"

	libtls "github.com/KalevGonvick/hyper-line/certificates"
	libhdl "github.com/KalevGonvick/hyper-line/handler"
	liblog "github.com/KalevGonvick/hyper-line/logger"
	libmet "github.com/KalevGonvick/hyper-line/metrics"
)

// Config is the immutable server assembly produced by the Builder. It is
// shared by reference with every connection task and must not be mutated
// after Run has been called.
type Config struct {
	// WorkerThreads caps the number of connections served concurrently.
	WorkerThreads int `mapstructure:"worker_threads" json:"worker_threads" yaml:"worker_threads" toml:"worker_threads" validate:"gte=1"`

	// WorkerThreadName prefixes the per-connection worker names
	// ("<prefix>-<id>") carried in log fields.
	WorkerThreadName string `mapstructure:"worker_thread_name" json:"worker_thread_name" yaml:"worker_thread_name" toml:"worker_thread_name" validate:"required"`

	// Port is the TCP port bound on 0.0.0.0.
	Port int `mapstructure:"port" json:"port" yaml:"port" toml:"port" validate:"gte=0,lte=65535"`

	// TLSEnabled is derived by the builder from the presence of server
	// TLS material.
	TLSEnabled bool `mapstructure:"tls_enabled" json:"tls_enabled" yaml:"tls_enabled" toml:"tls_enabled"`

	// TLSServer is the server-side certificate material; required when
	// TLSEnabled.
	TLSServer *libtls.Config `mapstructure:"tls_server" json:"tls_server" yaml:"tls_server" toml:"tls_server"`

	// TLSClient is the client-side material handed to outbound proxy
	// handlers built from configuration.
	TLSClient *libtls.Config `mapstructure:"tls_client" json:"tls_client" yaml:"tls_client" toml:"tls_client"`

	// Bindings is the ordered path binding table of the dispatcher.
	Bindings []libhdl.Binding `mapstructure:"-" json:"-" yaml:"-" toml:"-"`

	// AppContext is attached to every exchange under
	// exchange.KeyAppContext.
	AppContext any `mapstructure:"-" json:"-" yaml:"-" toml:"-"`

	// Logger provides the logging entry point; nil means the process
	// default.
	Logger liblog.FuncLog `mapstructure:"-" json:"-" yaml:"-" toml:"-"`

	// Metrics receives the dispatcher observations; nil disables them.
	Metrics *libmet.Exchange `mapstructure:"-" json:"-" yaml:"-" toml:"-"`
}

// Validate checks the structural constraints of the config.
func (c Config) Validate() error {
	err := ErrorServerValidate.Error(nil)

	if er := libval.New().Struct(c); er != nil {
		if e, ok := er.(*libval.InvalidValidationError); ok {
			err.AddParent(e)
		}

		if ve, ok := er.(libval.ValidationErrors); ok {
			for _, e := range ve {
				//nolint #goerr113
				err.AddParent(fmt.Errorf("config field '%s' is not validated by constraint '%s'", e.Namespace(), e.ActualTag()))
			}
		}
	}

	if c.TLSEnabled && c.TLSServer == nil {
		err.AddParent(ErrorTLSMisconfigured.Error(nil))
	}

	if !err.HasParent() {
		return nil
	}

	return err
}
