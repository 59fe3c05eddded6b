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

// Package config loads a declarative server document from a file and
// materializes it into a runnable server configuration. Handler chains
// reference registered handler names, so the registry must be populated
// before Load is called.
//
// The file format follows the extension: JSON, YAML or TOML.
package config

import (
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	libtls "github.com/KalevGonvick/hyper-line/certificates"
	libhdl "github.com/KalevGonvick/hyper-line/handler"
	liblog "github.com/KalevGonvick/hyper-line/logger"
	libsrv "github.com/KalevGonvick/hyper-line/server"
)

// Document is the declarative on-disk shape of a server.
type Document struct {
	// Port is the TCP port bound on 0.0.0.0.
	Port int `mapstructure:"port" json:"port" yaml:"port" toml:"port"`

	// WorkerThreads caps the number of connections served concurrently.
	WorkerThreads int `mapstructure:"worker_threads" json:"worker_threads" yaml:"worker_threads" toml:"worker_threads"`

	// WorkerThreadName prefixes the per-connection worker names.
	WorkerThreadName string `mapstructure:"worker_thread_name" json:"worker_thread_name" yaml:"worker_thread_name" toml:"worker_thread_name"`

	// Log configures the console logger of the server.
	Log liblog.Options `mapstructure:"log" json:"log" yaml:"log" toml:"log"`

	// TLSServer enables TLS with the referenced certificate material.
	TLSServer *libtls.Config `mapstructure:"tls_server" json:"tls_server" yaml:"tls_server" toml:"tls_server"`

	// TLSClient names the outbound material for proxy handlers.
	TLSClient *libtls.Config `mapstructure:"tls_client" json:"tls_client" yaml:"tls_client" toml:"tls_client"`

	// Paths is the ordered binding table; chains reference registered
	// handler names.
	Paths []PathDocument `mapstructure:"paths" json:"paths" yaml:"paths" toml:"paths"`
}

// PathDocument is one declarative path binding.
type PathDocument struct {
	Path     string   `mapstructure:"path" json:"path" yaml:"path" toml:"path"`
	Method   string   `mapstructure:"method" json:"method" yaml:"method" toml:"method"`
	Request  []string `mapstructure:"request" json:"request" yaml:"request" toml:"request"`
	Response []string `mapstructure:"response" json:"response" yaml:"response" toml:"response"`
}

// Load reads the document and resolves it against the registry. A nil
// registry uses the process default one.
func Load(file string, reg libhdl.Registry) (libsrv.Config, error) {
	if reg == nil {
		reg = libhdl.DefaultRegistry()
	}

	v := viper.New()
	v.SetConfigFile(file)

	if err := v.ReadInConfig(); err != nil {
		return libsrv.Config{}, ErrorFileRead.Error(err)
	}

	var doc Document

	err := v.Unmarshal(&doc, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	)))
	if err != nil {
		return libsrv.Config{}, ErrorDecode.Error(err)
	}

	return build(doc, reg)
}

func build(doc Document, reg libhdl.Registry) (libsrv.Config, error) {
	b := libsrv.NewBuilder()

	if doc.Port > 0 {
		b.Port(doc.Port)
	}

	if doc.WorkerThreads > 0 {
		b.WorkerThreads(doc.WorkerThreads)
	}

	if doc.WorkerThreadName != "" {
		b.WorkerThreadName(doc.WorkerThreadName)
	}

	b.Logger(liblog.NewProvider(doc.Log))

	if doc.TLSServer != nil {
		b.TLSServer(*doc.TLSServer)
	}

	if doc.TLSClient != nil {
		b.TLSClient(*doc.TLSClient)
	}

	for _, p := range doc.Paths {
		m, err := libhdl.ParseMethod(p.Method)
		if err != nil {
			return libsrv.Config{}, err
		}

		req, err := chain(reg, p.Request)
		if err != nil {
			return libsrv.Config{}, err
		}

		rsp, err := chain(reg, p.Response)
		if err != nil {
			return libsrv.Config{}, err
		}

		b.AddPath(libhdl.Binding{
			PathPrefix: p.Path,
			Method:     m,
			Request:    req,
			Response:   rsp,
		})
	}

	return b.Build(), nil
}

func chain(reg libhdl.Registry, names []string) (libhdl.HTTPChain, error) {
	c := make(libhdl.HTTPChain, 0, len(names))

	for _, n := range names {
		h, ok := reg.Get(n)
		if !ok {
			return nil, ErrorUnknownHandler.Error(nil)
		}

		c = append(c, h)
	}

	return c, nil
}
