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

// Package certificates loads PEM certificate material from files and
// assembles the tls.Config instances used by the acceptor (server side,
// with ALPN h2 + http/1.1) and by the reverse-proxy upstream client
// (client side, with a configured or the platform root pool).
package certificates

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"os"
)

// ALPN protocols advertised by the server side, preference ordered.
var alpnProtocols = []string{"h2", "http/1.1"}

// TLSConfig exposes the assembled TLS material.
type TLSConfig interface {
	// ServerTLS returns the server-side config: certificate pairs, ALPN
	// h2 + http/1.1, no client certificate verification.
	ServerTLS() *tls.Config

	// ClientTLS returns the client-side config: the configured root CA
	// pool, or the platform web roots when none was given.
	ClientTLS() *tls.Config

	// LenPairs returns the number of loaded certificate pairs.
	LenPairs() int
}

// New loads every file referenced by the config. Missing, empty or
// unparseable PEM material fails here so the error surfaces to the
// caller of build/run.
func New(cfg Config) (TLSConfig, error) {
	c := &config{}

	for _, p := range cfg.Pairs {
		if err := checkFile(p.Cert, p.Key); err != nil {
			return nil, err
		}

		crt, err := tls.LoadX509KeyPair(p.Cert, p.Key)
		if err != nil {
			return nil, ErrorPairParse.Error(err)
		}

		c.cert = append(c.cert, crt)
	}

	if len(cfg.RootCAFiles) > 0 {
		c.caRoot = x509.NewCertPool()

		if cfg.InheritSystemCA {
			if sys, err := x509.SystemCertPool(); err == nil {
				c.caRoot = sys
			}
		}

		for _, f := range cfg.RootCAFiles {
			if err := checkFile(f); err != nil {
				return nil, err
			}

			/* #nosec */
			b, err := os.ReadFile(f)
			if err != nil {
				return nil, ErrorFileRead.Error(err)
			}

			if !c.caRoot.AppendCertsFromPEM(b) {
				return nil, ErrorCertAppend.Error(nil)
			}
		}
	}

	return c, nil
}

type config struct {
	cert   []tls.Certificate
	caRoot *x509.CertPool
}

func (c *config) ServerTLS() *tls.Config {
	return &tls.Config{
		Certificates: c.cert,
		NextProtos:   append([]string{}, alpnProtocols...),
		MinVersion:   tls.VersionTLS12,
	}
}

func (c *config) ClientTLS() *tls.Config {
	return &tls.Config{
		RootCAs:    c.caRoot,
		MinVersion: tls.VersionTLS12,
	}
}

func (c *config) LenPairs() int {
	return len(c.cert)
}

// checkFile rejects missing or blank PEM files before parsing.
func checkFile(pemFiles ...string) error {
	for _, f := range pemFiles {
		if f == "" {
			return ErrorParamsEmpty.Error(nil)
		}

		if _, e := os.Stat(f); e != nil {
			return ErrorFileStat.Error(e)
		}

		/* #nosec */
		b, e := os.ReadFile(f)
		if e != nil {
			return ErrorFileRead.Error(e)
		}

		b = bytes.TrimSpace(b)

		if len(b) < 1 {
			return ErrorFileEmpty.Error(nil)
		}
	}

	return nil
}
