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

package proxy

import (
	"crypto/tls"
	"net/http"
	"sync"
	"time"
)

// Upstream transport tuning. Idle connections are recycled after three
// seconds.
const (
	poolIdleTimeout       = 3 * time.Second
	poolMaxIdle           = 50
	poolMaxIdlePerHost    = 5
	poolHandshakeTimeout  = 10 * time.Second
	poolContinueTimeout   = 3 * time.Second
	poolMaxConnsPerHost   = 25
	poolKeepAliveInterval = 15 * time.Second
)

var (
	cliOnce sync.Once
	cli     *http.Client
)

// sharedClient returns the process-global upstream client, lazily built
// on first use. The TLS client config of the first caller wins; every
// proxy handler of the process shares the same pool.
func sharedClient(tlsCfg *tls.Config) *http.Client {
	cliOnce.Do(func() {
		tr := &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			TLSClientConfig:       tlsCfg,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          poolMaxIdle,
			MaxIdleConnsPerHost:   poolMaxIdlePerHost,
			MaxConnsPerHost:       poolMaxConnsPerHost,
			IdleConnTimeout:       poolIdleTimeout,
			TLSHandshakeTimeout:   poolHandshakeTimeout,
			ExpectContinueTimeout: poolContinueTimeout,
		}

		cli = &http.Client{
			Transport: tr,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Redirects pass through to the caller untouched.
				return http.ErrUseLastResponse
			},
		}
	})

	return cli
}
