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

import liberr "github.com/KalevGonvick/hyper-line/errors"

const (
	ErrorServerValidate liberr.CodeError = iota + liberr.MinPkgServer
	ErrorTLSMisconfigured
	ErrorListen
	ErrorHTTP2Configure
	ErrorServerServe
)

func init() {
	liberr.RegisterFctMessage(liberr.MinPkgServer, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorServerValidate:
		return "config server seems to be not valid"
	case ErrorTLSMisconfigured:
		return "tls is enabled without server certificate material"
	case ErrorListen:
		return "cannot bind the listening address"
	case ErrorHTTP2Configure:
		return "cannot initialize http2 over http server"
	case ErrorServerServe:
		return "server stopped with a listen or serve error"
	}

	return ""
}
