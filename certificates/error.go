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

package certificates

import liberr "github.com/KalevGonvick/hyper-line/errors"

const (
	ErrorParamsEmpty liberr.CodeError = iota + liberr.MinPkgCertificates
	ErrorFileStat
	ErrorFileRead
	ErrorFileEmpty
	ErrorPairParse
	ErrorCertAppend
	ErrorValidatorError
)

func init() {
	liberr.RegisterFctMessage(liberr.MinPkgCertificates, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorParamsEmpty:
		return "given parameters is empty"
	case ErrorFileStat:
		return "cannot stat pem file"
	case ErrorFileRead:
		return "cannot read pem file"
	case ErrorFileEmpty:
		return "pem file is empty"
	case ErrorPairParse:
		return "cannot parse certificate / key pair"
	case ErrorCertAppend:
		return "cannot append pem certificate to pool"
	case ErrorValidatorError:
		return "invalid config, validation error"
	}

	return ""
}
