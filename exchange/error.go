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

package exchange

import liberr "github.com/KalevGonvick/hyper-line/errors"

const (
	ErrorInputConsumed liberr.CodeError = iota + liberr.MinPkgExchange
	ErrorOutputConsumed
	ErrorInputListenersDone
	ErrorOutputListenersDone
	ErrorCustomListenersDone
)

func init() {
	liberr.RegisterFctMessage(liberr.MinPkgExchange, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorInputConsumed:
		return "exchange input has already been consumed"
	case ErrorOutputConsumed:
		return "exchange output has already been consumed"
	case ErrorInputListenersDone:
		return "input listeners have already been executed"
	case ErrorOutputListenersDone:
		return "output listeners have already been executed"
	case ErrorCustomListenersDone:
		return "custom listeners have already been executed"
	}

	return ""
}
