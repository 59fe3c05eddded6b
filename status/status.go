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

// Package status packs the lifecycle flags and the response code of an
// exchange into one 32 bit word. The low 10 bits carry the response code,
// the higher bits carry latch flags.
package status

import "fmt"

// Status is the packed lifecycle word of an exchange.
type Status int32

// codeMask covers the low 10 bits carrying the response status code.
var codeMask = BitMask(0, 9)

// Lifecycle latch flags.
const (
	InputConsumed           Status = 1 << (iota + 10)
	OutputConsumed                 // 1 << 11
	InputListenersComplete         // 1 << 12
	OutputListenersComplete        // 1 << 13
	CustomListenersComplete        // 1 << 14
	InputBuffered                  // 1 << 15
	OutputBuffered                 // 1 << 16
)

// BitMask returns a contiguous mask covering bits [low, high] inclusive.
// It panics unless 0 <= low <= high < 32: an invalid range is a
// programming error, not a runtime condition.
func BitMask(low, high int) Status {
	if low < 0 || low > high || high >= 32 {
		panic(fmt.Sprintf("status: invalid bit mask range [%d, %d]", low, high))
	}

	if high == 31 {
		return Status(^((int32(1) << low) - 1))
	}

	return Status((int32(1) << (high + 1)) - (int32(1) << low))
}

// Default returns the initial status of a new exchange: code 200, no
// flags.
func Default() Status {
	return Status(200)
}

// AnyFlags returns true if at least one bit of the mask is set.
func (s Status) AnyFlags(mask Status) bool {
	return s&mask != 0
}

// AllFlagsClear returns true if no bit of the mask is set.
func (s Status) AllFlagsClear(mask Status) bool {
	return s&mask == 0
}

// Set returns the status with every bit of the mask set.
func (s Status) Set(mask Status) Status {
	return s | mask
}

// Clear returns the status with every bit of the mask cleared.
func (s Status) Clear(mask Status) Status {
	return s &^ mask
}

// Code returns the response status code stored in the low 10 bits.
func (s Status) Code() int {
	return int(s & codeMask)
}

// WithCode returns the status carrying the given response code in its low
// 10 bits. Codes outside 0..1023 are truncated to the mask.
func (s Status) WithCode(code int) Status {
	return (s &^ codeMask) | (Status(int32(code)) & codeMask)
}
