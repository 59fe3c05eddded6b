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

import libsts "github.com/KalevGonvick/hyper-line/status"

// View is the read-only face of an exchange handed to listeners. Use
// handlers for mutation and listeners for observation; a listener must be
// cheap and must not block.
type View[I, O any] interface {
	// ID returns the correlation id of the exchange.
	ID() string

	// Status returns a copy of the packed status word.
	Status() libsts.Status

	// Input borrows the inbound message; fails once consumed.
	Input() (I, error)

	// Output borrows the outbound message; fails once consumed.
	Output() (O, error)

	viewAttachment(k attKey) (any, bool)
}

// Listener observes one lifecycle edge of an exchange. Listeners of a set
// run in insertion order; a failing listener does not abort the others.
type Listener[I, O any] func(v View[I, O])
