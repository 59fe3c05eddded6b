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

// Package exchange holds the per-request context shared by every handler
// of a chain: the inbound message, the outbound message, a packed status
// word, typed attachments and lifecycle listeners.
//
// An Exchange is single-owner. It is created by the dispatcher, handed to
// one handler at a time and destroyed when the dispatcher returns. It may
// move between goroutines across suspension points but is never shared
// between concurrently running tasks, so it carries no internal locking.
//
// Lifecycle invariants enforced here:
//   - the input is consumed at most once; reads after consumption fail;
//   - the output is consumed at most once; on consumption, the response
//     code stored in the status word is transplanted into the outgoing
//     message;
//   - each listener set fires at most once, in insertion order, with the
//     latch flag set before the callbacks run.
//
// Violations are programming errors: they are logged at error level and
// the offending operation returns a coded error.
package exchange
