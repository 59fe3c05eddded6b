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

import "reflect"

// typeOf returns the stable identity of T used in attachment keys.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Attach stores a value under (key, type of T). A value of a different
// type stored under the same key lives in its own slot and is neither
// replaced nor shadowed.
func Attach[T any, I any, O any](x *Exchange[I, O], key Key, value T) {
	p := new(T)
	*p = value
	x.att[attKey{key: key, typ: typeOf[T]()}] = p
}

// Attachment fetches the value stored under (key, type of T). The second
// return is false when the slot is unknown or holds a different type;
// a type mismatch is absence, never a misinterpretation.
func Attachment[T any, I any, O any](x *Exchange[I, O], key Key) (T, bool) {
	if p, ok := x.att[attKey{key: key, typ: typeOf[T]()}]; ok {
		if t, ok := p.(*T); ok {
			return *t, true
		}
	}

	var zero T
	return zero, false
}

// AttachmentMut fetches a pointer to the value stored under (key, type of
// T), allowing in-place mutation by the current owner of the exchange.
func AttachmentMut[T any, I any, O any](x *Exchange[I, O], key Key) (*T, bool) {
	if p, ok := x.att[attKey{key: key, typ: typeOf[T]()}]; ok {
		if t, ok := p.(*T); ok {
			return t, true
		}
	}

	return nil, false
}

// ViewAttachment is the read-only attachment fetch available to
// listeners.
func ViewAttachment[T any, I any, O any](v View[I, O], key Key) (T, bool) {
	if p, ok := v.viewAttachment(attKey{key: key, typ: typeOf[T]()}); ok {
		if t, ok := p.(*T); ok {
			return *t, true
		}
	}

	var zero T
	return zero, false
}
