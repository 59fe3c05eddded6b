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

package handler

import (
	"sort"
	"sync"
)

// Registry maps string identifiers to shared handler instances so
// configuration documents can reference handlers by name. Registration is
// append-only and happens during startup; lookups happen whenever a
// configuration is materialized.
type Registry interface {
	// Register binds a name to a handler. A duplicate name fails with
	// ErrorDuplicateHandler; registered entries cannot be replaced.
	Register(name string, h HTTP) error

	// Get returns the handler registered under the name.
	Get(name string) (HTTP, bool)

	// Names returns the registered names, sorted.
	Names() []string
}

// NewRegistry creates an empty handler registry.
func NewRegistry() Registry {
	return &registry{
		reg: make(map[string]HTTP),
	}
}

type registry struct {
	mut sync.RWMutex
	reg map[string]HTTP
}

func (r *registry) Register(name string, h HTTP) error {
	if name == "" || h == nil {
		return ErrorRegisterParams.Error(nil)
	}

	r.mut.Lock()
	defer r.mut.Unlock()

	if _, ok := r.reg[name]; ok {
		return ErrorDuplicateHandler.Error(nil)
	}

	r.reg[name] = h
	return nil
}

func (r *registry) Get(name string) (HTTP, bool) {
	r.mut.RLock()
	defer r.mut.RUnlock()

	h, ok := r.reg[name]
	return h, ok
}

func (r *registry) Names() []string {
	r.mut.RLock()
	defer r.mut.RUnlock()

	n := make([]string, 0, len(r.reg))
	for k := range r.reg {
		n = append(n, k)
	}

	sort.Strings(n)
	return n
}

var defRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used when no explicit
// one is wired.
func DefaultRegistry() Registry {
	return defRegistry
}
