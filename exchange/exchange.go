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

import (
	"github.com/hashicorp/go-uuid"
	"github.com/sirupsen/logrus"

	liblog "github.com/KalevGonvick/hyper-line/logger"
	libsts "github.com/KalevGonvick/hyper-line/status"
)

// StatusApplier transplants the response code of the status word into the
// outgoing message when the output is consumed. It receives the stored
// output (possibly the zero value of O) and returns the message that
// leaves the exchange.
type StatusApplier[O any] func(out O, code int) O

// Option mutates a new Exchange before it is returned.
type Option[I, O any] func(x *Exchange[I, O])

// WithLogger sets the logging provider of the exchange.
func WithLogger[I, O any](fl liblog.FuncLog) Option[I, O] {
	return func(x *Exchange[I, O]) {
		if fl != nil {
			x.log = fl
		}
	}
}

// WithStatusApplier sets the hook transplanting the response code into
// the outgoing message on output consumption.
func WithStatusApplier[I, O any](f StatusApplier[O]) Option[I, O] {
	return func(x *Exchange[I, O]) {
		x.apply = f
	}
}

// Exchange is the per-request context of one dispatched request. I is the
// inbound message type, O the outbound one. The zero values of I and O
// stand in until SaveInput / SaveOutput store real messages.
type Exchange[I, O any] struct {
	id  string
	sts libsts.Status

	input  I
	output O

	inputListeners  []Listener[I, O]
	outputListeners []Listener[I, O]
	customListeners []Listener[I, O]

	att map[attKey]any

	log   liblog.FuncLog
	apply StatusApplier[O]
}

// New creates an exchange with a fresh correlation id, status code 200
// and no flags set.
func New[I, O any](opt ...Option[I, O]) *Exchange[I, O] {
	x := &Exchange[I, O]{
		sts: libsts.Default(),
		att: make(map[attKey]any),
		log: liblog.Default(),
	}

	if id, err := uuid.GenerateUUID(); err == nil {
		x.id = id
	}

	for _, o := range opt {
		o(x)
	}

	return x
}

// ID returns the correlation id of the exchange.
func (x *Exchange[I, O]) ID() string {
	return x.id
}

// Status returns a copy of the packed status word.
func (x *Exchange[I, O]) Status() libsts.Status {
	return x.sts
}

// SetCode stores the response code into the low bits of the status word.
func (x *Exchange[I, O]) SetCode(code int) {
	x.sts = x.sts.WithCode(code)
}

// Mark latches the given flags into the status word.
func (x *Exchange[I, O]) Mark(flags libsts.Status) {
	x.sts = x.sts.Set(flags)
}

// SaveInput stores the inbound message.
func (x *Exchange[I, O]) SaveInput(in I) {
	x.input = in
}

// Input borrows the inbound message. It fails once the input has been
// consumed.
func (x *Exchange[I, O]) Input() (I, error) {
	if x.sts.AllFlagsClear(libsts.InputConsumed) {
		return x.input, nil
	}

	var zero I
	err := ErrorInputConsumed.Error(nil)
	x.entry().WithField("op", "input").Error(err.Error())
	return zero, err
}

// ConsumeInput fires the input listeners and hands the inbound message
// over to the caller. The input can be consumed exactly once; further
// calls, and further Input borrows, fail.
func (x *Exchange[I, O]) ConsumeInput() (I, error) {
	if x.sts.AnyFlags(libsts.InputConsumed) {
		var zero I
		err := ErrorInputConsumed.Error(nil)
		x.entry().WithField("op", "consume-input").Error(err.Error())
		return zero, err
	}

	// Listeners observe the input one last time before it leaves.
	if err := x.fireInputListeners(); err != nil {
		var zero I
		return zero, err
	}

	x.sts = x.sts.Set(libsts.InputConsumed)

	consumed := x.input
	var zero I
	x.input = zero
	return consumed, nil
}

// SaveOutput stores the outbound message. It fails once the output has
// been consumed.
func (x *Exchange[I, O]) SaveOutput(out O) error {
	if x.sts.AnyFlags(libsts.OutputConsumed) {
		err := ErrorOutputConsumed.Error(nil)
		x.entry().WithField("op", "save-output").Error(err.Error())
		return err
	}

	x.output = out
	return nil
}

// Output borrows the outbound message. It fails once the output has been
// consumed.
func (x *Exchange[I, O]) Output() (O, error) {
	if x.sts.AllFlagsClear(libsts.OutputConsumed) {
		return x.output, nil
	}

	var zero O
	err := ErrorOutputConsumed.Error(nil)
	x.entry().WithField("op", "output").Error(err.Error())
	return zero, err
}

// ConsumeOutput fires the output listeners, transplants the response code
// of the status word into the outgoing message and hands the message over
// to the caller. The output can be consumed exactly once.
func (x *Exchange[I, O]) ConsumeOutput() (O, error) {
	if x.sts.AnyFlags(libsts.OutputConsumed) {
		var zero O
		err := ErrorOutputConsumed.Error(nil)
		x.entry().WithField("op", "consume-output").Error(err.Error())
		return zero, err
	}

	if err := x.fireOutputListeners(); err != nil {
		var zero O
		return zero, err
	}

	x.sts = x.sts.Set(libsts.OutputConsumed)

	consumed := x.output
	if x.apply != nil {
		consumed = x.apply(consumed, x.sts.Code())
	}

	var zero O
	x.output = zero
	return consumed, nil
}

// OnInput appends a listener fired immediately before the input is
// consumed.
func (x *Exchange[I, O]) OnInput(l Listener[I, O]) {
	x.inputListeners = append(x.inputListeners, l)
}

// OnOutput appends a listener fired immediately before the output is
// consumed.
func (x *Exchange[I, O]) OnOutput(l Listener[I, O]) {
	x.outputListeners = append(x.outputListeners, l)
}

// OnCustom appends a listener fired on demand through FireCustom.
func (x *Exchange[I, O]) OnCustom(l Listener[I, O]) {
	x.customListeners = append(x.customListeners, l)
}

// FireCustom runs the custom listeners. Like the other sets they fire at
// most once; a second call fails and runs nothing.
func (x *Exchange[I, O]) FireCustom() error {
	if x.sts.AnyFlags(libsts.CustomListenersComplete) {
		err := ErrorCustomListenersDone.Error(nil)
		x.entry().WithField("op", "fire-custom").Error(err.Error())
		return err
	}

	x.sts = x.sts.Set(libsts.CustomListenersComplete)
	x.runListeners(x.customListeners)
	return nil
}

func (x *Exchange[I, O]) fireInputListeners() error {
	if x.sts.AnyFlags(libsts.InputListenersComplete) {
		err := ErrorInputListenersDone.Error(nil)
		x.entry().WithField("op", "fire-input").Error(err.Error())
		return err
	}

	x.sts = x.sts.Set(libsts.InputListenersComplete)
	x.runListeners(x.inputListeners)
	return nil
}

func (x *Exchange[I, O]) fireOutputListeners() error {
	if x.sts.AnyFlags(libsts.OutputListenersComplete) {
		err := ErrorOutputListenersDone.Error(nil)
		x.entry().WithField("op", "fire-output").Error(err.Error())
		return err
	}

	x.sts = x.sts.Set(libsts.OutputListenersComplete)
	x.runListeners(x.outputListeners)
	return nil
}

// runListeners invokes the callbacks in insertion order. A panicking
// callback is logged and does not abort the remaining ones.
func (x *Exchange[I, O]) runListeners(set []Listener[I, O]) {
	for i, l := range set {
		if l == nil {
			continue
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					x.entry().WithField("listener", i).Errorf("listener panic: %v", r)
				}
			}()

			l(x)
		}()
	}
}

func (x *Exchange[I, O]) entry() *logrus.Entry {
	return x.log().WithField(liblog.FieldExchange, x.id)
}

// viewAttachment implements the read side of View.
func (x *Exchange[I, O]) viewAttachment(k attKey) (any, bool) {
	v, ok := x.att[k]
	return v, ok
}
