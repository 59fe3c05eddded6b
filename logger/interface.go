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

package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Field keys attached to log entries by the framework.
const (
	FieldWorker   = "worker"
	FieldExchange = "exchange"
	FieldRemote   = "remote"
)

// FuncLog provides the logging entry point of a component. Components keep
// the provider, not a logger instance, so the embedding application can
// swap the backend at any time.
type FuncLog func() *logrus.Entry

var (
	defMut sync.RWMutex
	defLog *logrus.Logger
)

// Default returns the process default provider: a console logger on stderr
// at Info level using the bracketed colorized formatter.
func Default() FuncLog {
	return func() *logrus.Entry {
		return logrus.NewEntry(defaultLogger())
	}
}

// SetDefault replaces the process default logger. Passing nil restores the
// built-in console logger.
func SetDefault(l *logrus.Logger) {
	defMut.Lock()
	defer defMut.Unlock()
	defLog = l
}

func defaultLogger() *logrus.Logger {
	defMut.RLock()
	l := defLog
	defMut.RUnlock()

	if l != nil {
		return l
	}

	defMut.Lock()
	defer defMut.Unlock()

	if defLog == nil {
		defLog = newLogger(os.Stderr, logrus.InfoLevel, false)
	}

	return defLog
}

// Discard returns a provider that drops every entry; used by tests.
func Discard() FuncLog {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return func() *logrus.Entry {
		return logrus.NewEntry(l)
	}
}

func newLogger(out io.Writer, lvl logrus.Level, noColor bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&ConsoleFormatter{DisableColor: noColor})
	return l
}
