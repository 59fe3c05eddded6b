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

	"github.com/sirupsen/logrus"
)

// Options configures a console logger instance.
type Options struct {
	// Level is the minimal level of logged messages. One of trace, debug,
	// info, warning, error, fatal, panic. Empty means info.
	Level string `mapstructure:"level" json:"level" yaml:"level" toml:"level"`

	// DisableColor turns the ANSI colorized output off.
	DisableColor bool `mapstructure:"disable_color" json:"disable_color" yaml:"disable_color" toml:"disable_color"`

	// DisableStandard routes the output to io.Discard instead of stderr.
	DisableStandard bool `mapstructure:"disable_standard" json:"disable_standard" yaml:"disable_standard" toml:"disable_standard"`

	// TimestampFormat overrides the time layout of each line.
	TimestampFormat string `mapstructure:"timestamp_format" json:"timestamp_format" yaml:"timestamp_format" toml:"timestamp_format"`
}

// New builds a logrus logger from the options. Unknown levels fall back
// to info.
func New(opt Options) *logrus.Logger {
	var out io.Writer = os.Stderr
	if opt.DisableStandard {
		out = io.Discard
	}

	lvl, err := logrus.ParseLevel(opt.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&ConsoleFormatter{
		DisableColor:    opt.DisableColor,
		TimestampFormat: opt.TimestampFormat,
	})

	return l
}

// NewProvider builds the logger and wraps it as a provider.
func NewProvider(opt Options) FuncLog {
	l := New(opt)
	return func() *logrus.Entry {
		return logrus.NewEntry(l)
	}
}
