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
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

const defaultTimestampFormat = "2006-01-02T15:04:05.000"

var (
	colorTimestamp = color.New(color.FgHiBlack, color.Underline)
	colorWorker    = color.New(color.FgHiCyan, color.Bold)
	colorMessage   = color.New(color.FgHiBlue)

	colorLevel = map[logrus.Level]*color.Color{
		logrus.TraceLevel: color.New(color.FgHiMagenta, color.Bold),
		logrus.DebugLevel: color.New(color.FgHiGreen, color.Bold),
		logrus.InfoLevel:  color.New(color.FgHiBlue, color.Bold),
		logrus.WarnLevel:  color.New(color.FgHiYellow, color.Bold),
		logrus.ErrorLevel: color.New(color.FgHiRed, color.Bold),
		logrus.FatalLevel: color.New(color.FgHiRed, color.Bold),
		logrus.PanicLevel: color.New(color.FgHiRed, color.Bold),
	}
)

// ConsoleFormatter renders entries as [timestamp][LEVEL][WORKER] message,
// with remaining fields appended as key=value pairs.
type ConsoleFormatter struct {
	// DisableColor turns the ANSI escape sequences off.
	DisableColor bool

	// TimestampFormat overrides the default millisecond layout.
	TimestampFormat string
}

// Format implements logrus.Formatter.
func (f *ConsoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var buf *bytes.Buffer
	if entry.Buffer != nil {
		buf = entry.Buffer
	} else {
		buf = &bytes.Buffer{}
	}

	tsFmt := f.TimestampFormat
	if tsFmt == "" {
		tsFmt = defaultTimestampFormat
	}

	worker, _ := entry.Data[FieldWorker].(string)

	buf.WriteByte('[')
	buf.WriteString(f.paint(colorTimestamp, entry.Time.Format(tsFmt)))
	buf.WriteString("][")
	buf.WriteString(f.paint(f.levelColor(entry.Level), strings.ToUpper(entry.Level.String())))
	buf.WriteString("][")
	buf.WriteString(f.paint(colorWorker, strings.ToUpper(worker)))
	buf.WriteString("] ")
	buf.WriteString(f.paint(colorMessage, entry.Message))

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k == FieldWorker {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		buf.WriteByte(' ')
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(fmt.Sprintf("%v", entry.Data[k]))
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (f *ConsoleFormatter) levelColor(lvl logrus.Level) *color.Color {
	if c, ok := colorLevel[lvl]; ok {
		return c
	}
	return colorMessage
}

func (f *ConsoleFormatter) paint(c *color.Color, s string) string {
	if f.DisableColor || c == nil {
		return s
	}
	return c.Sprint(s)
}
