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

// Package metrics exposes prometheus collectors for dispatched exchanges.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Exchange outcome labels.
const (
	OutcomeMatched   = "matched"
	OutcomeUnmatched = "unmatched"
	OutcomeFailed    = "failed"
)

// Exchange counts dispatched exchanges and observes their latency, split
// by outcome.
type Exchange struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewExchange builds the collectors and registers them on the given
// registerer. A nil registerer uses the prometheus default.
func NewExchange(reg prometheus.Registerer) (*Exchange, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Exchange{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hyperline",
			Subsystem: "dispatcher",
			Name:      "exchanges_total",
			Help:      "Number of dispatched exchanges by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hyperline",
			Subsystem: "dispatcher",
			Name:      "exchange_duration_seconds",
			Help:      "Duration of dispatched exchanges by outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Observe records one dispatched exchange.
func (m *Exchange) Observe(outcome string, d time.Duration) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(outcome).Inc()
	m.latency.WithLabelValues(outcome).Observe(d.Seconds())
}
