// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package collector keeps one statistics buffer per measured quantity and
// hands out rendered reports once a window of samples has been gathered.
//
// stats.Buffer is single-owner; Collector is the lock around it for the
// producers, where MQTT callbacks, HTTP handlers and the sampling loop
// all touch the same series.
package collector

import (
	"errors"
	"fmt"
	"sync"

	"github.com/relabs-tech/sensor_utils/internal/stats"
)

// ErrUnknownQuantity is returned for a quantity the collector was not
// created with.
var ErrUnknownQuantity = errors.New("collector: unknown quantity")

// Report is the rendered statistics of one quantity.
type Report struct {
	Quantity string
	Result   stats.Result
	Text     string
}

// Collector groups per-quantity buffers behind a mutex.
type Collector struct {
	mu         sync.Mutex
	window     int
	maxSamples int
	order      []string
	buffers    map[string]*stats.Buffer
}

// New creates a collector for the given quantities. Each buffer starts
// with room for window samples and may grow up to maxSamples (0 for no
// limit).
func New(window, maxSamples int, quantities ...string) (*Collector, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: window must be at least 1, got %d", stats.ErrInvalidArgument, window)
	}
	if len(quantities) == 0 {
		return nil, fmt.Errorf("%w: no quantities", stats.ErrInvalidArgument)
	}

	c := &Collector{
		window:     window,
		maxSamples: maxSamples,
		buffers:    make(map[string]*stats.Buffer, len(quantities)),
	}
	for _, q := range quantities {
		if _, dup := c.buffers[q]; dup {
			return nil, fmt.Errorf("%w: duplicate quantity %q", stats.ErrInvalidArgument, q)
		}
		b, err := stats.NewBoundedBuffer(window, maxSamples)
		if err != nil {
			return nil, fmt.Errorf("quantity %q: %w", q, err)
		}
		c.buffers[q] = b
		c.order = append(c.order, q)
	}
	return c, nil
}

// Quantities returns the tracked quantities in creation order.
func (c *Collector) Quantities() []string {
	return append([]string(nil), c.order...)
}

// Window returns the number of samples per reporting window.
func (c *Collector) Window() int { return c.window }

// Add appends one sample to the named quantity.
func (c *Collector) Add(quantity string, value float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.buffers[quantity]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuantity, quantity)
	}
	if err := b.Append(value); err != nil {
		return fmt.Errorf("quantity %q: %w", quantity, err)
	}
	return nil
}

// Len returns the number of samples currently held for quantity.
func (c *Collector) Len(quantity string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.buffers[quantity]; ok {
		return b.Len()
	}
	return 0
}

// Ready reports whether any quantity has filled its window.
func (c *Collector) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, b := range c.buffers {
		if b.Len() >= c.window {
			return true
		}
	}
	return false
}

// Snapshot computes the current statistics of quantity without resetting
// its buffer.
func (c *Collector) Snapshot(quantity string) (Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.buffers[quantity]
	if !ok {
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownQuantity, quantity)
	}
	r, text := stats.Summarize(b)
	return Report{Quantity: quantity, Result: r, Text: text}, nil
}

// Flush reports every quantity that holds at least one sample, in creation
// order, and replaces those buffers with empty ones.
func (c *Collector) Flush() ([]Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var reports []Report
	for _, q := range c.order {
		b := c.buffers[q]
		if b.Len() == 0 {
			continue
		}

		fresh, err := stats.NewBoundedBuffer(c.window, c.maxSamples)
		if err != nil {
			return reports, fmt.Errorf("quantity %q: %w", q, err)
		}

		r, text := stats.Summarize(b)
		reports = append(reports, Report{Quantity: q, Result: r, Text: text})
		c.buffers[q] = fresh
	}
	return reports, nil
}
