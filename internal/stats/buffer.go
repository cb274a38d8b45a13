// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package stats accumulates double-precision samples and computes their
// mean and sample standard deviation on demand.
//
// A Buffer has a single owner. It does no locking of its own; callers that
// share one across goroutines must serialize access themselves.
package stats

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidArgument reports a negative capacity or an inconsistent
	// capacity ceiling.
	ErrInvalidArgument = errors.New("stats: invalid argument")

	// ErrAllocation reports that the buffer could not grow.
	ErrAllocation = errors.New("stats: allocation failure")
)

// Buffer is a growable, ordered sequence of samples.
//
// len(values) is the allocated capacity; only the first length entries are
// occupied. Capacity never shrinks.
type Buffer struct {
	values      []float64
	length      int
	maxCapacity int // 0 means no ceiling
}

// NewBuffer allocates a buffer with room for initialCapacity samples.
// A zero capacity is valid; the buffer grows on the first Append.
func NewBuffer(initialCapacity int) (*Buffer, error) {
	return NewBoundedBuffer(initialCapacity, 0)
}

// NewBoundedBuffer is like NewBuffer but refuses to grow beyond
// maxCapacity slots. A maxCapacity of 0 disables the ceiling.
func NewBoundedBuffer(initialCapacity, maxCapacity int) (*Buffer, error) {
	if initialCapacity < 0 {
		return nil, fmt.Errorf("%w: initial capacity %d is negative", ErrInvalidArgument, initialCapacity)
	}
	if maxCapacity < 0 {
		return nil, fmt.Errorf("%w: max capacity %d is negative", ErrInvalidArgument, maxCapacity)
	}
	if maxCapacity > 0 && maxCapacity < initialCapacity {
		return nil, fmt.Errorf("%w: max capacity %d below initial capacity %d",
			ErrInvalidArgument, maxCapacity, initialCapacity)
	}

	return &Buffer{
		values:      make([]float64, initialCapacity),
		maxCapacity: maxCapacity,
	}, nil
}

// Append stores value after the last occupied slot. A full buffer grows by
// exactly one slot first. If growing fails the buffer is left untouched and
// the returned error wraps ErrAllocation.
func (b *Buffer) Append(value float64) error {
	if b.length == len(b.values) {
		if err := b.grow(); err != nil {
			return err
		}
	}
	b.values[b.length] = value
	b.length++
	return nil
}

// grow adds a single slot, copying existing samples into the new storage.
func (b *Buffer) grow() error {
	capacity := len(b.values)
	if capacity == math.MaxInt {
		return fmt.Errorf("%w: capacity %d cannot grow", ErrAllocation, capacity)
	}
	if b.maxCapacity > 0 && capacity >= b.maxCapacity {
		return fmt.Errorf("%w: capacity limit %d reached", ErrAllocation, b.maxCapacity)
	}

	grown := make([]float64, capacity+1)
	copy(grown, b.values)
	b.values = grown
	return nil
}

// Len returns the number of samples appended so far.
func (b *Buffer) Len() int { return b.length }

// Cap returns the number of allocated slots.
func (b *Buffer) Cap() int { return len(b.values) }

// MaxCap returns the growth ceiling, or 0 if the buffer is unbounded.
func (b *Buffer) MaxCap() int { return b.maxCapacity }

// Values returns a copy of the occupied samples in insertion order.
func (b *Buffer) Values() []float64 {
	out := make([]float64, b.length)
	copy(out, b.values[:b.length])
	return out
}

func (b *Buffer) occupied() []float64 {
	return b.values[:b.length]
}
