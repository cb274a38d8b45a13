package stats

import (
	"errors"
	"math"
	"testing"
)

func mustBuffer(t *testing.T, capacity int, values ...float64) *Buffer {
	t.Helper()
	b, err := NewBuffer(capacity)
	if err != nil {
		t.Fatalf("NewBuffer(%d): %v", capacity, err)
	}
	for _, v := range values {
		if err := b.Append(v); err != nil {
			t.Fatalf("Append(%v): %v", v, err)
		}
	}
	return b
}

func TestNewBuffer(t *testing.T) {
	for _, capacity := range []int{0, 1, 16} {
		b, err := NewBuffer(capacity)
		if err != nil {
			t.Fatalf("NewBuffer(%d): %v", capacity, err)
		}
		if b.Cap() != capacity || b.Len() != 0 {
			t.Fatalf("NewBuffer(%d): cap=%d len=%d", capacity, b.Cap(), b.Len())
		}
	}
}

func TestNewBufferInvalid(t *testing.T) {
	tests := []struct {
		name    string
		initial int
		ceiling int
	}{
		{"negative initial", -1, 0},
		{"negative ceiling", 4, -1},
		{"ceiling below initial", 8, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBoundedBuffer(tt.initial, tt.ceiling)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			if b != nil {
				t.Fatalf("expected nil buffer on error")
			}
		})
	}
}

func TestAppendWithinCapacity(t *testing.T) {
	b := mustBuffer(t, 4, 1.5, -2, 3)
	if b.Len() != 3 || b.Cap() != 4 {
		t.Fatalf("len=%d cap=%d, want 3/4", b.Len(), b.Cap())
	}
	want := []float64{1.5, -2, 3}
	for i, v := range b.Values() {
		if v != want[i] {
			t.Fatalf("value %d = %v, want %v", i, v, want[i])
		}
	}
}

func TestAppendGrowsOneSlot(t *testing.T) {
	const capacity = 5
	b := mustBuffer(t, capacity)
	for i := 0; i < capacity+1; i++ {
		if err := b.Append(float64(i) * 1.25); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	if b.Len() != capacity+1 {
		t.Fatalf("len = %d, want %d", b.Len(), capacity+1)
	}
	if b.Cap() != capacity+1 {
		t.Fatalf("cap = %d, want %d (one-slot growth)", b.Cap(), capacity+1)
	}
	for i, v := range b.Values() {
		if v != float64(i)*1.25 {
			t.Fatalf("value %d = %v, want %v", i, v, float64(i)*1.25)
		}
	}
}

func TestAppendFromZeroCapacity(t *testing.T) {
	b := mustBuffer(t, 0)
	prev := b.Cap()
	for i := 0; i < 10; i++ {
		if err := b.Append(float64(i)); err != nil {
			t.Fatalf("Append: %v", err)
		}
		if b.Cap() < prev {
			t.Fatalf("capacity shrank from %d to %d", prev, b.Cap())
		}
		if b.Len() > b.Cap() {
			t.Fatalf("len %d exceeds cap %d", b.Len(), b.Cap())
		}
		prev = b.Cap()
	}
	if b.Cap() != 10 {
		t.Fatalf("cap = %d, want 10", b.Cap())
	}
}

func TestAppendKeepsSpecialValues(t *testing.T) {
	b := mustBuffer(t, 1, math.Inf(1), math.NaN(), -0.0)
	got := b.Values()
	if !math.IsInf(got[0], 1) || !math.IsNaN(got[1]) || got[2] != 0 {
		t.Fatalf("unexpected values: %v", got)
	}
}

func TestAppendAllocationFailure(t *testing.T) {
	b, err := NewBoundedBuffer(2, 3)
	if err != nil {
		t.Fatalf("NewBoundedBuffer: %v", err)
	}
	for _, v := range []float64{1, 2, 3} {
		if err := b.Append(v); err != nil {
			t.Fatalf("Append(%v): %v", v, err)
		}
	}

	err = b.Append(4)
	if !errors.Is(err, ErrAllocation) {
		t.Fatalf("expected ErrAllocation, got %v", err)
	}
	if b.Len() != 3 || b.Cap() != 3 {
		t.Fatalf("buffer modified on failure: len=%d cap=%d", b.Len(), b.Cap())
	}
	want := []float64{1, 2, 3}
	for i, v := range b.Values() {
		if v != want[i] {
			t.Fatalf("value %d = %v, want %v", i, v, want[i])
		}
	}
}

func TestValuesIsCopy(t *testing.T) {
	b := mustBuffer(t, 2, 7, 8)
	vals := b.Values()
	vals[0] = 100
	if b.Values()[0] != 7 {
		t.Fatalf("Values exposed internal storage")
	}
}
