package sqlbind

import (
	"errors"
	"testing"
)

func TestParameterSetAdd(t *testing.T) {
	ps := &ParameterSet{}
	if pos := ps.Add(FromInt(1)); pos != 0 {
		t.Fatalf("first Add returned %d, want 0", pos)
	}
	if pos := ps.Add(FromInt(2)); pos != 1 {
		t.Fatalf("second Add returned %d, want 1", pos)
	}
	if ps.Len() != 2 {
		t.Fatalf("Len = %d, want 2", ps.Len())
	}
}

func TestParameterSetGet(t *testing.T) {
	ps := NewParameterSet(FromInt(10), FromInt(20))
	for i, want := range []string{"10", "20"} {
		v, err := ps.Get(i + 1)
		if err != nil {
			t.Fatalf("Get(%d): %v", i+1, err)
		}
		if got := v.Number().String(); got != want {
			t.Fatalf("Get(%d) = %s, want %s", i+1, got, want)
		}
	}
	for _, i := range []int{0, 3, -1} {
		if _, err := ps.Get(i); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get(%d): expected NotFound, got %v", i, err)
		}
	}
	// the error names the placeholder the index would have come from
	_, err := ps.Get(3)
	var e *Error
	if !errors.As(err, &e) || e.Detail != "$3" {
		t.Fatalf("Get(3) label = %v", err)
	}
}
