package pool

import "testing"

func TestSlicePool_GetPutReuse(t *testing.T) {
	p := NewSlicePool[int](4)

	s := p.Get()
	if len(s) != 0 {
		t.Fatalf("Get should return a zero-length slice, got len %d", len(s))
	}
	s = append(s, 1, 2, 3)
	p.Put(s)

	s2 := p.Get()
	if len(s2) != 0 {
		t.Fatalf("reused slice must be reset to zero length, got len %d", len(s2))
	}
}

func TestSlicePool_PutNilIsSafe(t *testing.T) {
	p := NewSlicePool[int](2)
	p.Put(nil) // must not panic
}
