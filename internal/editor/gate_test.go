package editor

import "testing"

func TestGatedRunsWhenEditable(t *testing.T) {
	calls := 0
	fn := Gated(true, func() { calls++ })
	fn()
	if calls != 1 {
		t.Fatalf("expected the callback to run, got %d calls", calls)
	}
}

func TestGatedBlocksWhenNotEditable(t *testing.T) {
	calls := 0
	fn := Gated(false, func() { calls++ })
	fn()
	fn()
	if calls != 0 {
		t.Fatalf("expected no calls for a read-only viewer, got %d", calls)
	}
}

func TestGated1AndGated2(t *testing.T) {
	var got []string
	add := Gated1(true, func(s string) { got = append(got, s) })
	add("a")

	blocked := Gated2[string, int](false, func(s string, n int) { got = append(got, s) })
	blocked("b", 1)

	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("unexpected calls: %v", got)
	}
}

func TestGatedResultReturnsZeroWhenBlocked(t *testing.T) {
	double := GatedResult(true, func(n int) int { return n * 2 })
	if double(3) != 6 {
		t.Fatalf("expected the editable wrapper to delegate")
	}

	blocked := GatedResult(false, func(n int) int { return n * 2 })
	if blocked(3) != 0 {
		t.Fatalf("expected the zero value for a read-only viewer")
	}
}
