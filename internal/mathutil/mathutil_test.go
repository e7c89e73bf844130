package mathutil

import "testing"

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Fatalf("int clamp wrong")
	}
	if Clamp(1.5, 0.0, 1.0) != 1.0 {
		t.Fatalf("float clamp wrong")
	}
}

func TestCloseness(t *testing.T) {
	if got := Closeness(0.25, 0.5); got != 0.75 {
		t.Fatalf("closeness = %v", got)
	}
	if got := Closeness(3.0, 0.5); got != 0 {
		t.Fatalf("closeness should floor at zero, got %v", got)
	}
	if got := Lerp(2.0, 4.0, 0.5); got != 3 {
		t.Fatalf("lerp = %v", got)
	}
}
