package mathx

import "testing"

func TestClamp(t *testing.T) {
	if Clamp(150, 0, 100) != 100 || Clamp(-3, 0, 100) != 0 || Clamp(42, 100, 0) != 42 {
		t.Fatal("Clamp")
	}
}

func TestBetween(t *testing.T) {
	for _, v := range []int{0, 1, 99, 100} {
		if !Between(v, 0, 100) {
			t.Fatalf("%d should be in [0,100]", v)
		}
	}
	for _, v := range []int{-1, 101, 150} {
		if Between(v, 0, 100) {
			t.Fatalf("%d should be outside [0,100]", v)
		}
	}
}

func TestMapU16Monotonic(t *testing.T) {
	prev := uint16(0)
	for x := uint16(1); x <= 100; x++ {
		got := MapU16(x, 1, 100, 10, 1000)
		if got < prev {
			t.Fatalf("MapU16 not monotonic at %d: %d < %d", x, got, prev)
		}
		prev = got
	}
	if MapU16(1, 1, 100, 10, 1000) != 10 || MapU16(100, 1, 100, 10, 1000) != 1000 {
		t.Fatal("MapU16 endpoints")
	}
	if MapU16(0, 1, 100, 10, 1000) != 10 || MapU16(200, 1, 100, 10, 1000) != 1000 {
		t.Fatal("MapU16 clamps input")
	}
}
