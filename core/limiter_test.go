package core

import "testing"

func TestModelLimiter_Limited(t *testing.T) {
	ml := NewModelLimiter(2)

	if err := ml.Increment(); err != nil {
		t.Fatalf("First call should succeed: %v", err)
	}
	if err := ml.Increment(); err != nil {
		t.Fatalf("Second call should succeed: %v", err)
	}
	if ml.Remaining() != 0 {
		t.Fatalf("Expected 0 remaining, got %d", ml.Remaining())
	}
	if err := ml.Increment(); err == nil {
		t.Fatal("Third call should exceed the limit")
	}
	if ml.Count() != 3 {
		t.Fatalf("Count should track all attempts, got %d", ml.Count())
	}
}

func TestModelLimiter_Unlimited(t *testing.T) {
	ml := NewModelLimiter(0)
	for i := 0; i < 100; i++ {
		if err := ml.Increment(); err != nil {
			t.Fatalf("Unlimited limiter rejected call %d: %v", i, err)
		}
	}
	if ml.Remaining() != -1 {
		t.Fatalf("Unlimited limiter should report -1 remaining, got %d", ml.Remaining())
	}
}
