package retry

import (
	"math/rand"
	"testing"
	"time"
)

func TestBackoffGrowthAndCap(t *testing.T) {
	p := Policy{
		MaxAttempts:       5,
		InitialDelay:      500 * time.Millisecond,
		MaxDelay:          5 * time.Second,
		BackoffMultiplier: 2.0,
	}

	want := []time.Duration{
		500 * time.Millisecond,
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		5 * time.Second, // capped
		5 * time.Second,
	}
	for k, w := range want {
		if got := Backoff(k, p); got != w {
			t.Errorf("Backoff(%d) = %v, want %v", k, got, w)
		}
	}
}

func TestBackoffMonotonic(t *testing.T) {
	p := Policy{
		MaxAttempts:       10,
		InitialDelay:      100 * time.Millisecond,
		MaxDelay:          3 * time.Second,
		BackoffMultiplier: 1.7,
	}

	prev := time.Duration(-1)
	for k := 0; k < 20; k++ {
		d := Backoff(k, p)
		if d < prev {
			t.Fatalf("Backoff(%d) = %v decreased from %v", k, d, prev)
		}
		if d > p.MaxDelay {
			t.Fatalf("Backoff(%d) = %v exceeds max delay %v", k, d, p.MaxDelay)
		}
		prev = d
	}
}

func TestJitterBound(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := 2 * time.Second
	fraction := 0.25
	bound := time.Duration(float64(base) * fraction)

	for i := 0; i < 1000; i++ {
		d := jitter(base, fraction, rng)
		if d < 0 {
			t.Fatalf("jitter produced negative delay %v", d)
		}
		diff := d - base
		if diff < 0 {
			diff = -diff
		}
		if diff > bound {
			t.Fatalf("jitter %v deviates from base %v by %v, bound %v", d, base, diff, bound)
		}
	}
}

func TestJitterDeterministic(t *testing.T) {
	a := rand.New(rand.NewSource(7))
	b := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		da := jitter(time.Second, 0.5, a)
		db := jitter(time.Second, 0.5, b)
		if da != db {
			t.Fatalf("draw %d: %v != %v with identical seeds", i, da, db)
		}
	}
}

func TestJitterZeroFraction(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if d := jitter(time.Second, 0, rng); d != time.Second {
		t.Fatalf("zero fraction changed delay: %v", d)
	}
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		ok     bool
	}{
		{"default", DefaultPolicy, true},
		{"zero attempts", Policy{MaxAttempts: 0, InitialDelay: time.Second, MaxDelay: time.Minute, BackoffMultiplier: 2}, false},
		{"initial above max", Policy{MaxAttempts: 3, InitialDelay: time.Minute, MaxDelay: time.Second, BackoffMultiplier: 2}, false},
		{"multiplier one", Policy{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: time.Minute, BackoffMultiplier: 1}, false},
		{"jitter above one", Policy{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: time.Minute, BackoffMultiplier: 2, JitterFraction: 1.5}, false},
		{"negative jitter", Policy{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: time.Minute, BackoffMultiplier: 2, JitterFraction: -0.1}, false},
	}

	for _, tt := range tests {
		err := tt.policy.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
