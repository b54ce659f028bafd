package classifier

import (
	"testing"

	"horsetab/model"
)

func TestReleaseQuantization(t *testing.T) {
	cases := []struct {
		name     string
		pressAt  int64
		relAt    int64
		wantChar byte
	}{
		{"at threshold is dot", 0, 200, '.'},
		{"just under threshold is dot", 0, 150, '.'},
		{"just over threshold is dash", 0, 201, '-'},
		{"long dash", 0, 900, '-'},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(200, 500)
			if r := c.Press(tc.pressAt); r != nil {
				t.Fatalf("unexpected reset on first press: %v", r)
			}
			got := c.Release(tc.relAt)
			want := model.CharInstruction(tc.wantChar)
			if got != want {
				t.Errorf("Release(%d) = %v, want %v", tc.relAt, got, want)
			}
		})
	}
}

func TestPressResetsAfterGap(t *testing.T) {
	c := New(200, 500)
	c.Press(0)
	c.Release(150) // Dot, lastEvt = 150

	// Gap of 150ms is within the 500ms threshold: no reset.
	if r := c.Press(300); r != nil {
		t.Fatalf("unexpected reset for small gap: %v", r)
	}
	got := c.Release(900) // 900-300=600 > 200 -> Dash
	if got != model.CharInstruction('-') {
		t.Errorf("Release = %v, want Dash", got)
	}

	// Gap of 501ms triggers a reset on the next press.
	r := c.Press(1401)
	if r == nil || *r != model.ResetInstruction() {
		t.Errorf("Press after long gap = %v, want Reset", r)
	}
}

func TestNoResetOnFirstPress(t *testing.T) {
	c := New(200, 500)
	if r := c.Press(10_000_000); r != nil {
		t.Errorf("first press must never reset, got %v", r)
	}
}
