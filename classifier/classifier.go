// Package classifier converts raw mouse button press/release timings
// into the canonical instruction stream ('.', '-', reset) that feeds
// the sequence automaton.
package classifier

import "horsetab/model"

// Default thresholds in milliseconds, per spec: a release within
// LongMS of its press is a dot, otherwise a dash; a press more than
// GapMS after the previous event resets the sequence in progress.
const (
	DefaultLongMS = 200
	DefaultGapMS  = 500
)

// Classifier holds the quantization thresholds and the timestamp of
// the last press or release it observed.
type Classifier struct {
	longMS  int64
	gapMS   int64
	lastEvt int64
	primed  bool
}

// New creates a classifier with the given thresholds in milliseconds.
func New(longMS, gapMS int64) *Classifier {
	return &Classifier{longMS: longMS, gapMS: gapMS}
}

// NewDefault creates a classifier with the spec's default thresholds.
func NewDefault() *Classifier {
	return New(DefaultLongMS, DefaultGapMS)
}

// Press records a button-down event at time t (milliseconds on any
// monotonic scale). It returns a Reset instruction if the gap since
// the last event exceeds the gap threshold, or nil otherwise.
func (c *Classifier) Press(t int64) *model.Instruction {
	var reset *model.Instruction
	if c.primed && t-c.lastEvt > c.gapMS {
		r := model.ResetInstruction()
		reset = &r
	}
	c.lastEvt = t
	c.primed = true
	return reset
}

// Release records a button-up event at time t and returns the
// resulting Dot or Dash instruction.
func (c *Classifier) Release(t int64) model.Instruction {
	d := t - c.lastEvt
	c.lastEvt = t
	c.primed = true
	if d <= c.longMS {
		return model.CharInstruction('.')
	}
	return model.CharInstruction('-')
}
