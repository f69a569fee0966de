package gesture

// Interpreter turns a stream of pointer position samples between a press
// and a release into at most one discrete decision. It implements the swipe
// semantics of the flashcard learning view: swipe right = known, swipe
// left = unknown, tap = flip, anything else snaps back.
//
// Visual feedback (card rotation/scale while dragging) is a rendering
// concern; the interpreter only exposes the live horizontal delta for it.
type Interpreter struct {
	// DecisionThreshold is the horizontal distance a drag must cross for a
	// known/unknown decision.
	DecisionThreshold float64

	// DragThreshold separates a tap from a drag. Movement below it in both
	// axes is a tap (flip), not a cancelled drag.
	DragThreshold float64

	down             bool
	startX, startY   float64
	lastX, lastY     float64
}

// Default gesture distances, matching the flashcard view.
const (
	DefaultDecisionThreshold = 100
	DefaultDragThreshold     = 30
)

// Kind classifies the outcome of one completed gesture.
type Kind int

const (
	// None: release without a preceding press, ignored.
	None Kind = iota

	// Flip: a tap; the card should be flipped/revealed, not judged.
	Flip

	// Cancelled: a drag that crossed the tap threshold but not the decision
	// threshold, or a vertical (scroll-intent) movement. The card snaps back.
	Cancelled

	// Known: horizontal drag past +DecisionThreshold.
	Known

	// Unknown: horizontal drag past -DecisionThreshold.
	Unknown
)

// New returns an interpreter with the default thresholds.
func New() *Interpreter {
	return &Interpreter{
		DecisionThreshold: DefaultDecisionThreshold,
		DragThreshold:     DefaultDragThreshold,
	}
}

// Start records the press position and begins a gesture.
func (g *Interpreter) Start(x, y float64) {
	g.down = true
	g.startX, g.startY = x, y
	g.lastX, g.lastY = x, y
}

// Move records a position sample. Samples outside a press/release pair are
// ignored.
func (g *Interpreter) Move(x, y float64) {
	if !g.down {
		return
	}
	g.lastX, g.lastY = x, y
}

// Active reports whether a press is in progress.
func (g *Interpreter) Active() bool { return g.down }

// DeltaX returns the current horizontal offset from the press position,
// zero when no gesture is in progress. Vertical-intent movement reports
// zero so the card does not track a scroll.
func (g *Interpreter) DeltaX() float64 {
	if !g.down {
		return 0
	}
	dx := g.lastX - g.startX
	dy := g.lastY - g.startY
	if abs(dy) > abs(dx) {
		return 0
	}
	return dx
}

// End completes the gesture and returns its classification. The
// interpreter resets and is ready for the next press.
func (g *Interpreter) End() Kind {
	if !g.down {
		return None
	}
	g.down = false

	dx := g.lastX - g.startX
	dy := g.lastY - g.startY

	// Tap: below the drag threshold in both axes.
	if abs(dx) < g.DragThreshold && abs(dy) < g.DragThreshold {
		return Flip
	}

	// Dominantly vertical movement is scroll intent, never a judgment.
	if abs(dy) > abs(dx) {
		return Cancelled
	}

	switch {
	case dx > g.DecisionThreshold:
		return Known
	case dx < -g.DecisionThreshold:
		return Unknown
	default:
		return Cancelled
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
