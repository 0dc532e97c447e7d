package game

// BubbleState tracks a bubble through its lifecycle.
type BubbleState string

const (
	StateInFlight BubbleState = "inFlight"
	StateSettled  BubbleState = "settled"
	StateFalling  BubbleState = "falling"
	StateRemoved  BubbleState = "removed"
)

// Bubble is the unit game piece. While settled it is addressed by (Row, Col)
// and owned by the Grid; in flight or falling it lives at a free world
// position (X, Y).
type Bubble struct {
	Row   int         `json:"row"`
	Col   int         `json:"col"`
	X     float64     `json:"x"`
	Y     float64     `json:"y"`
	Color int         `json:"color"`
	State BubbleState `json:"state"`
}

func NewBubble(row, col, color int) *Bubble {
	return &Bubble{Row: row, Col: col, Color: color, State: StateSettled}
}
