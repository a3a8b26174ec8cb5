package clock

// buttonCount is the number of physical control buttons.
const buttonCount = 3

// Debouncer turns raw button samples into pressed edges. A button reports
// an edge when the current sample is pressed and the immediately preceding
// sample was not. Previous-sample state updates unconditionally on every
// call, so a held button yields exactly one edge and a release re-arms it.
type Debouncer struct {
	prev [buttonCount]bool
}

// NewDebouncer creates a debouncer with all buttons assumed released. A
// button already held at the first sample therefore reports an edge.
func NewDebouncer() *Debouncer {
	return &Debouncer{}
}

// Sample consumes one poll of the three buttons and returns the buttons
// that saw a pressed edge, in fixed order: start/stop, swap, reset.
func (d *Debouncer) Sample(startStop, swap, reset bool) []Button {
	cur := [buttonCount]bool{startStop, swap, reset}

	var edges []Button
	for b := BtnStartStop; b <= BtnReset; b++ {
		if cur[b] && !d.prev[b] {
			edges = append(edges, b)
		}
	}
	d.prev = cur
	return edges
}
