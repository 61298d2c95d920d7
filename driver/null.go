package driver

// OpKind identifies a recorded driver instruction.
type OpKind int

const (
	OpClear OpKind = iota
	OpMoveTo
	OpWrite
	OpFlush
)

// Op is one instruction received by a Null driver.
type Op struct {
	Kind     OpKind
	Row, Col int    // OpMoveTo
	Bytes    []byte // OpWrite
}

// Null is an in-memory Driver for testing. It records every instruction
// it receives and simulates a terminal's natural cursor advance, so tests
// can assert both exact instruction counts and the final visible state.
// Like the reconciler it serves, it is not safe for concurrent use; only
// the event queue may be fed from another goroutine.
type Null struct {
	height, width int
	ops           []Op
	cells         [][]rune
	curRow        int
	curCol        int
	events        chan Event
	catching      bool
	initCount     int
	finiCount     int

	// Injectable failures, returned once set.
	ClearErr  error
	MoveToErr error
	WriteErr  error
	FlushErr  error
}

// NewNull creates a null driver reporting the given terminal size.
func NewNull(height, width int) *Null {
	d := &Null{
		height: height,
		width:  width,
		events: make(chan Event, 128),
	}
	d.resetCells()
	return d
}

func (d *Null) resetCells() {
	d.cells = make([][]rune, d.height)
	for r := range d.cells {
		d.cells[r] = make([]rune, d.width)
		for c := range d.cells[r] {
			d.cells[r][c] = ' '
		}
	}
}

func (d *Null) Init() error {
	d.initCount++
	return nil
}

func (d *Null) Fini() error {
	d.finiCount++
	return nil
}

func (d *Null) Size() (int, int, error) {
	if d.height <= 0 || d.width <= 0 {
		return 0, 0, ErrSizeUnavailable
	}
	return d.height, d.width, nil
}

// SetSize simulates a terminal resize for testing.
func (d *Null) SetSize(height, width int) {
	d.height = height
	d.width = width
	d.resetCells()
}

func (d *Null) Clear() error {
	if d.ClearErr != nil {
		return d.ClearErr
	}
	d.ops = append(d.ops, Op{Kind: OpClear})
	d.resetCells()
	d.curRow, d.curCol = 1, 1
	return nil
}

func (d *Null) MoveTo(row, col int) error {
	if d.MoveToErr != nil {
		return d.MoveToErr
	}
	d.ops = append(d.ops, Op{Kind: OpMoveTo, Row: row, Col: col})
	d.curRow, d.curCol = row, col
	return nil
}

func (d *Null) Write(p []byte) error {
	if d.WriteErr != nil {
		return d.WriteErr
	}
	cp := make([]byte, len(p))
	copy(cp, p)
	d.ops = append(d.ops, Op{Kind: OpWrite, Bytes: cp})

	// Natural cursor advance, one column per rune.
	for _, r := range string(p) {
		if d.curRow >= 1 && d.curRow <= d.height && d.curCol >= 1 && d.curCol <= d.width {
			d.cells[d.curRow-1][d.curCol-1] = r
		}
		d.curCol++
	}
	return nil
}

func (d *Null) Flush() error {
	if d.FlushErr != nil {
		return d.FlushErr
	}
	d.ops = append(d.ops, Op{Kind: OpFlush})
	return nil
}

func (d *Null) CatchInterrupts() {
	d.catching = true
}

func (d *Null) IgnoreInterrupts() {
	d.catching = false
}

// Catching reports whether interrupts are currently intercepted.
func (d *Null) Catching() bool {
	return d.catching
}

func (d *Null) PollEvent() (Event, error) {
	ev, ok := <-d.events
	if !ok {
		return Event{Type: EventClosed}, ErrClosed
	}
	return ev, nil
}

// PostEvent queues a synthetic event for PollEvent. Events are dropped if
// the queue is full, keeping tests non-blocking.
func (d *Null) PostEvent(ev Event) {
	select {
	case d.events <- ev:
	default:
	}
}

// CloseEvents closes the event queue; subsequent PollEvent calls report
// ErrClosed.
func (d *Null) CloseEvents() {
	close(d.events)
}

// Ops returns every instruction recorded since the last ResetOps.
func (d *Null) Ops() []Op {
	return d.ops
}

// ResetOps clears the recorded instruction log without touching the
// simulated display.
func (d *Null) ResetOps() {
	d.ops = nil
}

// Count returns how many recorded instructions have the given kind.
func (d *Null) Count(kind OpKind) int {
	n := 0
	for _, op := range d.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Line returns the simulated display content of 1-based row n.
func (d *Null) Line(n int) string {
	if n < 1 || n > d.height {
		return ""
	}
	return string(d.cells[n-1])
}

// InitCount and FiniCount report lifecycle pairing for tests.
func (d *Null) InitCount() int { return d.initCount }
func (d *Null) FiniCount() int { return d.finiCount }

var _ Driver = (*Null)(nil)
