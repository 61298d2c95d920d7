package termgrid

import (
	"fmt"
	"unicode/utf8"

	"github.com/termgrid/termgrid/driver"
)

// Screen reconciles caller-built frames against the physical terminal.
// It owns one front buffer mirroring the last state pushed to the
// terminal and remembers the geometry of the last push. All terminal I/O
// goes through the driver supplied at construction.
//
// A Screen is not safe for concurrent use: callers must serialize frame
// production and Push, typically from a single rendering loop.
type Screen struct {
	drv        driver.Driver
	front      *Buffer
	lastHeight int
	lastWidth  int
}

// NewScreen creates a screen driving the given terminal driver. The front
// buffer starts empty, so the first Push always clears the terminal.
func NewScreen(d driver.Driver) *Screen {
	return &Screen{drv: d, front: &Buffer{}}
}

// Init acquires the terminal through the driver. It must be paired with
// Fini.
func (s *Screen) Init() error {
	if err := s.drv.Init(); err != nil {
		return fmt.Errorf("driver init: %w", err)
	}
	return nil
}

// Fini releases the terminal through the driver.
func (s *Screen) Fini() error {
	return s.drv.Fini()
}

// Size reports the current terminal dimensions.
func (s *Screen) Size() (height, width int, err error) {
	return s.drv.Size()
}

// PollEvent blocks until the driver delivers the next input event.
func (s *Screen) PollEvent() (driver.Event, error) {
	return s.drv.PollEvent()
}

// FrontCell returns a copy of the front buffer's cell at 1-based
// (row, col). The front buffer itself is never exposed for mutation.
func (s *Screen) FrontCell(row, col int) Cell {
	return s.front.Cell(row, col)
}

// Push diffs target against the front buffer and emits the minimal
// terminal instructions needed to converge the display, then flushes.
//
// When target's geometry differs from the last push, the terminal is
// fully cleared first: an incremental diff across a geometry change can
// leave stale characters when the new frame is smaller in a dimension.
// Within a row, sequential writes rely on the terminal's natural cursor
// advance, so a reposition is emitted only when the previous written cell
// was not in the column directly before the current one. Total character
// writes are proportional to the number of changed cells, never to the
// frame area.
//
// Any driver failure aborts the push and propagates. The front buffer
// keeps the partial state already written; the next successful Push diffs
// against those actual values, so drift self-heals.
//
// The target buffer must not be mutated for the duration of the call.
func (s *Screen) Push(target *Buffer) error {
	height, width := target.Size()

	if height != s.lastHeight || width != s.lastWidth {
		if err := s.drv.Clear(); err != nil {
			return fmt.Errorf("clear screen: %w", err)
		}
		s.front.Clear()
		s.lastHeight = height
		s.lastWidth = width
	}
	if err := s.front.Resize(height, width); err != nil {
		return err
	}

	var enc [utf8.UTFMax]byte
	for row := 1; row <= height; row++ {
		frontRow := s.front.Row(row)
		targetRow := target.Row(row)
		// Column of the previous write in this row. Reset to an
		// out-of-range sentinel so row boundaries never suppress a
		// needed reposition.
		last := -1
		for col := 1; col <= width; col++ {
			c := targetRow[col-1]
			if frontRow[col-1] == c {
				continue
			}
			if last != col-1 {
				if err := s.drv.MoveTo(row, col); err != nil {
					return fmt.Errorf("move cursor: %w", err)
				}
			}
			n := utf8.EncodeRune(enc[:], c.Rune)
			if err := s.drv.Write(enc[:n]); err != nil {
				return fmt.Errorf("write cell: %w", err)
			}
			// Recorded only after the driver accepts the bytes, so a
			// failed push never marks cells the terminal did not receive.
			frontRow[col-1] = c
			last = col
		}
	}

	if err := s.drv.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
