package termgrid

import "fmt"

// Buffer is an owned, resizable 2-D grid of Cells representing one full
// screen's content. Storage is contiguous and row-major, which keeps the
// reconciler's diff scan cache-friendly. The public coordinate contract is
// 1-based: row in [1, height], column in [1, width]. Out-of-range access is
// a programming error and panics; it is never reported as a recoverable
// error.
//
// A Buffer exclusively owns its cell store. Blit copies values only and
// creates no relationship between source and destination.
type Buffer struct {
	height int
	width  int
	cells  []Cell
}

// New creates a buffer with the given dimensions, every cell set to the
// default Cell. Negative dimensions are rejected with ErrInvalidSize.
func New(height, width int) (*Buffer, error) {
	if height < 0 || width < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, height, width)
	}
	b := &Buffer{
		height: height,
		width:  width,
		cells:  make([]Cell, height*width),
	}
	b.Clear()
	return b, nil
}

// Height returns the number of rows.
func (b *Buffer) Height() int {
	return b.height
}

// Width returns the number of columns.
func (b *Buffer) Width() int {
	return b.width
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (height, width int) {
	return b.height, b.width
}

// Clear overwrites every cell with the default Cell. No allocation.
func (b *Buffer) Clear() {
	b.Fill(EmptyCell())
}

// Fill overwrites every cell with the given value. No allocation.
func (b *Buffer) Fill(c Cell) {
	for i := range b.cells {
		b.cells[i] = c
	}
}

// Row returns the contiguous slice of width cells for 1-based row n.
// The slice aliases the buffer's store: writes through it mutate the
// buffer directly.
func (b *Buffer) Row(n int) []Cell {
	if n < 1 || n > b.height {
		panic(fmt.Sprintf("termgrid: row %d out of range [1,%d]", n, b.height))
	}
	start := (n - 1) * b.width
	return b.cells[start : start+b.width]
}

// Cell returns a copy of the cell at 1-based (row, col).
func (b *Buffer) Cell(row, col int) Cell {
	return *b.ref(row, col)
}

// CellRef returns a mutable reference to the cell at 1-based (row, col).
// The pointer is invalidated by Resize.
func (b *Buffer) CellRef(row, col int) *Cell {
	return b.ref(row, col)
}

// SetCell writes the cell at 1-based (row, col).
func (b *Buffer) SetCell(row, col int, c Cell) {
	*b.ref(row, col) = c
}

func (b *Buffer) ref(row, col int) *Cell {
	if row < 1 || row > b.height || col < 1 || col > b.width {
		panic(fmt.Sprintf("termgrid: cell (%d,%d) out of range [1,%d]x[1,%d]",
			row, col, b.height, b.width))
	}
	return &b.cells[(row-1)*b.width+(col-1)]
}

// Resize changes the buffer to the new dimensions, preserving the
// overlapping top-left rectangle. Grown regions are default cells;
// shrunk regions are discarded. A resize to the current dimensions is a
// no-op. On error the buffer's prior state remains valid.
func (b *Buffer) Resize(height, width int) error {
	if height == b.height && width == b.width {
		return nil
	}
	if height < 0 || width < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, height, width)
	}

	cells := make([]Cell, height*width)
	for i := range cells {
		cells[i] = EmptyCell()
	}

	copyHeight := min(b.height, height)
	copyWidth := min(b.width, width)
	for r := 0; r < copyHeight; r++ {
		copy(cells[r*width:r*width+copyWidth], b.cells[r*b.width:r*b.width+copyWidth])
	}

	b.height = height
	b.width = width
	b.cells = cells
	return nil
}

// Blit composites src onto b so that src's cell (sr, sc) lands at
// (rowOff+sr-1, colOff+sc-1). Offsets may be zero or negative; any cell
// pair with an out-of-bounds destination coordinate is silently skipped.
// Clipping here lets callers composite partially off-screen content
// without pre-clipping geometry.
func (b *Buffer) Blit(src *Buffer, rowOff, colOff int) {
	for sr := 1; sr <= src.height; sr++ {
		dr := rowOff + sr - 1
		if dr < 1 || dr > b.height {
			continue
		}
		srcRow := src.cells[(sr-1)*src.width : sr*src.width]
		dstRow := b.cells[(dr-1)*b.width : dr*b.width]
		for sc := 1; sc <= src.width; sc++ {
			dc := colOff + sc - 1
			if dc < 1 || dc > b.width {
				continue
			}
			dstRow[dc-1] = srcRow[sc-1]
		}
	}
}
