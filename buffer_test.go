package termgrid

import (
	"errors"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b, err := New(24, 80)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	h, w := b.Size()
	if h != 24 || w != 80 {
		t.Errorf("expected size (24, 80), got (%d, %d)", h, w)
	}

	for row := 1; row <= 24; row++ {
		for col := 1; col <= 80; col++ {
			if b.Cell(row, col) != EmptyCell() {
				t.Fatalf("cell (%d,%d) not default after New", row, col)
			}
		}
	}
}

func TestNewBufferInvalidSize(t *testing.T) {
	if _, err := New(-1, 80); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("negative height: expected ErrInvalidSize, got %v", err)
	}
	if _, err := New(24, -1); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("negative width: expected ErrInvalidSize, got %v", err)
	}
}

func TestNewBufferZeroDimensions(t *testing.T) {
	b, err := New(0, 0)
	if err != nil {
		t.Fatalf("zero-sized buffer should be valid: %v", err)
	}
	if h, w := b.Size(); h != 0 || w != 0 {
		t.Errorf("expected size (0, 0), got (%d, %d)", h, w)
	}
}

func TestBufferSetGetCell(t *testing.T) {
	b, _ := New(3, 4)

	b.SetCell(2, 3, NewCell('X'))
	if got := b.Cell(2, 3); got.Rune != 'X' {
		t.Errorf("expected 'X', got %q", got.Rune)
	}

	// Corners exercise the index arithmetic at both extremes.
	b.SetCell(1, 1, NewCell('a'))
	b.SetCell(3, 4, NewCell('z'))
	if b.Cell(1, 1).Rune != 'a' {
		t.Error("top-left corner mismatch")
	}
	if b.Cell(3, 4).Rune != 'z' {
		t.Error("bottom-right corner mismatch")
	}
}

func TestBufferRoundtripAllCoordinates(t *testing.T) {
	b, _ := New(4, 6)

	for row := 1; row <= 4; row++ {
		for col := 1; col <= 6; col++ {
			want := NewCell(rune('A' + (row*6+col)%26))
			b.SetCell(row, col, want)
			if got := b.Cell(row, col); got != want {
				t.Fatalf("cell (%d,%d): expected %q, got %q", row, col, want.Rune, got.Rune)
			}
		}
	}
}

func TestBufferCellRef(t *testing.T) {
	b, _ := New(2, 2)

	ref := b.CellRef(1, 2)
	ref.Rune = 'Q'
	if b.Cell(1, 2).Rune != 'Q' {
		t.Error("write through CellRef should mutate the buffer")
	}
}

func TestBufferOutOfRangePanics(t *testing.T) {
	b, _ := New(3, 4)

	cases := []struct {
		name     string
		row, col int
	}{
		{"row zero", 0, 1},
		{"col zero", 1, 0},
		{"row past height", 4, 1},
		{"col past width", 1, 5},
		{"negative row", -1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Cell(%d, %d) should panic", tc.row, tc.col)
				}
			}()
			b.Cell(tc.row, tc.col)
		})
	}
}

func TestBufferRowAliasesStore(t *testing.T) {
	b, _ := New(3, 4)

	row := b.Row(2)
	if len(row) != 4 {
		t.Fatalf("expected row length 4, got %d", len(row))
	}
	row[0] = NewCell('R')
	if b.Cell(2, 1).Rune != 'R' {
		t.Error("write through Row slice should mutate the buffer")
	}

	defer func() {
		if recover() == nil {
			t.Error("Row(0) should panic")
		}
	}()
	b.Row(0)
}

func TestBufferFillAndClear(t *testing.T) {
	b, _ := New(2, 3)

	b.Fill(NewCell('#'))
	for row := 1; row <= 2; row++ {
		for col := 1; col <= 3; col++ {
			if b.Cell(row, col).Rune != '#' {
				t.Fatalf("cell (%d,%d) not filled", row, col)
			}
		}
	}

	b.Clear()
	for row := 1; row <= 2; row++ {
		for col := 1; col <= 3; col++ {
			if b.Cell(row, col) != EmptyCell() {
				t.Fatalf("cell (%d,%d) not cleared", row, col)
			}
		}
	}
}

func TestBufferResizePreservesOverlap(t *testing.T) {
	b, _ := New(3, 3)
	b.SetCell(1, 1, NewCell('a'))
	b.SetCell(2, 2, NewCell('b'))
	b.SetCell(3, 3, NewCell('c'))

	// Grow: overlap preserved, new region default.
	if err := b.Resize(4, 5); err != nil {
		t.Fatalf("grow: %v", err)
	}
	if b.Cell(1, 1).Rune != 'a' || b.Cell(2, 2).Rune != 'b' || b.Cell(3, 3).Rune != 'c' {
		t.Error("grow should preserve existing content")
	}
	if b.Cell(4, 5) != EmptyCell() {
		t.Error("grown region should hold default cells")
	}

	// Shrink: content outside the new bounds is discarded.
	if err := b.Resize(2, 2); err != nil {
		t.Fatalf("shrink: %v", err)
	}
	if b.Cell(1, 1).Rune != 'a' || b.Cell(2, 2).Rune != 'b' {
		t.Error("shrink should preserve the overlapping rectangle")
	}
	if h, w := b.Size(); h != 2 || w != 2 {
		t.Errorf("expected size (2, 2), got (%d, %d)", h, w)
	}
}

func TestBufferResizeSameSizeKeepsContent(t *testing.T) {
	b, _ := New(2, 2)
	b.SetCell(1, 2, NewCell('k'))

	if err := b.Resize(2, 2); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if b.Cell(1, 2).Rune != 'k' {
		t.Error("same-size resize should not touch content")
	}
}

func TestBufferResizeInvalid(t *testing.T) {
	b, _ := New(2, 2)
	b.SetCell(1, 1, NewCell('v'))

	if err := b.Resize(-1, 2); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
	// Prior state remains usable after a failed resize.
	if b.Cell(1, 1).Rune != 'v' {
		t.Error("failed resize should leave the buffer intact")
	}
}

func TestBufferBlitIdentity(t *testing.T) {
	src, _ := New(2, 2)
	src.SetCell(1, 1, NewCell('1'))
	src.SetCell(2, 2, NewCell('4'))

	dst, _ := New(2, 2)
	dst.Blit(src, 1, 1)

	if dst.Cell(1, 1).Rune != '1' || dst.Cell(2, 2).Rune != '4' {
		t.Error("identity blit should copy all cells")
	}

	// Value copy only: mutating the source afterwards must not affect dst.
	src.SetCell(1, 1, NewCell('X'))
	if dst.Cell(1, 1).Rune != '1' {
		t.Error("blit must copy values, not alias the source")
	}
}

func TestBufferBlitOffset(t *testing.T) {
	src, _ := New(2, 2)
	src.Fill(NewCell('s'))

	dst, _ := New(4, 4)
	dst.Blit(src, 2, 3)

	if dst.Cell(2, 3).Rune != 's' || dst.Cell(3, 4).Rune != 's' {
		t.Error("offset blit placed cells incorrectly")
	}
	if dst.Cell(1, 1) != EmptyCell() {
		t.Error("cells outside the blit region should be untouched")
	}
}

func TestBufferBlitClipsPartialOverlap(t *testing.T) {
	src, _ := New(3, 3)
	src.Fill(NewCell('s'))

	dst, _ := New(3, 3)
	// Source hangs off the top-left; only the bottom-right 2x2 of src lands.
	dst.Blit(src, 0, 0)

	if dst.Cell(1, 1).Rune != 's' || dst.Cell(2, 2).Rune != 's' {
		t.Error("overlapping cells should be copied")
	}
	if dst.Cell(3, 3) != EmptyCell() {
		t.Error("cell with no source counterpart should be untouched")
	}

	// Hanging off the bottom-right.
	dst2, _ := New(3, 3)
	dst2.Blit(src, 3, 3)
	if dst2.Cell(3, 3).Rune != 's' {
		t.Error("expected src (1,1) at dst (3,3)")
	}
	if dst2.Cell(2, 2) != EmptyCell() {
		t.Error("cells before the offset should be untouched")
	}
}

func TestBufferBlitFullyOutside(t *testing.T) {
	src, _ := New(2, 2)
	src.Fill(NewCell('s'))

	dst, _ := New(3, 3)
	dst.Blit(src, 10, 10)
	dst.Blit(src, -10, -10)

	for row := 1; row <= 3; row++ {
		for col := 1; col <= 3; col++ {
			if dst.Cell(row, col) != EmptyCell() {
				t.Fatalf("fully-outside blit wrote cell (%d,%d)", row, col)
			}
		}
	}
}
