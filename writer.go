package termgrid

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Writer is a sequential cursor writer bound to a Buffer. It decodes an
// incoming byte stream into codepoints and paints them into cells,
// advancing a (row, col) position across calls. Writers are ephemeral,
// non-owning views: construct one per paint operation and discard it.
//
// Two overflow policies exist. In truncate mode (CursorAt) text past the
// last column is dropped until the next newline. In wrap mode
// (WrappedCursorAt) it continues on the next row at column 1. Wrapping is
// applied lazily, just before the next character is written once the
// cursor has moved past the edge.
type Writer struct {
	buf  *Buffer
	row  int
	col  int
	wrap bool
	cm   *charmap.Charmap // nil means UTF-8 input
}

// CursorAt returns a truncate-mode writer positioned at 1-based (row, col).
func CursorAt(buf *Buffer, row, col int) *Writer {
	return &Writer{buf: buf, row: row, col: col}
}

// WrappedCursorAt returns a wrap-mode writer positioned at 1-based (row, col).
func WrappedCursorAt(buf *Buffer, row, col int) *Writer {
	return &Writer{buf: buf, row: row, col: col, wrap: true}
}

// WithCharmap switches input decoding from UTF-8 to the given single-byte
// legacy charset. Bytes the charset does not map fail with ErrInvalidRune.
// It returns w for chaining.
func (w *Writer) WithCharmap(cm *charmap.Charmap) *Writer {
	w.cm = cm
	return w
}

// Position returns the writer's current 1-based (row, col).
func (w *Writer) Position() (row, col int) {
	return w.row, w.col
}

// Write decodes p and paints it into the buffer, implementing io.Writer.
//
// Per decoded codepoint: a pending wrap is applied first; if the row has
// advanced past the buffer height, writing stops silently and the bytes
// consumed so far are reported with a nil error. A newline resets the
// column to 1 and advances the row regardless of mode. Any other
// codepoint is written when the column is in range, and the column always
// advances by one, so truncate mode skips an overflowing row's remainder
// until the next newline.
//
// Decode failures return ErrInvalidEncoding (malformed input) or
// ErrInvalidRune (unmappable byte); output written before the failure
// stays in the buffer.
func (w *Writer) Write(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		var r rune
		var size int
		if w.cm != nil {
			r = w.cm.DecodeByte(p[n])
			size = 1
			if r == utf8.RuneError {
				return n, fmt.Errorf("%w: byte 0x%02X has no mapping in %v", ErrInvalidRune, p[n], w.cm)
			}
		} else {
			r, size = utf8.DecodeRune(p[n:])
			if r == utf8.RuneError && size <= 1 {
				return n, fmt.Errorf("%w: malformed UTF-8 at offset %d", ErrInvalidEncoding, n)
			}
		}

		if w.wrap && w.col > w.buf.width {
			w.col = 1
			w.row++
		}
		if w.row > w.buf.height {
			return n, nil
		}

		if r == '\n' {
			w.col = 1
			w.row++
			n += size
			continue
		}

		if w.col >= 1 && w.col <= w.buf.width {
			w.buf.cells[(w.row-1)*w.buf.width+(w.col-1)] = Cell{Rune: r}
		}
		w.col++
		n += size
	}
	return n, nil
}

// WriteString paints s into the buffer.
func (w *Writer) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}
