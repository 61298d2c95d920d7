package termgrid

// Cell represents a single character position in a grid buffer.
// Cells are value types: they are copied, never shared, when moved
// between buffers. Equality is codepoint equality; style attributes
// are a reserved future extension and are not modeled.
type Cell struct {
	// Rune is the Unicode scalar value displayed at this position.
	Rune rune
}

// EmptyCell returns the default cell, a plain space.
func EmptyCell() Cell {
	return Cell{Rune: ' '}
}

// NewCell creates a cell holding the given rune.
func NewCell(r rune) Cell {
	return Cell{Rune: r}
}
