// Package termgrid is the rendering core of a terminal cell-grid display
// library. It models the terminal as a grid of character cells: callers
// compose frames into owned Buffers (directly or through cursor Writers)
// and hand each frame to a Screen, which diffs it against its mirror of
// the last rendered state and drives a terminal driver with the minimal
// cursor-movement and character-write instructions needed to converge.
//
// Concrete drivers live in the driver subpackages; the core consumes them
// only through the narrow driver.Driver contract.
package termgrid
