// Package driver defines the terminal-driver contract consumed by the
// termgrid reconciler, the input event model shared by all drivers, and a
// Null driver for tests. Concrete implementations live in the ansi and
// tcelldrv subpackages.
package driver

import "errors"

// Driver errors.
var (
	// ErrNotTerminal indicates the input handle is not a terminal.
	ErrNotTerminal = errors.New("not a terminal")

	// ErrClosed indicates the driver has been shut down.
	ErrClosed = errors.New("driver closed")

	// ErrSizeUnavailable indicates the terminal size could not be determined.
	ErrSizeUnavailable = errors.New("terminal size unavailable")

	// ErrUnknownEncoding indicates an output charset the driver does not know.
	ErrUnknownEncoding = errors.New("unknown encoding")
)

// Driver is the narrow interface to a physical (or simulated) terminal.
// Implementations handle raw-mode acquisition, cursor movement, byte
// output, and input decoding; the rendering core never touches the
// terminal directly.
type Driver interface {
	// Init acquires the terminal (raw mode, screen state).
	// Must be paired with Fini.
	Init() error

	// Fini releases the terminal and restores its prior state.
	Fini() error

	// Size returns the current terminal dimensions.
	Size() (height, width int, err error)

	// Clear emits the full-screen clear control sequence.
	Clear() error

	// MoveTo positions the cursor at 1-based (row, col).
	MoveTo(row, col int) error

	// Write emits encoded text to the output stream. Output is
	// buffered; nothing reaches the terminal until Flush.
	Write(p []byte) error

	// Flush forces buffered output to the terminal.
	Flush() error

	// CatchInterrupts intercepts process-terminating signals and
	// delivers them as EventInterrupt instead, so callers can tear
	// down gracefully.
	CatchInterrupts()

	// IgnoreInterrupts stops intercepting interrupt signals.
	IgnoreInterrupts()

	// PollEvent blocks until the next decoded input event.
	PollEvent() (Event, error)
}
