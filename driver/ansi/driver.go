//go:build unix

// Package ansi implements the driver contract on a raw Unix terminal
// using VT/ANSI escape sequences. Output goes through a buffered writer
// and an optional legacy-charset encoder; input is decoded from the raw
// byte stream into driver events.
package ansi

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
	"golang.org/x/text/encoding"

	"github.com/termgrid/termgrid/driver"
)

const outBufSize = 64 * 1024

// Driver talks to a Unix terminal over two file handles. It is not safe
// for concurrent use except PollEvent, which may run on its own goroutine.
type Driver struct {
	in    *os.File
	out   *os.File
	inFd  int
	outFd int

	w       *bufio.Writer
	encoder *encoding.Encoder // nil for UTF-8 passthrough
	saved   *term.State

	events chan driver.Event
	stopCh chan struct{}
	doneCh chan struct{}

	sigwinch chan os.Signal
	sigDone  chan struct{}

	// intMu guards interrupts alone; the signal goroutine reads it every
	// iteration while mu may be held across Fini.
	intMu      sync.Mutex
	interrupts chan os.Signal

	mu      sync.Mutex
	started bool
}

// New creates a driver bound to the given input and output handles.
func New(in, out *os.File) *Driver {
	return &Driver{
		in:     in,
		out:    out,
		inFd:   int(in.Fd()),
		outFd:  int(out.Fd()),
		w:      bufio.NewWriterSize(out, outBufSize),
		events: make(chan driver.Event, 32),
	}
}

// NewStd creates a driver bound to stdin and stdout.
func NewStd() *Driver {
	return New(os.Stdin, os.Stdout)
}

// SetEncoding selects the output charset by name (e.g. "UTF-8",
// "ISO-8859-1"). Runes the charset cannot represent are substituted.
// Must be called before Init.
func (d *Driver) SetEncoding(name string) error {
	enc := lookupEncoding(name)
	if enc == nil {
		return fmt.Errorf("%w: %q", driver.ErrUnknownEncoding, name)
	}
	d.encoder = enc.NewEncoder()
	return nil
}

// Init switches the terminal to raw mode, enters the alternate screen,
// hides the cursor, and starts the input and resize goroutines.
func (d *Driver) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return nil
	}
	if !term.IsTerminal(d.inFd) {
		return fmt.Errorf("input fd %d: %w", d.inFd, driver.ErrNotTerminal)
	}

	saved, err := term.MakeRaw(d.inFd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	d.saved = saved

	d.w.Write(csiAltScreenEnter)
	d.w.Write(csiCursorHide)
	d.w.Write(csiAutoWrapOff)
	d.w.Write(csiClear)
	if err := d.w.Flush(); err != nil {
		term.Restore(d.inFd, d.saved)
		d.saved = nil
		return fmt.Errorf("terminal setup: %w", err)
	}

	// The read loop closes the event channel on shutdown, so each
	// lifecycle gets a fresh one.
	d.events = make(chan driver.Event, 32)
	d.stopCh = make(chan struct{})
	d.doneCh = make(chan struct{})
	d.sigDone = make(chan struct{})
	d.sigwinch = make(chan os.Signal, 1)
	signal.Notify(d.sigwinch, syscall.SIGWINCH)

	go d.readLoop()
	go d.signalLoop()

	d.started = true
	return nil
}

// Fini stops the goroutines, restores the terminal state, and leaves the
// alternate screen. Safe to call more than once.
func (d *Driver) Fini() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		return nil
	}
	d.started = false

	close(d.stopCh)
	signal.Stop(d.sigwinch)
	d.intMu.Lock()
	if d.interrupts != nil {
		signal.Stop(d.interrupts)
	}
	d.intMu.Unlock()
	<-d.doneCh
	<-d.sigDone
	// Both posting goroutines have exited; unblock any PollEvent caller.
	close(d.events)

	d.w.Write(csiSGR0)
	d.w.Write(csiAutoWrapOn)
	d.w.Write(csiCursorShow)
	d.w.Write(csiAltScreenExit)
	flushErr := d.w.Flush()

	var restoreErr error
	if d.saved != nil {
		restoreErr = term.Restore(d.inFd, d.saved)
		d.saved = nil
	}
	if flushErr != nil {
		return fmt.Errorf("terminal teardown: %w", flushErr)
	}
	if restoreErr != nil {
		return fmt.Errorf("restore terminal: %w", restoreErr)
	}
	return nil
}

// Size queries the kernel for the terminal dimensions.
func (d *Driver) Size() (int, int, error) {
	ws, err := unix.IoctlGetWinsize(d.outFd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", driver.ErrSizeUnavailable, err)
	}
	return int(ws.Row), int(ws.Col), nil
}

func (d *Driver) Clear() error {
	_, err := d.w.Write(csiClear)
	return err
}

func (d *Driver) MoveTo(row, col int) error {
	writeCursorPos(d.w, row, col)
	return nil
}

func (d *Driver) Write(p []byte) error {
	if d.encoder != nil {
		enc, err := d.encoder.Bytes(p)
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		p = enc
	}
	_, err := d.w.Write(p)
	return err
}

func (d *Driver) Flush() error {
	return d.w.Flush()
}

// CatchInterrupts routes SIGINT and SIGTERM to the event queue as
// EventInterrupt instead of killing the process.
func (d *Driver) CatchInterrupts() {
	d.intMu.Lock()
	defer d.intMu.Unlock()
	if d.interrupts == nil {
		d.interrupts = make(chan os.Signal, 1)
	}
	signal.Notify(d.interrupts, syscall.SIGINT, syscall.SIGTERM)
}

// IgnoreInterrupts restores default signal disposition for SIGINT and
// SIGTERM.
func (d *Driver) IgnoreInterrupts() {
	d.intMu.Lock()
	defer d.intMu.Unlock()
	if d.interrupts != nil {
		signal.Stop(d.interrupts)
	}
}

// PollEvent blocks until the next decoded input, resize, or interrupt
// event. Returns ErrClosed after Fini.
func (d *Driver) PollEvent() (driver.Event, error) {
	ev, ok := <-d.events
	if !ok {
		return driver.Event{Type: driver.EventClosed}, driver.ErrClosed
	}
	return ev, nil
}

// post delivers an event unless shutdown has begun.
func (d *Driver) post(ev driver.Event) {
	select {
	case d.events <- ev:
	case <-d.stopCh:
	}
}

// signalLoop turns SIGWINCH into resize events and, when armed, SIGINT
// and SIGTERM into interrupt events.
func (d *Driver) signalLoop() {
	defer close(d.sigDone)
	for {
		// interrupts may be nil; a nil channel receive blocks forever.
		d.intMu.Lock()
		intCh := d.interrupts
		d.intMu.Unlock()

		select {
		case <-d.stopCh:
			return
		case <-d.sigwinch:
			h, w, err := d.Size()
			if err != nil {
				continue
			}
			d.post(driver.Event{Type: driver.EventResize, Height: h, Width: w})
		case <-intCh:
			d.post(driver.Event{Type: driver.EventInterrupt})
		}
	}
}

// readLoop reads raw bytes off the terminal and feeds the decoder.
// A short poll timeout lets a pending lone ESC resolve as a keypress and
// lets shutdown interrupt the loop.
func (d *Driver) readLoop() {
	defer close(d.doneCh)

	buf := make([]byte, 256)
	var pending []byte

	for {
		select {
		case <-d.stopCh:
			return
		default:
		}

		fds := []unix.PollFd{{Fd: int32(d.inFd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, 50)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}
		if n == 0 {
			// Timeout. A lone ESC with no continuation is the
			// Escape key.
			if len(pending) == 1 && pending[0] == 0x1b {
				d.post(driver.Event{Type: driver.EventKey, Key: driver.KeyEscape})
				pending = pending[:0]
			}
			continue
		}

		rn, err := unix.Read(d.inFd, buf)
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return
		}
		if rn == 0 {
			return
		}

		pending = append(pending, buf[:rn]...)
		for len(pending) > 0 {
			consumed := parseInput(pending, d.post)
			if consumed == 0 {
				break
			}
			pending = pending[consumed:]
		}
		if len(pending) == 0 {
			pending = nil
		}
	}
}

var _ driver.Driver = (*Driver)(nil)
