// Package tcelldrv implements the driver contract on top of tcell,
// trading direct escape-sequence control for tcell's terminfo database
// and cross-platform support. It also backs the simulation-screen tests.
package tcelldrv

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/termgrid/termgrid/driver"
)

// Driver adapts a tcell.Screen to the driver contract. tcell keeps its
// own back buffer, so Write paints cells at a tracked pen position and
// Flush maps to Show.
type Driver struct {
	screen   tcell.Screen
	penRow   int // 1-based
	penCol   int // 1-based
	catching bool
	started  bool
}

// New creates a driver on the process terminal.
func New() (*Driver, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return NewWithScreen(screen), nil
}

// NewWithScreen wraps an existing screen, typically a
// tcell.SimulationScreen in tests.
func NewWithScreen(screen tcell.Screen) *Driver {
	return &Driver{screen: screen, penRow: 1, penCol: 1}
}

func (d *Driver) Init() error {
	if d.started {
		return nil
	}
	if err := d.screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	d.penRow, d.penCol = 1, 1
	d.started = true
	return nil
}

func (d *Driver) Fini() error {
	if !d.started {
		return nil
	}
	d.started = false
	d.screen.Fini()
	return nil
}

func (d *Driver) Size() (int, int, error) {
	w, h := d.screen.Size()
	if w <= 0 || h <= 0 {
		return 0, 0, driver.ErrSizeUnavailable
	}
	return h, w, nil
}

func (d *Driver) Clear() error {
	d.screen.Clear()
	d.penRow, d.penCol = 1, 1
	return nil
}

func (d *Driver) MoveTo(row, col int) error {
	d.penRow, d.penCol = row, col
	return nil
}

// Write paints text at the pen position, advancing the pen one display
// column per grapheme cluster width. Combining marks attach to their
// base cell rather than occupying their own.
func (d *Driver) Write(p []byte) error {
	g := uniseg.NewGraphemes(string(p))
	for g.Next() {
		runes := g.Runes()
		main := runes[0]
		var comb []rune
		if len(runes) > 1 {
			comb = runes[1:]
		}
		d.screen.SetContent(d.penCol-1, d.penRow-1, main, comb, tcell.StyleDefault)
		w := runewidth.StringWidth(g.Str())
		if w < 1 {
			w = 1
		}
		d.penCol += w
	}
	return nil
}

func (d *Driver) Flush() error {
	d.screen.Show()
	return nil
}

// CatchInterrupts maps Ctrl+C key events to EventInterrupt. tcell owns
// the terminal's signal handling, so interception happens at the event
// layer rather than via os/signal.
func (d *Driver) CatchInterrupts() {
	d.catching = true
}

func (d *Driver) IgnoreInterrupts() {
	d.catching = false
}

func (d *Driver) PollEvent() (driver.Event, error) {
	for {
		tev := d.screen.PollEvent()
		if tev == nil {
			return driver.Event{Type: driver.EventClosed}, driver.ErrClosed
		}
		ev := d.convert(tev)
		if ev.Type == driver.EventNone {
			continue
		}
		return ev, nil
	}
}

func (d *Driver) convert(tev tcell.Event) driver.Event {
	switch e := tev.(type) {
	case *tcell.EventKey:
		ev := driver.Event{
			Type: driver.EventKey,
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
			Mod:  convertMod(e.Modifiers()),
		}
		if d.catching && ev.Key == driver.KeyCtrlC {
			return driver.Event{Type: driver.EventInterrupt}
		}
		return ev
	case *tcell.EventResize:
		w, h := e.Size()
		return driver.Event{Type: driver.EventResize, Height: h, Width: w}
	default:
		return driver.Event{Type: driver.EventNone}
	}
}

// convertKey maps tcell keys onto the driver key space. The control-key
// aliases tcell shares with Enter, Tab, Backspace, and Escape resolve to
// the named keys.
func convertKey(k tcell.Key) driver.Key {
	switch k {
	case tcell.KeyRune:
		return driver.KeyRune
	case tcell.KeyEscape:
		return driver.KeyEscape
	case tcell.KeyEnter:
		return driver.KeyEnter
	case tcell.KeyTab:
		return driver.KeyTab
	case tcell.KeyBacktab:
		return driver.KeyBacktab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return driver.KeyBackspace
	case tcell.KeyDelete:
		return driver.KeyDelete
	case tcell.KeyInsert:
		return driver.KeyInsert
	case tcell.KeyHome:
		return driver.KeyHome
	case tcell.KeyEnd:
		return driver.KeyEnd
	case tcell.KeyPgUp:
		return driver.KeyPageUp
	case tcell.KeyPgDn:
		return driver.KeyPageDown
	case tcell.KeyUp:
		return driver.KeyUp
	case tcell.KeyDown:
		return driver.KeyDown
	case tcell.KeyLeft:
		return driver.KeyLeft
	case tcell.KeyRight:
		return driver.KeyRight
	case tcell.KeyCtrlSpace:
		return driver.KeyCtrlSpace
	}
	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return driver.KeyF1 + driver.Key(k-tcell.KeyF1)
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return driver.KeyCtrlA + driver.Key(k-tcell.KeyCtrlA)
	}
	return driver.KeyNone
}

func convertMod(m tcell.ModMask) driver.ModMask {
	var mod driver.ModMask
	if m&tcell.ModShift != 0 {
		mod |= driver.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mod |= driver.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mod |= driver.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mod |= driver.ModMeta
	}
	return mod
}

var _ driver.Driver = (*Driver)(nil)
