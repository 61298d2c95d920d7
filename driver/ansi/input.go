//go:build unix

package ansi

import (
	"unicode/utf8"

	"github.com/termgrid/termgrid/driver"
)

// parseInput decodes the longest recognizable prefix of p, posting one
// event per decoded key. It returns the number of bytes consumed, or 0
// when p holds only an incomplete sequence and more bytes are needed.
// A lone ESC is reported incomplete; the read loop resolves it to the
// Escape key after a quiet interval.
func parseInput(p []byte, post func(driver.Event)) int {
	if len(p) == 0 {
		return 0
	}

	if p[0] == 0x1b {
		return parseEscape(p, post)
	}

	// Control bytes.
	switch p[0] {
	case 0x00:
		post(driver.Event{Type: driver.EventKey, Key: driver.KeyCtrlSpace, Mod: driver.ModCtrl})
		return 1
	case '\r', '\n':
		post(driver.Event{Type: driver.EventKey, Key: driver.KeyEnter})
		return 1
	case '\t':
		post(driver.Event{Type: driver.EventKey, Key: driver.KeyTab})
		return 1
	case 0x7f, 0x08:
		post(driver.Event{Type: driver.EventKey, Key: driver.KeyBackspace})
		return 1
	}
	if p[0] < 0x20 {
		key := driver.KeyCtrlA + driver.Key(p[0]-0x01)
		post(driver.Event{Type: driver.EventKey, Key: key, Mod: driver.ModCtrl})
		return 1
	}

	// Printable input, possibly multi-byte.
	if !utf8.FullRune(p) {
		if len(p) < utf8.UTFMax {
			return 0
		}
		// Garbage that will never complete; drop one byte.
		return 1
	}
	r, size := utf8.DecodeRune(p)
	if r == utf8.RuneError && size == 1 {
		return 1
	}
	post(driver.Event{Type: driver.EventKey, Key: driver.KeyRune, Rune: r})
	return size
}

// parseEscape decodes sequences that begin with ESC: CSI, SS3, and
// Alt-modified keys.
func parseEscape(p []byte, post func(driver.Event)) int {
	if len(p) < 2 {
		return 0
	}

	switch p[1] {
	case 0x1b:
		// Two ESCs in one burst; the first is the Escape key.
		post(driver.Event{Type: driver.EventKey, Key: driver.KeyEscape})
		return 1
	case '[':
		return parseCSI(p, post)
	case 'O':
		return parseSS3(p, post)
	}

	// ESC prefix on an ordinary key means Alt was held.
	sub := p[1:]
	consumed := parseInput(sub, func(ev driver.Event) {
		ev.Mod |= driver.ModAlt
		post(ev)
	})
	if consumed == 0 {
		return 0
	}
	return 1 + consumed
}

// csiFinal reports whether b terminates a CSI sequence.
func csiFinal(b byte) bool {
	return b >= 0x40 && b <= 0x7e
}

// parseCSI decodes ESC [ params final. Parameters are semicolon-separated
// decimal numbers; the second parameter carries xterm modifier state.
func parseCSI(p []byte, post func(driver.Event)) int {
	// Find the final byte.
	end := -1
	for i := 2; i < len(p); i++ {
		if csiFinal(p[i]) {
			end = i
			break
		}
		if i-2 > 16 {
			// Runaway sequence; discard the introducer.
			return 2
		}
	}
	if end == -1 {
		return 0
	}

	params := [4]int{}
	nparams := 0
	cur := 0
	seen := false
	for _, b := range p[2:end] {
		switch {
		case b >= '0' && b <= '9':
			cur = cur*10 + int(b-'0')
			seen = true
		case b == ';':
			if nparams < len(params) {
				params[nparams] = cur
				nparams++
			}
			cur, seen = 0, false
		default:
			// Private markers and intermediates are not produced
			// by the keys we decode; drop the sequence.
			return end + 1
		}
	}
	if seen && nparams < len(params) {
		params[nparams] = cur
		nparams++
	}

	mod := driver.ModNone
	if nparams >= 2 && params[1] > 1 {
		mod = decodeModifier(params[1])
	}

	key := driver.KeyNone
	switch p[end] {
	case 'A':
		key = driver.KeyUp
	case 'B':
		key = driver.KeyDown
	case 'C':
		key = driver.KeyRight
	case 'D':
		key = driver.KeyLeft
	case 'H':
		key = driver.KeyHome
	case 'F':
		key = driver.KeyEnd
	case 'Z':
		key = driver.KeyBacktab
	case '~':
		if nparams == 0 {
			return end + 1
		}
		key = tildeKey(params[0])
	default:
		return end + 1
	}
	if key == driver.KeyNone {
		return end + 1
	}
	post(driver.Event{Type: driver.EventKey, Key: key, Mod: mod})
	return end + 1
}

// tildeKey maps the first parameter of a CSI ~ sequence to a key.
func tildeKey(n int) driver.Key {
	switch n {
	case 1, 7:
		return driver.KeyHome
	case 2:
		return driver.KeyInsert
	case 3:
		return driver.KeyDelete
	case 4, 8:
		return driver.KeyEnd
	case 5:
		return driver.KeyPageUp
	case 6:
		return driver.KeyPageDown
	case 11:
		return driver.KeyF1
	case 12:
		return driver.KeyF2
	case 13:
		return driver.KeyF3
	case 14:
		return driver.KeyF4
	case 15:
		return driver.KeyF5
	case 17:
		return driver.KeyF6
	case 18:
		return driver.KeyF7
	case 19:
		return driver.KeyF8
	case 20:
		return driver.KeyF9
	case 21:
		return driver.KeyF10
	case 23:
		return driver.KeyF11
	case 24:
		return driver.KeyF12
	}
	return driver.KeyNone
}

// decodeModifier translates an xterm modifier parameter (value minus one
// is a bitmask: 1 shift, 2 alt, 4 ctrl, 8 meta).
func decodeModifier(param int) driver.ModMask {
	bits := param - 1
	mod := driver.ModNone
	if bits&1 != 0 {
		mod |= driver.ModShift
	}
	if bits&2 != 0 {
		mod |= driver.ModAlt
	}
	if bits&4 != 0 {
		mod |= driver.ModCtrl
	}
	if bits&8 != 0 {
		mod |= driver.ModMeta
	}
	return mod
}

// parseSS3 decodes ESC O sequences, used by many terminals for F1-F4 and
// for Home/End in application mode.
func parseSS3(p []byte, post func(driver.Event)) int {
	if len(p) < 3 {
		return 0
	}
	key := driver.KeyNone
	switch p[2] {
	case 'P':
		key = driver.KeyF1
	case 'Q':
		key = driver.KeyF2
	case 'R':
		key = driver.KeyF3
	case 'S':
		key = driver.KeyF4
	case 'H':
		key = driver.KeyHome
	case 'F':
		key = driver.KeyEnd
	}
	if key == driver.KeyNone {
		return 3
	}
	post(driver.Event{Type: driver.EventKey, Key: key})
	return 3
}
