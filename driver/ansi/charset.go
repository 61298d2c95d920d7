//go:build unix

package ansi

import (
	"strings"

	gencoding "github.com/gdamore/encoding"
	"golang.org/x/text/encoding"
)

// lookupEncoding resolves an output charset name to a codec. The codecs
// substitute unrepresentable runes rather than failing, which is what a
// terminal output path wants. Returns nil for unknown names.
func lookupEncoding(name string) encoding.Encoding {
	switch strings.ToUpper(name) {
	case "", "UTF-8", "UTF8":
		return gencoding.UTF8
	case "US-ASCII", "ASCII":
		return gencoding.ASCII
	case "ISO-8859-1", "ISO8859-1", "LATIN1":
		return gencoding.ISO8859_1
	case "ISO-8859-9", "ISO8859-9", "LATIN5":
		return gencoding.ISO8859_9
	case "EBCDIC", "IBM037":
		return gencoding.EBCDIC
	default:
		return nil
	}
}
