package app

import (
	"bufio"
	"io"
	"unicode"
)

// watchQuitKey calls quit once 'q' is read from r. The terminal is left in
// line mode, so the key takes effect after Enter. End of input only stops the
// reader.
func watchQuitKey(r io.Reader, quit func()) {
	br := bufio.NewReader(r)
	for {
		c, _, err := br.ReadRune()
		if err != nil {
			return
		}
		if unicode.ToLower(c) == 'q' {
			quit()
			return
		}
	}
}
