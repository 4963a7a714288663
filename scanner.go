package rhinoline

import (
	"bufio"
	"io"
)

// newLineScanner builds a scanner for newline-delimited protocol and
// diagnostic streams with a bounded maximum line size.
func newLineScanner(r io.Reader, maxSize int) *bufio.Scanner {
	s := bufio.NewScanner(r)
	initCap := min(4096, maxSize)
	s.Buffer(make([]byte, 0, initCap), maxSize)
	return s
}
