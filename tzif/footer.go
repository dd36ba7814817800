package tzif

import (
	"bytes"
	"io"
)

// Footer represents the footer of a TZif file.
//
//	+---+--------------------+---+
//	| NL|  TZ string (0...)  |NL |
//	+---+--------------------+---+
//
// TZString is a rule for local time changes after the last transition
// of the version 2+ data block. It is empty when no rule is known.
type Footer struct {
	TZString []byte
}

const asciiNewLine = byte(0x0A)

func (f Footer) Write(w io.Writer) error {
	if _, err := w.Write([]byte{asciiNewLine}); err != nil {
		return err
	}
	if _, err := w.Write(f.TZString); err != nil {
		return err
	}
	_, err := w.Write([]byte{asciiNewLine})
	return err
}

// ParseFooter reports whether rest, the input following the version 2+
// data block, is exactly a footer with a nonempty TZ string.
func ParseFooter(rest []byte) (Footer, bool) {
	if len(rest) <= 2 || rest[0] != asciiNewLine || rest[len(rest)-1] != asciiNewLine {
		return Footer{}, false
	}
	s := rest[1 : len(rest)-1]
	if bytes.IndexByte(s, 0) >= 0 {
		return Footer{}, false
	}
	return Footer{TZString: bytes.Clone(s)}, true
}
