// Package tzif implements the TZif file format according to RFC8536.
// https://datatracker.ietf.org/doc/html/rfc8536
//
// Decoding is strict: every count is checked against the bytes that
// remain before anything is read, and failures wrap zone.ErrFormat.
package tzif

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ngrash/go-localtime/zone"
)

// NOTE: All multi-octet integer values MUST be stored in network octet
// order format (high-order octet first, otherwise known as big-endian),
// with all bits significant.  Signed integer values MUST be represented
// using two's complement.
var order = binary.BigEndian

// Version represents the version of a TZif file.
// In V1, time values are 32bit (four-octets) and in V2 upwards a second
// header and data block with 64bit (eight-octets) time values follows.
type Version byte

func (v Version) String() string {
	switch v {
	case V1:
		return "V1 (0x00)"
	case V2:
		return "V2 (0x32)"
	case V3:
		return "V3 (0x33)"
	case V4:
		return "V4 (0x34)"
	default:
		return fmt.Sprintf("<undefined version (%d)>", v)
	}
}

const (
	// V1 files contain only the version 1 header and data block.
	V1 Version = 0x00
	// V2 files add a version 2+ header, data block and footer.
	V2 Version = 0x32
	// V3 files may use the TZ string extensions of RFC8536 section 3.3.1.
	V3 Version = 0x33
	// V4 is described in tzfile(5): the leap table may be truncated at the
	// start and may carry an expiration entry.
	V4 Version = 0x34
)

// Magic is the four-octet ASCII sequence "TZif" (0x54 0x5A 0x69 0x66),
// which identifies the file as utilizing the Time Zone Information Format.
var Magic = [4]byte{'T', 'Z', 'i', 'f'}

// HeaderSize is the encoded size of a Header including the magic.
const HeaderSize = 44

// Header is the header of a TZif file.
//
// A TZif header is structured as follows (the lengths of multi-octet
// fields are shown in parentheses):
//
//	+---------------+---+
//	|  magic    (4) |ver|
//	+---------------+---+---------------------------------------+
//	|           [unused - reserved for future use] (15)         |
//	+---------------+---------------+---------------+-----------+
//	|  isutcnt  (4) |  isstdcnt (4) |  leapcnt  (4) |
//	+---------------+---------------+---------------+
//	|  timecnt  (4) |  typecnt  (4) |  charcnt  (4) |
//	+---------------+---------------+---------------+
//
// Counts are decoded as signed so that readers can reject negative ones.
type Header struct {
	Version  Version
	Reserved [15]byte

	// Isutcnt is the number of UT/local indicators. It MUST either be
	// zero or equal to Typecnt.
	Isutcnt int32
	// Isstdcnt is the number of standard/wall indicators. It MUST either
	// be zero or equal to Typecnt.
	Isstdcnt int32
	Leapcnt  int32
	Timecnt  int32
	Typecnt  int32
	// Charcnt is the number of designation octets including the trailing
	// NUL of the last one.
	Charcnt int32
}

// Write writes the Header to w.
func (h Header) Write(w io.Writer) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	return binary.Write(w, order, h)
}

// ParseHeader decodes a Header from the start of b.
func ParseHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < HeaderSize {
		return h, fmt.Errorf("%w: header needs %d bytes, have %d", zone.ErrFormat, HeaderSize, len(b))
	}
	if !bytes.Equal(b[:4], Magic[:]) {
		return h, fmt.Errorf("%w: invalid magic: %q", zone.ErrFormat, b[:4])
	}
	h.Version = Version(b[4])
	copy(h.Reserved[:], b[5:20])
	counts := []*int32{&h.Isutcnt, &h.Isstdcnt, &h.Leapcnt, &h.Timecnt, &h.Typecnt, &h.Charcnt}
	for i, c := range counts {
		*c = int32(order.Uint32(b[20+4*i:]))
	}
	return h, nil
}

// Check reports counts that no data block can satisfy. A zero Typecnt
// is accepted only when requireTypes is false, as in the version 1
// header of a file whose readers are expected to skip to the second
// header.
func (h Header) Check(requireTypes bool) error {
	switch {
	case h.Isutcnt < 0, h.Isstdcnt < 0, h.Leapcnt < 0, h.Timecnt < 0, h.Typecnt < 0, h.Charcnt < 0:
		return fmt.Errorf("%w: negative count in header %+v", zone.ErrFormat, h)
	case requireTypes && h.Typecnt == 0:
		return fmt.Errorf("%w: typecnt must not be zero", zone.ErrFormat)
	case h.Isutcnt != 0 && h.Isutcnt != h.Typecnt:
		return fmt.Errorf("%w: isutcnt (%d) must be 0 or equal to typecnt (%d)", zone.ErrFormat, h.Isutcnt, h.Typecnt)
	case h.Isstdcnt != 0 && h.Isstdcnt != h.Typecnt:
		return fmt.Errorf("%w: isstdcnt (%d) must be 0 or equal to typecnt (%d)", zone.ErrFormat, h.Isstdcnt, h.Typecnt)
	}
	return nil
}

// DataSize is the encoded size of the data block that follows h when
// time values take timeSize octets.
func (h Header) DataSize(timeSize int) int64 {
	return int64(h.Timecnt)*int64(timeSize) +
		int64(h.Timecnt) +
		int64(h.Typecnt)*6 +
		int64(h.Charcnt) +
		int64(h.Leapcnt)*int64(timeSize+4) +
		int64(h.Isstdcnt) +
		int64(h.Isutcnt)
}
