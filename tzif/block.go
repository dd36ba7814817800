package tzif

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ngrash/go-localtime/zone"
)

// DataBlock is a TZif data block. TimeSize is 4 for the version 1 block
// and 8 for the version 2+ block; time values are widened to int64 either
// way. The block is structured as follows:
//
//	+---------------------------------------------------------+
//	|  transition times          (timecnt x TIME_SIZE)        |
//	+---------------------------------------------------------+
//	|  transition types          (timecnt)                    |
//	+---------------------------------------------------------+
//	|  local time type records   (typecnt x 6)                |
//	+---------------------------------------------------------+
//	|  time zone designations    (charcnt)                    |
//	+---------------------------------------------------------+
//	|  leap-second records       (leapcnt x (TIME_SIZE + 4))  |
//	+---------------------------------------------------------+
//	|  standard/wall indicators  (isstdcnt)                   |
//	+---------------------------------------------------------+
//	|  UT/local indicators       (isutcnt)                    |
//	+---------------------------------------------------------+
//
// One-octet flags are kept as raw octets so that values other than 0 and
// 1 survive decoding and can be reported.
type DataBlock struct {
	TimeSize int

	TransitionTimes     []int64
	TransitionTypes     []uint8
	LocalTimeTypeRecord []LocalTimeTypeRecord
	TimeZoneDesignation []byte
	LeapSecondRecords   []LeapSecondRecord

	StandardWallIndicators []uint8
	UTLocalIndicators      []uint8
}

// LocalTimeTypeRecord is a six-octet local time type record.
//
//	+---------------+---+---+
//	|  utoff (4)    |dst|idx|
//	+---------------+---+---+
type LocalTimeTypeRecord struct {
	// Utoff is the number of seconds to be added to UT in order to
	// determine local time.
	Utoff int32
	// Dst MUST be 0 or 1.
	Dst uint8
	// Idx is an index into the time zone designations.
	Idx uint8
}

// LeapSecondRecord is a leap-second record. Occur takes TimeSize octets.
//
//	+---------------+---------------+
//	|  occur (4/8)  |  corr (4)     |
//	+---------------+---------------+
type LeapSecondRecord struct {
	Occur int64
	Corr  int32
}

// Header returns the header counts describing b.
func (b DataBlock) Header(v Version) Header {
	return Header{
		Version:  v,
		Isutcnt:  int32(len(b.UTLocalIndicators)),
		Isstdcnt: int32(len(b.StandardWallIndicators)),
		Leapcnt:  int32(len(b.LeapSecondRecords)),
		Timecnt:  int32(len(b.TransitionTimes)),
		Typecnt:  int32(len(b.LocalTimeTypeRecord)),
		Charcnt:  int32(len(b.TimeZoneDesignation)),
	}
}

func (b DataBlock) writeTime(w io.Writer, t int64) error {
	switch b.TimeSize {
	case 4:
		return binary.Write(w, order, int32(t))
	case 8:
		return binary.Write(w, order, t)
	}
	return fmt.Errorf("invalid time size %d", b.TimeSize)
}

// Write writes the data block to w.
func (b DataBlock) Write(w io.Writer) error {
	for _, t := range b.TransitionTimes {
		if err := b.writeTime(w, t); err != nil {
			return err
		}
	}
	if _, err := w.Write(b.TransitionTypes); err != nil {
		return err
	}
	for _, r := range b.LocalTimeTypeRecord {
		if err := binary.Write(w, order, r); err != nil {
			return err
		}
	}
	if _, err := w.Write(b.TimeZoneDesignation); err != nil {
		return err
	}
	for _, r := range b.LeapSecondRecords {
		if err := b.writeTime(w, r.Occur); err != nil {
			return err
		}
		if err := binary.Write(w, order, r.Corr); err != nil {
			return err
		}
	}
	if _, err := w.Write(b.StandardWallIndicators); err != nil {
		return err
	}
	_, err := w.Write(b.UTLocalIndicators)
	return err
}

// ParseDataBlock decodes the data block described by h from the start of
// p. It returns the block and the number of bytes consumed.
func ParseDataBlock(p []byte, h Header, timeSize int) (DataBlock, int, error) {
	b := DataBlock{TimeSize: timeSize}
	if timeSize != 4 && timeSize != 8 {
		return b, 0, fmt.Errorf("invalid time size %d", timeSize)
	}
	if err := h.Check(false); err != nil {
		return b, 0, err
	}
	if need := h.DataSize(timeSize); int64(len(p)) < need {
		return b, 0, fmt.Errorf("%w: data block needs %d bytes, have %d", zone.ErrFormat, need, len(p))
	}
	off := 0
	readTime := func() int64 {
		var t int64
		if timeSize == 4 {
			t = int64(int32(order.Uint32(p[off:])))
		} else {
			t = int64(order.Uint64(p[off:]))
		}
		off += timeSize
		return t
	}
	take := func(n int32) []byte {
		s := bytes.Clone(p[off : off+int(n)])
		off += int(n)
		return s
	}

	if h.Timecnt > 0 {
		b.TransitionTimes = make([]int64, h.Timecnt)
		for i := range b.TransitionTimes {
			b.TransitionTimes[i] = readTime()
		}
		b.TransitionTypes = take(h.Timecnt)
	}
	if h.Typecnt > 0 {
		b.LocalTimeTypeRecord = make([]LocalTimeTypeRecord, h.Typecnt)
		for i := range b.LocalTimeTypeRecord {
			b.LocalTimeTypeRecord[i] = LocalTimeTypeRecord{
				Utoff: int32(order.Uint32(p[off:])),
				Dst:   p[off+4],
				Idx:   p[off+5],
			}
			off += 6
		}
	}
	if h.Charcnt > 0 {
		b.TimeZoneDesignation = take(h.Charcnt)
	}
	if h.Leapcnt > 0 {
		b.LeapSecondRecords = make([]LeapSecondRecord, h.Leapcnt)
		for i := range b.LeapSecondRecords {
			b.LeapSecondRecords[i].Occur = readTime()
			b.LeapSecondRecords[i].Corr = int32(order.Uint32(p[off:]))
			off += 4
		}
	}
	if h.Isstdcnt > 0 {
		b.StandardWallIndicators = take(h.Isstdcnt)
	}
	if h.Isutcnt > 0 {
		b.UTLocalIndicators = take(h.Isutcnt)
	}
	return b, off, nil
}
