package tzif

import (
	"fmt"
	"io"
)

// Data represents a TZif file.
type Data struct {
	Version Version

	V1Header Header
	V1Data   DataBlock

	// The version 2+ fields are set only when Wide is true.
	Wide      bool
	V2Header  Header
	V2Data    DataBlock
	HasFooter bool
	V2Footer  Footer
}

// Block returns the header and data block that readers should use.
func (d Data) Block() (Header, DataBlock) {
	if d.Wide {
		return d.V2Header, d.V2Data
	}
	return d.V1Header, d.V1Data
}

// Encode writes the given TZif data to the given writer.
// If the version is V1, the V2 fields are not written.
func (d Data) Encode(w io.Writer) error {
	if err := d.V1Header.Write(w); err != nil {
		return fmt.Errorf("write v1 header: %w", err)
	}
	if err := d.V1Data.Write(w); err != nil {
		return fmt.Errorf("write v1 data: %w", err)
	}
	if d.Version > V1 {
		if err := d.V2Header.Write(w); err != nil {
			return fmt.Errorf("write v2 header: %w", err)
		}
		if err := d.V2Data.Write(w); err != nil {
			return fmt.Errorf("write v2 data: %w", err)
		}
		if err := d.V2Footer.Write(w); err != nil {
			return fmt.Errorf("write v2 footer: %w", err)
		}
	}
	return nil
}

// Decode parses TZif bytes. The version 1 section is always read. When
// wide is set and the file is version 2 or later, the second section and
// the footer are read too; a missing or malformed footer only leaves
// HasFooter false. Bytes after the section used are otherwise ignored.
func Decode(b []byte, wide bool) (Data, error) {
	var d Data
	var err error
	d.V1Header, err = ParseHeader(b)
	if err != nil {
		return d, fmt.Errorf("read v1 header: %w", err)
	}
	d.Version = d.V1Header.Version
	d.Wide = wide && d.Version != V1

	if err := d.V1Header.Check(!d.Wide); err != nil {
		return d, fmt.Errorf("read v1 header: %w", err)
	}
	p := b[HeaderSize:]
	var n int
	d.V1Data, n, err = ParseDataBlock(p, d.V1Header, 4)
	if err != nil {
		return d, fmt.Errorf("read v1 data block: %w", err)
	}
	if !d.Wide {
		return d, nil
	}

	p = p[n:]
	d.V2Header, err = ParseHeader(p)
	if err != nil {
		return d, fmt.Errorf("read v2 header: %w", err)
	}
	if err := d.V2Header.Check(true); err != nil {
		return d, fmt.Errorf("read v2 header: %w", err)
	}
	p = p[HeaderSize:]
	d.V2Data, n, err = ParseDataBlock(p, d.V2Header, 8)
	if err != nil {
		return d, fmt.Errorf("read v2 data block: %w", err)
	}
	d.V2Footer, d.HasFooter = ParseFooter(p[n:])
	return d, nil
}
