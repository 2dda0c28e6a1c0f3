// Package eclfile reads unformatted Eclipse result files (SMSPEC,
// UNSMRY, UNRST, EGRID, INIT).
//
// These files are big-endian Fortran sequential files. Every record is
// framed by a leading and trailing int32 byte count. A keyword block is
// a 16-byte header record (8-char space-padded name, int32 element
// count, 4-char type tag) followed by as many data records as needed;
// writers chunk arrays at 1000 elements per record (105 for CHAR), but
// the reader only trusts the framing.
package eclfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Kind is the 4-char element type tag of a keyword block.
type Kind string

const (
	Inte Kind = "INTE"
	Real Kind = "REAL"
	Doub Kind = "DOUB"
	Char Kind = "CHAR"
	Logi Kind = "LOGI"
	Mess Kind = "MESS"
)

func (k Kind) elemSize() (int, error) {
	switch k {
	case Inte, Real, Logi:
		return 4, nil
	case Doub, Char:
		return 8, nil
	case Mess:
		return 0, nil
	}
	return 0, fmt.Errorf("unknown element type %q", string(k))
}

// Keyword is one decoded keyword block. Exactly one of the value slices
// is populated, according to Kind (none for MESS).
type Keyword struct {
	Name    string
	Kind    Kind
	Ints    []int32
	Floats  []float32
	Doubles []float64
	Strings []string
	Bools   []bool
}

// Len returns the number of elements in the block.
func (k *Keyword) Len() int {
	switch k.Kind {
	case Inte:
		return len(k.Ints)
	case Real:
		return len(k.Floats)
	case Doub:
		return len(k.Doubles)
	case Char:
		return len(k.Strings)
	case Logi:
		return len(k.Bools)
	}
	return 0
}

// Float64At returns element i as a float64. Valid for INTE, REAL and
// DOUB blocks.
func (k *Keyword) Float64At(i int) (float64, error) {
	switch k.Kind {
	case Inte:
		return float64(k.Ints[i]), nil
	case Real:
		return float64(k.Floats[i]), nil
	case Doub:
		return k.Doubles[i], nil
	}
	return 0, fmt.Errorf("keyword %s: non-numeric element type %s", k.Name, k.Kind)
}

// readRecord reads one framed Fortran record and verifies the trailer.
func readRecord(r io.Reader) ([]byte, error) {
	var head int32
	if err := binary.Read(r, binary.BigEndian, &head); err != nil {
		return nil, err // io.EOF at a record boundary means end of file
	}
	if head < 0 {
		return nil, fmt.Errorf("negative record length %d", head)
	}
	buf := make([]byte, head)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("truncated record (want %d bytes): %w", head, err)
	}
	var tail int32
	if err := binary.Read(r, binary.BigEndian, &tail); err != nil {
		return nil, fmt.Errorf("missing record trailer: %w", err)
	}
	if tail != head {
		return nil, fmt.Errorf("record trailer mismatch: head %d tail %d", head, tail)
	}
	return buf, nil
}

// ReadKeyword decodes the next keyword block, returning io.EOF at a
// clean end of file.
func ReadKeyword(r io.Reader) (*Keyword, error) {
	header, err := readRecord(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	if len(header) != 16 {
		return nil, fmt.Errorf("keyword header record is %d bytes, want 16", len(header))
	}
	kw := &Keyword{
		Name: strings.TrimRight(string(header[:8]), " "),
		Kind: Kind(header[12:16]),
	}
	count := int(int32(binary.BigEndian.Uint32(header[8:12])))
	if count < 0 {
		return nil, fmt.Errorf("keyword %s: negative element count %d", kw.Name, count)
	}
	size, err := kw.Kind.elemSize()
	if err != nil {
		return nil, fmt.Errorf("keyword %s: %w", kw.Name, err)
	}
	if kw.Kind == Mess || size == 0 {
		return kw, nil
	}

	remaining := count
	for remaining > 0 {
		data, err := readRecord(r)
		if err != nil {
			return nil, fmt.Errorf("keyword %s: %w", kw.Name, err)
		}
		if len(data)%size != 0 {
			return nil, fmt.Errorf("keyword %s: data record of %d bytes not a multiple of element size %d", kw.Name, len(data), size)
		}
		n := len(data) / size
		if n > remaining {
			return nil, fmt.Errorf("keyword %s: %d surplus elements", kw.Name, n-remaining)
		}
		for i := 0; i < n; i++ {
			chunk := data[i*size : (i+1)*size]
			switch kw.Kind {
			case Inte:
				kw.Ints = append(kw.Ints, int32(binary.BigEndian.Uint32(chunk)))
			case Real:
				kw.Floats = append(kw.Floats, float32frombytes(chunk))
			case Doub:
				kw.Doubles = append(kw.Doubles, float64frombytes(chunk))
			case Char:
				kw.Strings = append(kw.Strings, strings.TrimRight(string(chunk), " "))
			case Logi:
				kw.Bools = append(kw.Bools, binary.BigEndian.Uint32(chunk) != 0)
			}
		}
		remaining -= n
	}
	return kw, nil
}

// Read decodes every keyword block in r.
func Read(r io.Reader) ([]Keyword, error) {
	var out []Keyword
	for {
		kw, err := ReadKeyword(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, *kw)
	}
}

// ReadFile decodes every keyword block in the named file.
func ReadFile(path string) ([]Keyword, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	kws, err := Read(newBufReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return kws, nil
}

// First returns the first keyword block with the given name, or nil.
func First(kws []Keyword, name string) *Keyword {
	for i := range kws {
		if kws[i].Name == name {
			return &kws[i]
		}
	}
	return nil
}

// All returns every keyword block with the given name, in file order.
func All(kws []Keyword, name string) []*Keyword {
	var out []*Keyword
	for i := range kws {
		if kws[i].Name == name {
			out = append(out, &kws[i])
		}
	}
	return out
}
