package eclfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Element chunking used by Eclipse writers.
const (
	maxElems     = 1000
	maxCharElems = 105
)

// WriteKeyword emits one keyword block in the unformatted layout.
// Mostly used to build synthetic decks in tests.
func WriteKeyword(w io.Writer, kw Keyword) error {
	size, err := kw.Kind.elemSize()
	if err != nil {
		return fmt.Errorf("keyword %s: %w", kw.Name, err)
	}
	if len(kw.Name) > 8 {
		return fmt.Errorf("keyword name %q exceeds 8 chars", kw.Name)
	}

	header := make([]byte, 16)
	copy(header, []byte(fmt.Sprintf("%-8s", kw.Name)))
	binary.BigEndian.PutUint32(header[8:12], uint32(kw.Len()))
	copy(header[12:16], string(kw.Kind))
	if err := writeRecordTo(w, header); err != nil {
		return err
	}
	if kw.Kind == Mess || size == 0 {
		return nil
	}

	chunk := maxElems
	if kw.Kind == Char {
		chunk = maxCharElems
	}
	total := kw.Len()
	for off := 0; off < total; off += chunk {
		end := off + chunk
		if end > total {
			end = total
		}
		var data bytes.Buffer
		for i := off; i < end; i++ {
			switch kw.Kind {
			case Inte:
				binary.Write(&data, binary.BigEndian, kw.Ints[i])
			case Real:
				binary.Write(&data, binary.BigEndian, math.Float32bits(kw.Floats[i]))
			case Doub:
				binary.Write(&data, binary.BigEndian, math.Float64bits(kw.Doubles[i]))
			case Char:
				data.WriteString(fmt.Sprintf("%-8s", kw.Strings[i]))
			case Logi:
				v := uint32(0)
				if kw.Bools[i] {
					v = 0xffffffff
				}
				binary.Write(&data, binary.BigEndian, v)
			}
		}
		if err := writeRecordTo(w, data.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func writeRecordTo(w io.Writer, payload []byte) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(payload))); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, int32(len(payload)))
}
