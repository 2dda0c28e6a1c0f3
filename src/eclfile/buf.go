package eclfile

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
)

func newBufReader(r io.Reader) io.Reader {
	if _, ok := r.(*bufio.Reader); ok {
		return r
	}
	return bufio.NewReaderSize(r, 1<<16)
}

func float32frombytes(b []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}

func float64frombytes(b []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}
