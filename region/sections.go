package region

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSections is returned when a sections payload cannot be split.
var ErrInvalidSections = errors.New("invalid sections encoding")

// EncodeSections joins byte slices so that each one is followed by its
// length as a big-endian u32. This is how the host packs iterator records
// and batch verification arguments.
func EncodeSections(sections ...[]byte) []byte {
	size := 0
	for _, s := range sections {
		size += len(s) + 4
	}

	out := make([]byte, 0, size)
	for _, s := range sections {
		out = append(out, s...)
		out = binary.BigEndian.AppendUint32(out, uint32(len(s)))
	}
	return out
}

// DecodeSections reverses EncodeSections.
func DecodeSections(data []byte) ([][]byte, error) {
	var sections [][]byte
	rest := data
	for len(rest) > 0 {
		if len(rest) < 4 {
			return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidSections, len(rest))
		}
		n := binary.BigEndian.Uint32(rest[len(rest)-4:])
		rest = rest[:len(rest)-4]
		if uint64(n) > uint64(len(rest)) || n > math.MaxInt32 {
			return nil, fmt.Errorf("%w: section of %d bytes with %d remaining", ErrInvalidSections, n, len(rest))
		}
		start := len(rest) - int(n)
		sections = append(sections, append([]byte(nil), rest[start:]...))
		rest = rest[:start]
	}

	for i, j := 0, len(sections)-1; i < j; i, j = i+1, j-1 {
		sections[i], sections[j] = sections[j], sections[i]
	}
	return sections, nil
}
