/*
Package persist stores the learned heuristics and a compact wall-map
snapshot across power cycles.

Both records share one storage unit: a reserved 4 KiB flash sector on
embedded targets, or a hidden directory under the user's home on hosts.
Records carry a magic and version header and are encoded little-endian,
bit-exact across both backends.
*/
package persist

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/robocore-labs/maze-rover/learning"
	"github.com/robocore-labs/maze-rover/maze"
)

// Record identity and layout revision markers.
const (
	heurMagic = 0x4D5A4855 // "MZHU"
	mapMagic  = 0x4D5A4D50 // "MZMP"

	recordVersion = 1

	heurHeaderSize  = 8
	heurPayloadSize = 16
	mapHeaderSize   = 12
)

// Persistence errors.
var (
	ErrWriteFault = errors.New("persist: write fault")
	ErrTooLarge   = errors.New("persist: record exceeds page budget")
	ErrNoHome     = errors.New("persist: home directory not resolvable")
)

// encodeHeuristics renders the heuristics record:
// [u32 magic][u16 version][u16 size][f32 right][f32 front][f32 left][f32 back].
func encodeHeuristics(h learning.Heuristics) []byte {
	buf := make([]byte, heurHeaderSize+heurPayloadSize)
	binary.LittleEndian.PutUint32(buf[0:], heurMagic)
	binary.LittleEndian.PutUint16(buf[4:], recordVersion)
	binary.LittleEndian.PutUint16(buf[6:], heurPayloadSize)
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(h.WRight))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(h.WFront))
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(h.WLeft))
	binary.LittleEndian.PutUint32(buf[20:], math.Float32bits(h.WBack))
	return buf
}

// decodeHeuristics validates the header and unpacks the payload.
func decodeHeuristics(buf []byte) (learning.Heuristics, bool) {
	var h learning.Heuristics
	if len(buf) < heurHeaderSize+heurPayloadSize {
		return h, false
	}
	if binary.LittleEndian.Uint32(buf[0:]) != heurMagic {
		return h, false
	}
	if binary.LittleEndian.Uint16(buf[4:]) != recordVersion {
		return h, false
	}
	if binary.LittleEndian.Uint16(buf[6:]) != heurPayloadSize {
		return h, false
	}
	h.WRight = math.Float32frombits(binary.LittleEndian.Uint32(buf[8:]))
	h.WFront = math.Float32frombits(binary.LittleEndian.Uint32(buf[12:]))
	h.WLeft = math.Float32frombits(binary.LittleEndian.Uint32(buf[16:]))
	h.WBack = math.Float32frombits(binary.LittleEndian.Uint32(buf[20:]))
	return h, true
}

// encodeMap renders the snapshot record:
// [u32 magic][u16 version][u16 W][u16 H][u16 size][W*H bytes], one NESW
// nibble per cell in row-major order.
func encodeMap(m *maze.Map) []byte {
	w := m.Width()
	h := m.Height()
	buf := make([]byte, mapHeaderSize+w*h)
	binary.LittleEndian.PutUint32(buf[0:], mapMagic)
	binary.LittleEndian.PutUint16(buf[4:], recordVersion)
	binary.LittleEndian.PutUint16(buf[6:], uint16(w))
	binary.LittleEndian.PutUint16(buf[8:], uint16(h))
	binary.LittleEndian.PutUint16(buf[10:], uint16(w*h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf[mapHeaderSize+y*w+x] = m.At(x, y).Mask()
		}
	}
	return buf
}

// decodeMapInto validates the header against out's dimensions and
// applies the wall bytes through the reciprocity-preserving mutator.
// Returns false, leaving out untouched, on any mismatch or short read.
func decodeMapInto(out *maze.Map, buf []byte) bool {
	if len(buf) < mapHeaderSize {
		return false
	}
	if binary.LittleEndian.Uint32(buf[0:]) != mapMagic {
		return false
	}
	if binary.LittleEndian.Uint16(buf[4:]) != recordVersion {
		return false
	}
	w := int(binary.LittleEndian.Uint16(buf[6:]))
	h := int(binary.LittleEndian.Uint16(buf[8:]))
	size := int(binary.LittleEndian.Uint16(buf[10:]))
	if w != out.Width() || h != out.Height() {
		return false
	}
	if size != w*h || len(buf) < mapHeaderSize+size {
		return false
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b := buf[mapHeaderSize+y*w+x]
			out.SetWall(x, y, maze.North, b&1 != 0)
			out.SetWall(x, y, maze.East, b&2 != 0)
			out.SetWall(x, y, maze.South, b&4 != 0)
			out.SetWall(x, y, maze.West, b&8 != 0)
		}
	}
	return true
}
