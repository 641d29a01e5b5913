package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/DataDog/zstd"
	"github.com/cprakashj01/hoomd-blue/internal/particle"
)

// Snapshot frames serialize the full particle store plus box state as a
// zstd-compressed block, length-prefixed so frames can be appended to one
// trajectory file and read back in order.

const frameMagic = uint32(0x4e505431) // "NPT1"

// maxFrameParticles caps the particle count a frame header may declare, so a
// corrupt header cannot demand an unbounded allocation.
const maxFrameParticles = 1 << 24

func framePayloadSize(n int) int {
	return 8 + 6*8 + n*(4*8+4*8+3*4)
}

// Frame is one decoded trajectory frame.
type Frame struct {
	Step  int64
	Box   particle.Box
	Pos   [][4]float64
	Vel   [][4]float64
	Image [][3]int32
}

// WriteFrame compresses and appends one frame for the store's current state.
func WriteFrame(w io.Writer, st *particle.Store, box particle.Box, step int64) error {
	n := st.Count()

	raw := make([]byte, 0, framePayloadSize(n))
	raw = binary.LittleEndian.AppendUint64(raw, uint64(step))
	for d := 0; d < 3; d++ {
		raw = appendFloat(raw, box.L[d])
	}
	for d := 0; d < 3; d++ {
		raw = appendFloat(raw, box.Inv[d])
	}
	for i := 0; i < n; i++ {
		for d := 0; d < 4; d++ {
			raw = appendFloat(raw, st.Pos[i][d])
		}
	}
	for i := 0; i < n; i++ {
		for d := 0; d < 4; d++ {
			raw = appendFloat(raw, st.Vel[i][d])
		}
	}
	for i := 0; i < n; i++ {
		for d := 0; d < 3; d++ {
			raw = binary.LittleEndian.AppendUint32(raw, uint32(st.Image[i][d]))
		}
	}

	buf, err := zstd.CompressLevel(nil, raw, 3)
	if err != nil {
		return err
	}

	var hdr [16]byte
	binary.LittleEndian.PutUint32(hdr[0:], frameMagic)
	binary.LittleEndian.PutUint32(hdr[4:], uint32(n))
	binary.LittleEndian.PutUint64(hdr[8:], uint64(len(buf)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// ReadFrame decodes the next frame from r. Returns io.EOF cleanly at the
// end of a trajectory.
func ReadFrame(r io.Reader) (*Frame, error) {
	var hdr [16]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	if binary.LittleEndian.Uint32(hdr[0:]) != frameMagic {
		return nil, fmt.Errorf("storage: bad frame magic")
	}
	n := int(binary.LittleEndian.Uint32(hdr[4:]))
	if n > maxFrameParticles {
		return nil, fmt.Errorf("storage: frame declares %d particles, limit %d", n, maxFrameParticles)
	}
	clen := binary.LittleEndian.Uint64(hdr[8:])
	if clen > uint64(zstd.CompressBound(framePayloadSize(n))) {
		return nil, fmt.Errorf("storage: frame declares %d compressed bytes for %d particles", clen, n)
	}

	buf := make([]byte, clen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	raw, err := zstd.Decompress(nil, buf)
	if err != nil {
		return nil, err
	}

	want := framePayloadSize(n)
	if len(raw) != want {
		return nil, fmt.Errorf("storage: frame payload has %d bytes, want %d", len(raw), want)
	}

	fr := &Frame{
		Pos:   make([][4]float64, n),
		Vel:   make([][4]float64, n),
		Image: make([][3]int32, n),
	}
	off := 0
	fr.Step = int64(binary.LittleEndian.Uint64(raw[off:]))
	off += 8
	var l, inv [3]float64
	for d := 0; d < 3; d++ {
		l[d], off = readFloat(raw, off)
	}
	for d := 0; d < 3; d++ {
		inv[d], off = readFloat(raw, off)
	}
	fr.Box = particle.Box{L: l, Inv: inv}
	for i := 0; i < n; i++ {
		for d := 0; d < 4; d++ {
			fr.Pos[i][d], off = readFloat(raw, off)
		}
	}
	for i := 0; i < n; i++ {
		for d := 0; d < 4; d++ {
			fr.Vel[i][d], off = readFloat(raw, off)
		}
	}
	for i := 0; i < n; i++ {
		for d := 0; d < 3; d++ {
			fr.Image[i][d] = int32(binary.LittleEndian.Uint32(raw[off:]))
			off += 4
		}
	}
	return fr, nil
}

func appendFloat(b []byte, f float64) []byte {
	return binary.LittleEndian.AppendUint64(b, math.Float64bits(f))
}

func readFloat(b []byte, off int) (float64, int) {
	return math.Float64frombits(binary.LittleEndian.Uint64(b[off:])), off + 8
}
