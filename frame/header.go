package frame

import (
	"encoding/binary"
	"fmt"
)

// Fixed header layout. Every multi-byte field after the header follows
// the byte order declared in the flags byte.
const (
	headerSize = 16

	offMagic       = 0 // [0:4] "GWSF"
	offVersion     = 4 // format revision
	offFlags       = 5 // bit0 little-endian, bit1 column-major (always 0)
	offKind        = 6 // array/series/grid discriminator
	offDType       = 7 // sample type
	offCompression = 8 // payload codec
	offNDim        = 9 // number of shape entries
	// [10:16] reserved, written as zero
)

const (
	magic   = "GWSF"
	version = 1

	flagLittleEndian = 1 << 0

	// dtypeFloat64 is the only sample type the format defines.
	dtypeFloat64 = 1
)

// Kind discriminates the container shapes a frame can carry.
type Kind uint8

const (
	// KindArray is a bare annotated array without axes.
	KindArray Kind = iota
	// KindSeries carries one indexed axis.
	KindSeries
	// KindGrid carries two indexed axes.
	KindGrid
)

// String reports the kind name.
func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindSeries:
		return "series"
	case KindGrid:
		return "grid"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

func (k Kind) axes() int {
	switch k {
	case KindSeries:
		return 1
	case KindGrid:
		return 2
	default:
		return 0
	}
}

// endianEngine combines the read and append halves of encoding/binary's
// byte-order interfaces; binary.LittleEndian and binary.BigEndian both
// satisfy it.
type endianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

type header struct {
	littleEndian bool
	kind         Kind
	compression  Compression
	ndim         int
}

func (h header) engine() endianEngine {
	if h.littleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// appendTo writes the fixed 16-byte header.
func (h header) appendTo(buf []byte) []byte {
	var flags byte
	if h.littleEndian {
		flags |= flagLittleEndian
	}
	buf = append(buf, magic...)
	buf = append(buf, version, flags, byte(h.kind), dtypeFloat64,
		byte(h.compression), byte(h.ndim))
	return append(buf, 0, 0, 0, 0, 0, 0)
}

// parseHeader validates the fixed header fields and returns them.
func parseHeader(data []byte) (header, error) {
	if len(data) < headerSize {
		return header{}, fmt.Errorf("%w: %d bytes is shorter than the %d-byte header",
			ErrInvalidFrame, len(data), headerSize)
	}
	if string(data[offMagic:offMagic+4]) != magic {
		return header{}, fmt.Errorf("%w: bad magic %q", ErrInvalidFrame, data[offMagic:offMagic+4])
	}
	if v := data[offVersion]; v != version {
		return header{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidFrame, v)
	}
	if dt := data[offDType]; dt != dtypeFloat64 {
		return header{}, fmt.Errorf("%w: unsupported sample type %d", ErrInvalidFrame, dt)
	}
	h := header{
		littleEndian: data[offFlags]&flagLittleEndian != 0,
		kind:         Kind(data[offKind]),
		compression:  Compression(data[offCompression]),
		ndim:         int(data[offNDim]),
	}
	if h.kind > KindGrid {
		return header{}, fmt.Errorf("%w: unknown kind %d", ErrInvalidFrame, data[offKind])
	}
	if h.compression > LZ4 {
		return header{}, fmt.Errorf("%w: unknown compression %d", ErrInvalidFrame, data[offCompression])
	}
	switch h.kind {
	case KindSeries:
		if h.ndim != 1 {
			return header{}, fmt.Errorf("%w: series frame with %d dimensions", ErrInvalidFrame, h.ndim)
		}
	case KindGrid:
		if h.ndim != 2 {
			return header{}, fmt.Errorf("%w: grid frame with %d dimensions", ErrInvalidFrame, h.ndim)
		}
	default:
		if h.ndim < 1 {
			return header{}, fmt.Errorf("%w: array frame with %d dimensions", ErrInvalidFrame, h.ndim)
		}
	}
	return h, nil
}

// Option configures encoding.
type Option func(*config)

type config struct {
	compression Compression
	bigEndian   bool
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithCompression selects the payload codec; the default is None.
func WithCompression(c Compression) Option {
	return func(cfg *config) { cfg.compression = c }
}

// WithBigEndian writes the frame big-endian. Decoding always follows the
// header flag, so the option only matters for interoperability.
func WithBigEndian() Option {
	return func(cfg *config) { cfg.bigEndian = true }
}
