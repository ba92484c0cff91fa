package frame

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the codec applied to the sample payload.
type Compression uint8

const (
	// None stores the payload verbatim.
	None Compression = iota
	// Zstd favors ratio over speed.
	Zstd
	// S2 favors speed over ratio.
	S2
	// LZ4 sits between the two, using the lz4 block format.
	LZ4
)

// String reports the codec name.
func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// codec compresses payloads and restores them. The container records the
// raw payload length, so decompression allocates exactly and verifies
// the result against it.
type codec interface {
	compress(data []byte) ([]byte, error)
	decompress(data []byte, rawLen int) ([]byte, error)
}

func codecFor(c Compression) (codec, error) {
	switch c {
	case None:
		return noopCodec{}, nil
	case Zstd:
		return zstdCodec{}, nil
	case S2:
		return s2Codec{}, nil
	case LZ4:
		return lz4Codec{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidFrame, uint8(c))
	}
}

type noopCodec struct{}

func (noopCodec) compress(data []byte) ([]byte, error) { return data, nil }

func (noopCodec) decompress(data []byte, rawLen int) ([]byte, error) {
	if len(data) != rawLen {
		return nil, fmt.Errorf("%w: payload is %d bytes, header declares %d",
			ErrInvalidFrame, len(data), rawLen)
	}
	return data, nil
}

// Encoder and decoder pools: both are designed for reuse and run
// allocation-free after warmup when recycled.
var zstdEncoders = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("frame: zstd encoder init: %v", err))
		}
		return enc
	},
}

var zstdDecoders = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
		)
		if err != nil {
			panic(fmt.Sprintf("frame: zstd decoder init: %v", err))
		}
		return dec
	},
}

type zstdCodec struct{}

func (zstdCodec) compress(data []byte) ([]byte, error) {
	enc := zstdEncoders.Get().(*zstd.Encoder)
	defer zstdEncoders.Put(enc)
	return enc.EncodeAll(data, nil), nil
}

func (zstdCodec) decompress(data []byte, rawLen int) ([]byte, error) {
	dec := zstdDecoders.Get().(*zstd.Decoder)
	defer zstdDecoders.Put(dec)
	out, err := dec.DecodeAll(data, make([]byte, 0, rawLen))
	if err != nil {
		return nil, fmt.Errorf("%w: zstd payload: %v", ErrInvalidFrame, err)
	}
	if len(out) != rawLen {
		return nil, fmt.Errorf("%w: zstd payload expands to %d bytes, header declares %d",
			ErrInvalidFrame, len(out), rawLen)
	}
	return out, nil
}

type s2Codec struct{}

func (s2Codec) compress(data []byte) ([]byte, error) {
	return s2.Encode(nil, data), nil
}

func (s2Codec) decompress(data []byte, rawLen int) ([]byte, error) {
	out, err := s2.Decode(make([]byte, 0, rawLen), data)
	if err != nil {
		return nil, fmt.Errorf("%w: s2 payload: %v", ErrInvalidFrame, err)
	}
	if len(out) != rawLen {
		return nil, fmt.Errorf("%w: s2 payload expands to %d bytes, header declares %d",
			ErrInvalidFrame, len(out), rawLen)
	}
	return out, nil
}

var lz4Compressors = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

type lz4Codec struct{}

func (lz4Codec) compress(data []byte) ([]byte, error) {
	// with a bound-sized destination the block encoder cannot fail short
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	lc := lz4Compressors.Get().(*lz4.Compressor)
	defer lz4Compressors.Put(lc)
	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("frame: lz4 compression: %w", err)
	}
	return dst[:n], nil
}

func (lz4Codec) decompress(data []byte, rawLen int) ([]byte, error) {
	buf := make([]byte, rawLen)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4 payload: %v", ErrInvalidFrame, err)
	}
	if n != rawLen {
		return nil, fmt.Errorf("%w: lz4 payload expands to %d bytes, header declares %d",
			ErrInvalidFrame, n, rawLen)
	}
	return buf[:n], nil
}
