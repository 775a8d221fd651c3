package codec

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ZSTD encoder/decoder pools for efficiency.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	// SpeedDefault balances compression ratio vs speed.
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Zstd wraps an inner codec with zstd block compression.
// Good ratio for large parameter groups at modest CPU cost.
type Zstd struct {
	inner Codec
}

// NewZstd creates a zstd-compressing codec around inner.
// If inner is nil, Default is used.
func NewZstd(inner Codec) Zstd {
	if inner == nil {
		inner = Default
	}
	return Zstd{inner: inner}
}

// Marshal encodes with the inner codec, then compresses.
func (c Zstd) Marshal(v any) ([]byte, error) {
	raw, err := c.inner.Marshal(v)
	if err != nil {
		return nil, err
	}

	enc := getZstdEncoder()
	defer zstdEncoderPool.Put(enc)

	return enc.EncodeAll(raw, nil), nil
}

// Unmarshal decompresses, then decodes with the inner codec.
func (c Zstd) Unmarshal(data []byte, v any) error {
	dec := getZstdDecoder()
	defer zstdDecoderPool.Put(dec)

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return fmt.Errorf("zstd decompress: %w", err)
	}
	return c.inner.Unmarshal(raw, v)
}

// Name returns the composed codec name, e.g. "zstd+json".
func (c Zstd) Name() string { return "zstd+" + c.inner.Name() }

// LZ4 wraps an inner codec with LZ4 frame compression.
// Faster than zstd at a lower ratio; good for hot checkpoints.
type LZ4 struct {
	inner Codec
}

// NewLZ4 creates an LZ4-compressing codec around inner.
// If inner is nil, Default is used.
func NewLZ4(inner Codec) LZ4 {
	if inner == nil {
		inner = Default
	}
	return LZ4{inner: inner}
}

// Marshal encodes with the inner codec, then compresses.
func (c LZ4) Marshal(v any) ([]byte, error) {
	raw, err := c.inner.Marshal(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decompresses, then decodes with the inner codec.
func (c LZ4) Unmarshal(data []byte, v any) error {
	r := lz4.NewReader(bytes.NewReader(data))
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("lz4 decompress: %w", err)
	}
	return c.inner.Unmarshal(raw, v)
}

// Name returns the composed codec name, e.g. "lz4+json".
func (c LZ4) Name() string { return "lz4+" + c.inner.Name() }
