package objects

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// ErrCorruptObject is returned when inflate is given a stream it cannot
// parse as valid zlib output.
var ErrCorruptObject = fmt.Errorf("corrupt object")

// Deflate zlib-compresses data using the standard library's default
// compression level, matching the on-disk object format of spec §4.2.
func Deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}

	return buf.Bytes(), nil
}

// Inflate zlib-decompresses data written by Deflate. Malformed input is
// reported as ErrCorruptObject.
func Inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptObject, err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptObject, err)
	}

	return out, nil
}
