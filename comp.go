package ssfs

import (
	"bytes"
	"fmt"
	"io"
)

// Compression identifies the codec used for exported volume images.
type Compression uint16

const (
	None Compression = iota
	GZip
	XZ
	ZSTD
)

func (c Compression) String() string {
	switch c {
	case None:
		return "None"
	case GZip:
		return "GZip"
	case XZ:
		return "XZ"
	case ZSTD:
		return "ZSTD"
	}
	return fmt.Sprintf("Compression(%d)", uint16(c))
}

// CompHandler bundles the two directions of a codec.
type CompHandler struct {
	Compress   func([]byte) ([]byte, error)
	Decompress func([]byte) ([]byte, error)
}

var compHandlers = map[Compression]*CompHandler{
	None: {
		Compress:   func(p []byte) ([]byte, error) { return p, nil },
		Decompress: func(p []byte) ([]byte, error) { return p, nil },
	},
}

// RegisterCompHandler makes a codec available to Export and Import.
func RegisterCompHandler(c Compression, h *CompHandler) {
	compHandlers[c] = h
}

// MakeDecompressor adapts a stream decompressor constructor to the
// in-memory form used by CompHandler.
func MakeDecompressor(mk func(r io.Reader) (io.ReadCloser, error)) func([]byte) ([]byte, error) {
	return func(p []byte) ([]byte, error) {
		rc, err := mk(bytes.NewReader(p))
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
}

func (c Compression) compress(p []byte) ([]byte, error) {
	h, ok := compHandlers[c]
	if !ok {
		return nil, fmt.Errorf("%s: %w", c, ErrUnsupportedComp)
	}
	return h.Compress(p)
}

func (c Compression) decompress(p []byte) ([]byte, error) {
	h, ok := compHandlers[c]
	if !ok {
		return nil, fmt.Errorf("%s: %w", c, ErrUnsupportedComp)
	}
	return h.Decompress(p)
}
