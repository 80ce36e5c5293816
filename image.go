package ssfs

import (
	"encoding/binary"
	"fmt"
	"io"
)

// imageMagic identifies an exported volume image stream.
var imageMagic = [4]byte{'i', 's', 'f', 's'}

// imageHeader frames an exported image: the codec used and the geometry the
// image was produced with.
type imageHeader struct {
	Magic     [4]byte
	Comp      Compression
	_         uint16
	BlockSize int32
	NumBlocks int32
}

// Export writes a complete image of the volume's device to w, compressed
// with c. Every cache is committed first so the image reflects the current
// state.
func (v *Volume) Export(w io.Writer, c Compression) error {
	if err := v.flushAll(); err != nil {
		return err
	}
	raw := make([]byte, NumBlocks*BlockSize)
	if err := v.dev.ReadBlocks(0, NumBlocks, raw); err != nil {
		return err
	}
	payload, err := c.compress(raw)
	if err != nil {
		return err
	}
	hdr := imageHeader{Magic: imageMagic, Comp: c, BlockSize: BlockSize, NumBlocks: NumBlocks}
	if err := binary.Write(w, order, hdr); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// Import replaces the device contents with the image read from r and
// reloads every cache. Open descriptors are invalidated.
func (v *Volume) Import(r io.Reader) error {
	var hdr imageHeader
	if err := binary.Read(r, order, &hdr); err != nil {
		return err
	}
	if hdr.Magic != imageMagic {
		return ErrInvalidImage
	}
	if hdr.BlockSize != BlockSize || hdr.NumBlocks != NumBlocks {
		return fmt.Errorf("image geometry %dx%d: %w", hdr.NumBlocks, hdr.BlockSize, ErrInvalidImage)
	}
	payload, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	raw, err := hdr.Comp.decompress(payload)
	if err != nil {
		return err
	}
	if len(raw) != NumBlocks*BlockSize {
		return ErrInvalidImage
	}
	if err := v.dev.WriteBlocks(0, NumBlocks, raw); err != nil {
		return err
	}
	for i := range v.fds {
		v.fds[i].inode = -1
	}
	return v.mount()
}
