package ssfs

import (
	"fmt"
	"io"
	"os"
)

// Device is the block device the file system runs on: a fixed array of
// NumBlocks blocks of BlockSize bytes, addressed by block index. Transfers
// are byte-exact; a short read or write is an error.
type Device interface {
	// ReadBlocks copies count blocks starting at block index start into p.
	ReadBlocks(start, count int, p []byte) error

	// WriteBlocks copies count blocks from p onto the device starting at
	// block index start.
	WriteBlocks(start, count int, p []byte) error
}

// FileDevice is a Device backed by a regular file of NumBlocks×BlockSize
// bytes, the moral equivalent of the emulator's "<user>_disk" file.
type FileDevice struct {
	f *os.File
}

var _ Device = (*FileDevice)(nil)
var _ io.Closer = (*FileDevice)(nil)

// CreateDevice creates or truncates the backing file at path and reserves
// the full device size up front.
func CreateDevice(path string) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	if err := preallocate(f, NumBlocks*BlockSize); err != nil {
		f.Close()
		return nil, err
	}
	return &FileDevice{f: f}, nil
}

// OpenDevice opens an existing backing file at path.
func OpenDevice(path string) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.Size() != NumBlocks*BlockSize {
		f.Close()
		return nil, fmt.Errorf("%s: unexpected device size %d", path, st.Size())
	}
	return &FileDevice{f: f}, nil
}

func checkRange(start, count int, p []byte) error {
	if start < 0 || count < 0 || start+count > NumBlocks {
		return fmt.Errorf("block range %d+%d outside device: %w", start, count, ErrOutOfRange)
	}
	if len(p) < count*BlockSize {
		return fmt.Errorf("buffer of %d bytes for %d blocks: %w", len(p), count, ErrOutOfRange)
	}
	return nil
}

func (d *FileDevice) ReadBlocks(start, count int, p []byte) error {
	if err := checkRange(start, count, p); err != nil {
		return err
	}
	_, err := d.f.ReadAt(p[:count*BlockSize], int64(start)*BlockSize)
	return err
}

func (d *FileDevice) WriteBlocks(start, count int, p []byte) error {
	if err := checkRange(start, count, p); err != nil {
		return err
	}
	_, err := d.f.WriteAt(p[:count*BlockSize], int64(start)*BlockSize)
	return err
}

// Close closes the backing file.
func (d *FileDevice) Close() error {
	return d.f.Close()
}
