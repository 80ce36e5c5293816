package ssfs

import "errors"

// Package-specific error variables that can be used with errors.Is() for error handling.
var (
	// ErrInvalidMagic is returned when mounting a device whose superblock
	// does not carry the SSFS magic number
	ErrInvalidMagic = errors.New("invalid volume, ssfs magic not found")

	// ErrInvalidName is returned for empty names or names longer than NameMax
	ErrInvalidName = errors.New("invalid file name")

	// ErrNotFound is returned when a name has no directory entry
	ErrNotFound = errors.New("file not found")

	// ErrAlreadyOpen is returned when opening a file that already has a
	// descriptor; at most one descriptor may refer to an inode at a time
	ErrAlreadyOpen = errors.New("file is already open")

	// ErrBadDescriptor is returned for descriptors out of range or not open
	ErrBadDescriptor = errors.New("bad file descriptor")

	// ErrNoSpace is returned when no unused data block remains
	ErrNoSpace = errors.New("no free blocks")

	// ErrNoInode is returned when the inode table is exhausted
	ErrNoInode = errors.New("no free inodes")

	// ErrNoDescriptor is returned when the descriptor table is exhausted
	ErrNoDescriptor = errors.New("no free file descriptors")

	// ErrNoDirEntry is returned when the root directory is full
	ErrNoDirEntry = errors.New("no free directory entries")

	// ErrPastEnd is returned when a seek target lies beyond the file or the
	// chain ends before the target block is reached
	ErrPastEnd = errors.New("position past end of file")

	// ErrChainEnd is returned when a write needs a block past the end of an
	// exhausted inode chain
	ErrChainEnd = errors.New("inode chain exhausted")

	// ErrOutOfRange is returned for sub-block accesses crossing a block
	// boundary
	ErrOutOfRange = errors.New("access outside block bounds")

	// ErrBadSlot is returned when restoring from an unused shadow slot
	ErrBadSlot = errors.New("no snapshot in shadow slot")

	// ErrInvalidImage is returned when an image stream is not a valid SSFS
	// image or was produced for a different geometry
	ErrInvalidImage = errors.New("invalid ssfs image")

	// ErrUnsupportedComp is returned for a compression id with no handler
	ErrUnsupportedComp = errors.New("unsupported compression")
)
