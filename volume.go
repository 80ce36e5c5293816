package ssfs

import "io"

// Volume is a mounted SSFS instance: the block device plus the in-memory
// images of every on-disk structure. A Volume is single-threaded; callers
// serialize access themselves.
type Volume struct {
	dev Device

	sp     superblock
	fbm    [NumBlocks]byte
	wm     [NumBlocks]byte
	inodes [MaxFiles]inode
	dir    [MaxFiles]dirEntry
	fds    [MaxFiles]fdEntry

	// scratch is the one block-sized buffer reused by every sub-block
	// read-modify-write
	scratch [BlockSize]byte

	closer io.Closer // set when the volume owns the backing device
}

// New builds a Volume over dev. With fresh set the device is formatted from
// scratch; otherwise the on-disk structures are loaded and validated.
func New(dev Device, fresh bool) (*Volume, error) {
	v := &Volume{dev: dev}
	for i := range v.fds {
		v.fds[i].inode = -1
	}
	if fresh {
		if err := v.format(); err != nil {
			return nil, err
		}
		return v, nil
	}
	if err := v.mount(); err != nil {
		return nil, err
	}
	return v, nil
}

// Create formats a fresh volume on a new backing file at path.
func Create(path string) (*Volume, error) {
	dev, err := CreateDevice(path)
	if err != nil {
		return nil, err
	}
	v, err := New(dev, true)
	if err != nil {
		dev.Close()
		return nil, err
	}
	v.closer = dev
	return v, nil
}

// Open mounts an existing volume from the backing file at path.
func Open(path string) (*Volume, error) {
	dev, err := OpenDevice(path)
	if err != nil {
		return nil, err
	}
	v, err := New(dev, false)
	if err != nil {
		dev.Close()
		return nil, err
	}
	v.closer = dev
	return v, nil
}

// Unmount releases the backing device when the volume owns it. The caches
// are not flushed; every mutating operation commits before returning.
func (v *Volume) Unmount() error {
	if v.closer != nil {
		return v.closer.Close()
	}
	return nil
}

// format lays down a fresh volume: superblock, bitmaps, inode table and the
// root directory in their static positions, then a zeroed data area.
func (v *Volume) format() error {
	v.sp = superblock{
		Magic:      Magic,
		BlockSize:  BlockSize,
		NumBlocks:  NumBlocks,
		InodeCount: MaxFiles,
	}
	v.sp.Root = freeInode()
	v.sp.Root.Size = inodeFileBlocks * BlockSize
	for i := 0; i < inodeFileBlocks; i++ {
		v.sp.Root.Ptr[i] = int32(inodeFileStart + i)
	}
	for i := range v.sp.Shadow {
		v.sp.Shadow[i] = freeInode()
	}

	for i := 0; i < dataStart; i++ {
		v.fbm[i] = blockUsed
		if i < 3 {
			v.wm[i] = blockWritable
		} else {
			v.wm[i] = blockReadOnly
		}
	}
	for i := dataStart; i < NumBlocks; i++ {
		v.fbm[i] = blockFree
		v.wm[i] = blockReadOnly
	}
	// map bytes past the bitmap block have no on-disk home; those blocks
	// stay permanently reserved
	for i := BlockSize; i < NumBlocks; i++ {
		v.fbm[i] = blockUsed
	}

	for i := range v.inodes {
		v.inodes[i] = freeInode()
	}
	root := freeInode()
	root.Size = rootDirBlocks * BlockSize
	for i := 0; i < rootDirBlocks; i++ {
		root.Ptr[i] = int32(rootDirStart + i)
	}
	v.inodes[0] = root

	for i := range v.dir {
		v.dir[i] = dirEntry{Inode: -1}
	}
	v.dir[0] = dirEntry{Inode: 0}

	if err := v.flushAll(); err != nil {
		return err
	}

	// wipe the data area
	zero := make([]byte, BlockSize)
	for b := dataStart; b < NumBlocks; b++ {
		if err := v.dev.WriteBlocks(b, 1, zero); err != nil {
			return err
		}
	}
	return nil
}

// mount loads every cache from disk. The inode table is reached through the
// superblock root's pointers and the directory through inode 0, never
// through fixed block numbers.
func (v *Volume) mount() error {
	if err := v.loadSuper(); err != nil {
		return err
	}
	if err := v.loadFBM(); err != nil {
		return err
	}
	if err := v.loadWM(); err != nil {
		return err
	}
	if err := v.loadInodes(); err != nil {
		return err
	}
	return v.loadDir()
}

// reloadAll restores every cache to the last committed state.
func (v *Volume) reloadAll() {
	v.loadSuper()
	v.loadFBM()
	v.loadWM()
	v.loadInodes()
	v.loadDir()
}
