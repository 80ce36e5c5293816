package ssfs

import "log"

// The shadow ring keeps up to ShadowSlots point-in-time copies of the live
// root, packed in the low slots. A snapshot is just the root record: its
// pointers still name the inode file blocks of that moment, and inode 0
// within those blocks still names the directory blocks of that moment. The
// create path relocates both structures onto fresh blocks afterwards, so
// snapshot blocks are never overwritten by live commits.

// takeSnapshot copies the live root into the first free shadow slot,
// evicting the oldest snapshot when the ring is full. Returns the slot used.
func (v *Volume) takeSnapshot() (int, error) {
	slot := -1
	for i := range v.sp.Shadow {
		if v.sp.Shadow[i].Size == -1 {
			slot = i
			break
		}
	}
	if slot == -1 {
		if err := v.evictOldest(); err != nil {
			return -1, err
		}
		slot = ShadowSlots - 1
	}
	v.sp.Shadow[slot] = v.sp.Root
	return slot, nil
}

// evictOldest frees the private blocks of shadow slot 0 and shifts the ring
// down. The snapshot's directory blocks are recovered from its own copy of
// inode 0, which still sits in the snapshot's first inode file block on
// disk.
func (v *Volume) evictOldest() error {
	evicted := v.sp.Shadow[0]

	buf := make([]byte, BlockSize)
	if err := v.dev.ReadBlocks(int(evicted.Ptr[0]), 1, buf); err != nil {
		return err
	}
	var dirIno inode
	dirIno.decode(buf)
	for i := 0; i < rootDirBlocks; i++ {
		v.freeMetaBlock(dirIno.Ptr[i])
	}
	for i := 0; i < inodeFileBlocks; i++ {
		v.freeMetaBlock(evicted.Ptr[i])
	}

	copy(v.sp.Shadow[:], v.sp.Shadow[1:])
	v.sp.Shadow[ShadowSlots-1] = freeInode()
	return nil
}

// freeMetaBlock releases one relocated metadata block. Blocks of the static
// layout below the data area stay permanently allocated.
func (v *Volume) freeMetaBlock(b int32) {
	if b >= dataStart && b < NumBlocks {
		v.fbm[b] = blockFree
	}
}

// Snapshots returns the number of live shadow slots.
func (v *Volume) Snapshots() int {
	n := 0
	for i := range v.sp.Shadow {
		if v.sp.Shadow[i].Size != -1 {
			n++
		}
	}
	return n
}

// Commit seals the current state: every block flipped writable by earlier
// writes is clamped back to read-only and all caches are persisted.
func (v *Volume) Commit() error {
	for i := 3; i < NumBlocks; i++ {
		if v.wm[i] == blockWritable {
			v.wm[i] = blockReadOnly
		}
	}
	return v.flushAll()
}

// Restore rolls the live directory and inode state back to shadow slot
// slot. Every open descriptor is invalidated; the slot keeps its snapshot
// so a restore can be repeated.
func (v *Volume) Restore(slot int) error {
	if slot < 0 || slot >= ShadowSlots || v.sp.Shadow[slot].Size == -1 {
		return ErrBadSlot
	}
	v.sp.Root = v.sp.Shadow[slot]
	if err := v.commitSuper(); err != nil {
		return err
	}
	if err := v.loadInodes(); err != nil {
		return err
	}
	if err := v.loadDir(); err != nil {
		return err
	}
	for i := range v.fds {
		v.fds[i].inode = -1
	}
	log.Printf("ssfs: restored root from shadow slot %d", slot)
	return nil
}
