package ssfs

// cursor locates the last touched byte within an open file. entry is the
// offset of the last filled byte in block; -1 means "before the first byte".
type cursor struct {
	block int32
	entry int32
}

// fdEntry is one descriptor table slot. inode is -1 when the slot is free.
type fdEntry struct {
	inode int32
	read  cursor
	write cursor
}

func checkName(name string) error {
	if name == "" || len(name) > NameMax {
		return ErrInvalidName
	}
	return nil
}

func (v *Volume) fd(fd int) (*fdEntry, error) {
	if fd < 0 || fd >= MaxFiles {
		return nil, ErrBadDescriptor
	}
	e := &v.fds[fd]
	if e.inode == -1 {
		return nil, ErrBadDescriptor
	}
	return e, nil
}

// Open opens name, creating it when absent, and returns a descriptor. The
// read cursor starts before the first byte and the write cursor sits on the
// file's tail. A file can be open through at most one descriptor at a time.
func (v *Volume) Open(name string) (int, error) {
	if err := checkName(name); err != nil {
		return -1, err
	}
	if d := v.lookupDir(name); d != -1 {
		return v.openExisting(v.dir[d].Inode)
	}
	return v.create(name)
}

func (v *Volume) openExisting(ino int32) (int, error) {
	for i := range v.fds {
		if v.fds[i].inode == ino {
			return -1, ErrAlreadyOpen
		}
	}
	fd := v.unusedFd()
	if fd == -1 {
		return -1, ErrNoDescriptor
	}
	v.fds[fd] = fdEntry{
		inode: ino,
		read:  cursor{block: v.inodes[ino].Ptr[0], entry: -1},
		write: v.tailCursor(ino),
	}
	return fd, nil
}

// tailCursor places a cursor on the last byte of the file, or before the
// first byte of the head block for an empty file.
func (v *Volume) tailCursor(ino int32) cursor {
	sz := v.inodes[ino].Size
	if sz <= 0 {
		return cursor{block: v.inodes[ino].Ptr[0], entry: -1}
	}
	last := (sz - 1) / BlockSize
	tail := ino
	for hop := int32(0); hop < last/DirectPtrs; hop++ {
		tail = v.inodes[tail].Ptr[indirectSlot]
	}
	return cursor{
		block: v.inodes[tail].Ptr[last%DirectPtrs],
		entry: (sz - 1) % BlockSize,
	}
}

// create runs the open-create protocol: snapshot the live root, reserve the
// file's first block and inode, relocate the inode file and directory onto
// fresh blocks (the old ones now belong to the snapshot), persist, and open
// a descriptor on the empty file.
func (v *Volume) create(name string) (fd int, err error) {
	defer func() {
		if err != nil {
			// nothing was committed; drop the half-built state
			v.reloadAll()
		}
	}()

	before := v.fbm
	if _, err = v.takeSnapshot(); err != nil {
		return -1, err
	}
	// blocks handed back by an eviction stay free through this create: hold
	// them so the allocations below take other blocks
	var evicted []int32
	for i := range v.fbm {
		if before[i] == blockUsed && v.fbm[i] == blockFree {
			evicted = append(evicted, int32(i))
			v.fbm[i] = blockUsed
		}
	}

	b, err := v.reserveBlock()
	if err != nil {
		return -1, err
	}

	ino := v.unusedInode()
	if ino == -1 {
		return -1, ErrNoInode
	}
	head := freeInode()
	head.Size = 0
	head.Ptr[0] = b
	v.inodes[ino] = head

	if err = v.relocateInodeFile(); err != nil {
		return -1, err
	}

	d, err := v.unusedDir()
	if err != nil {
		return -1, err
	}
	if d == -1 {
		return -1, ErrNoDirEntry
	}
	v.dir[d].Inode = ino
	v.dir[d].setName(name)
	if err = v.relocateRootDir(); err != nil {
		return -1, err
	}
	for _, eb := range evicted {
		v.fbm[eb] = blockFree
	}

	if err = v.flushAll(); err != nil {
		return -1, err
	}

	fd = v.unusedFd()
	if fd == -1 {
		return -1, ErrNoDescriptor
	}
	v.fds[fd] = fdEntry{
		inode: ino,
		read:  cursor{block: b, entry: -1},
		write: cursor{block: b, entry: -1},
	}
	return fd, nil
}

// relocateInodeFile points the live root at a fresh run of blocks. The old
// blocks stay allocated for whatever shadow snapshot references them; the
// table's content lands on the new blocks at the next commit.
func (v *Volume) relocateInodeFile() error {
	for i := 0; i < inodeFileBlocks; i++ {
		nb, err := v.reserveBlock()
		if err != nil {
			return err
		}
		v.sp.Root.Ptr[i] = nb
	}
	return nil
}

// relocateRootDir does the same for the directory blocks named by inode 0.
func (v *Volume) relocateRootDir() error {
	for i := 0; i < rootDirBlocks; i++ {
		nb, err := v.reserveBlock()
		if err != nil {
			return err
		}
		v.inodes[0].Ptr[i] = nb
	}
	return nil
}

// Close releases the descriptor. Closing a descriptor that is not open
// fails.
func (v *Volume) Close(fd int) error {
	e, err := v.fd(fd)
	if err != nil {
		return err
	}
	e.inode = -1
	return nil
}

// Write writes len(p) bytes at the write cursor, extending the file and its
// inode chain as needed. On failure the returned count covers only the
// bytes confirmed on disk.
func (v *Volume) Write(fd int, p []byte) (int, error) {
	e, err := v.fd(fd)
	if err != nil {
		return -1, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	ino := e.inode
	total := 0
	for total < len(p) {
		offset := int(e.write.entry) + 1
		if offset == BlockSize {
			nb, werr := v.nextBlockToWrite(ino, e.write.block)
			if werr != nil {
				v.flushData()
				return total, werr
			}
			e.write = cursor{block: nb, entry: -1}
			continue
		}
		chunk := len(p) - total
		if chunk > BlockSize-offset {
			chunk = BlockSize - offset
		}
		if _, werr := v.writeSub(e.write.block, offset, p[total:total+chunk]); werr != nil {
			v.flushData()
			return total, werr
		}
		e.write.entry += int32(chunk)
		total += chunk

		// grow the file when the write ran past its end; every link of
		// the chain carries the new size
		ord := v.blockOrdinal(ino, e.write.block)
		if end := int32(ord)*BlockSize + e.write.entry + 1; ord >= 0 && end > v.inodes[ino].Size {
			v.inodes[ino].Size = end
			v.syncChainSizes(ino)
		}
	}
	if err := v.flushData(); err != nil {
		return total, err
	}
	return total, nil
}

// flushData commits the caches a data write can dirty.
func (v *Volume) flushData() error {
	if err := v.commitFBM(); err != nil {
		return err
	}
	if err := v.commitWM(); err != nil {
		return err
	}
	return v.commitInodes()
}

// Read reads up to len(p) bytes at the read cursor. Reads stop short at end
// of file; a cursor already at the end reads 0 bytes.
func (v *Volume) Read(fd int, p []byte) (int, error) {
	e, err := v.fd(fd)
	if err != nil {
		return -1, err
	}
	ino := e.inode
	sz := v.inodes[ino].Size
	if len(p) == 0 || sz <= 0 {
		return 0, nil
	}

	// clamp to the bytes between the cursor and end of file
	pos := int32(0)
	if ord := v.blockOrdinal(ino, e.read.block); ord >= 0 {
		pos = int32(ord)*BlockSize + e.read.entry + 1
	}
	remain := sz - pos
	if remain <= 0 {
		return 0, nil
	}
	if remain < int32(len(p)) {
		p = p[:remain]
	}

	total := 0
	for total < len(p) {
		offset := int(e.read.entry) + 1
		if offset == BlockSize {
			nb := v.nextBlockToRead(ino, e.read.block)
			if nb == -1 {
				break
			}
			e.read = cursor{block: nb, entry: -1}
			continue
		}
		chunk := len(p) - total
		if chunk > BlockSize-offset {
			chunk = BlockSize - offset
		}
		if _, rerr := v.readSub(e.read.block, offset, p[total:total+chunk]); rerr != nil {
			return total, rerr
		}
		e.read.entry += int32(chunk)
		total += chunk
	}
	return total, nil
}

// SeekRead positions the read cursor on byte loc of the file.
func (v *Volume) SeekRead(fd, loc int) error {
	return v.seek(fd, loc, false)
}

// SeekWrite positions the write cursor on byte loc of the file.
func (v *Volume) SeekWrite(fd, loc int) error {
	return v.seek(fd, loc, true)
}

func (v *Volume) seek(fd, loc int, write bool) error {
	e, err := v.fd(fd)
	if err != nil {
		return err
	}
	if loc < 0 {
		return ErrPastEnd
	}
	ino := e.inode
	sz := int(v.inodes[ino].Size)
	if write {
		if loc > 0 && loc >= sz {
			return ErrPastEnd
		}
	} else if loc > sz {
		return ErrPastEnd
	}

	cur := cursor{block: v.inodes[ino].Ptr[0], entry: -1}
	for loc >= BlockSize {
		nb := v.nextBlockToRead(ino, cur.block)
		if nb == -1 {
			return ErrPastEnd
		}
		cur.block = nb
		loc -= BlockSize
	}
	cur.entry = int32(loc) - 1

	if write {
		e.write = cur
	} else {
		e.read = cur
	}
	return nil
}

// Remove deletes name: every descriptor on the file is closed, every chain
// block is zero-filled and freed, and every chain inode cleared.
func (v *Volume) Remove(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	d := v.lookupDir(name)
	if d == -1 {
		return ErrNotFound
	}
	ino := v.dir[d].Inode

	for i := range v.fds {
		if v.fds[i].inode == ino {
			v.fds[i].inode = -1
		}
	}

	blocks := v.chainBlocks(ino)
	links := v.chainInodes(ino)

	zero := make([]byte, BlockSize)
	for _, b := range blocks {
		if err := v.dev.WriteBlocks(int(b), 1, zero); err != nil {
			return err
		}
		v.fbm[b] = blockFree
		v.wm[b] = blockReadOnly
	}
	for _, l := range links {
		v.inodes[l] = freeInode()
	}
	v.dir[d] = dirEntry{Inode: -1}

	if err := v.commitFBM(); err != nil {
		return err
	}
	if err := v.commitWM(); err != nil {
		return err
	}
	if err := v.commitInodes(); err != nil {
		return err
	}
	return v.commitDir()
}

// Size returns the byte size of the named file.
func (v *Volume) Size(name string) (int, error) {
	if err := checkName(name); err != nil {
		return -1, err
	}
	d := v.lookupDir(name)
	if d == -1 {
		return -1, ErrNotFound
	}
	return int(v.inodes[v.dir[d].Inode].Size), nil
}
