package ssfs

// First-fit scans over the four resource pools. Callers mark the returned
// resource used before allocating again, or the scan hands out the same
// index twice.

// unusedBlock returns the first free data block index, or -1.
func (v *Volume) unusedBlock() int32 {
	for i := dataStart; i < NumBlocks; i++ {
		if v.fbm[i] == blockFree {
			return int32(i)
		}
	}
	return -1
}

// reserveBlock claims the first free data block.
func (v *Volume) reserveBlock() (int32, error) {
	b := v.unusedBlock()
	if b == -1 {
		return -1, ErrNoSpace
	}
	v.fbm[b] = blockUsed
	return b, nil
}

// unusedInode returns the first free inode index, or -1.
func (v *Volume) unusedInode() int32 {
	for i := range v.inodes {
		if v.inodes[i].Size == -1 {
			return int32(i)
		}
	}
	return -1
}

// unusedFd returns the first free descriptor index, or -1.
func (v *Volume) unusedFd() int {
	for i := range v.fds {
		if v.fds[i].inode == -1 {
			return i
		}
	}
	return -1
}

// unusedDir re-reads the directory from disk, then returns the first free
// slot, or -1.
func (v *Volume) unusedDir() (int, error) {
	if err := v.loadDir(); err != nil {
		return -1, err
	}
	for i := range v.dir {
		if v.dir[i].Inode == -1 {
			return i, nil
		}
	}
	return -1, nil
}
