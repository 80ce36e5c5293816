package ssfs

import "encoding/binary"

// order is the on-disk byte order. SSFS volumes are always little-endian.
var order = binary.LittleEndian

// inode is the on-disk file metadata record: a size in bytes and 15 pointer
// slots. Slots 0..DirectPtrs-1 hold data block indices in logical order; the
// last slot holds the inode table index of the chain's next link. Unused
// slots are -1, and a size of -1 marks the whole inode free.
//
// The superblock's root and shadow records share this shape, with the
// pointers naming inode file blocks instead of data blocks.
type inode struct {
	Size int32
	Ptr  [DirectPtrs + 1]int32
}

// freeInode returns the canonical unused inode record.
func freeInode() inode {
	n := inode{Size: -1}
	for i := range n.Ptr {
		n.Ptr[i] = -1
	}
	return n
}

func (n *inode) encode(p []byte) {
	order.PutUint32(p[0:], uint32(n.Size))
	for i, ptr := range n.Ptr {
		order.PutUint32(p[4+4*i:], uint32(ptr))
	}
}

func (n *inode) decode(p []byte) {
	n.Size = int32(order.Uint32(p[0:]))
	for i := range n.Ptr {
		n.Ptr[i] = int32(order.Uint32(p[4+4*i:]))
	}
}

// findSlot scans the direct slots of nd for blk and returns its slot index,
// or DirectPtrs when blk lives further down the chain.
func findSlot(nd *inode, blk int32) int {
	for k := 0; k < DirectPtrs; k++ {
		if nd.Ptr[k] == blk {
			return k
		}
	}
	return DirectPtrs
}

// nextBlockToWrite answers which data block follows cur in the chain of ino
// for writing, extending the chain as needed: an empty next direct slot gets
// a fresh block, and past the last direct slot a fresh continuation inode is
// carved with the fresh block in its first slot. The returned block is
// always marked used.
func (v *Volume) nextBlockToWrite(ino, cur int32) (int32, error) {
	nd := &v.inodes[ino]
	switch k := findSlot(nd, cur); {
	case k < DirectPtrs-1:
		if nb := nd.Ptr[k+1]; nb != -1 {
			v.fbm[nb] = blockUsed
			return nb, nil
		}
		nb, err := v.reserveBlock()
		if err != nil {
			return -1, err
		}
		nd.Ptr[k+1] = nb
		return nb, nil
	case k == DirectPtrs-1:
		if next := nd.Ptr[indirectSlot]; next != -1 {
			nb := v.inodes[next].Ptr[0]
			v.fbm[nb] = blockUsed
			return nb, nil
		}
		j := v.unusedInode()
		if j == -1 {
			return -1, ErrNoInode
		}
		nb, err := v.reserveBlock()
		if err != nil {
			return -1, err
		}
		link := freeInode()
		link.Size = 0
		link.Ptr[0] = nb
		v.inodes[j] = link
		nd.Ptr[indirectSlot] = j
		return nb, nil
	default:
		// cur is not among the direct slots, it belongs to a later link
		if nd.Ptr[indirectSlot] == -1 {
			return -1, ErrChainEnd
		}
		return v.nextBlockToWrite(nd.Ptr[indirectSlot], cur)
	}
}

// nextBlockToRead is the read-only counterpart of nextBlockToWrite: it
// returns the block following cur in the chain of ino, or -1 at end of file.
func (v *Volume) nextBlockToRead(ino, cur int32) int32 {
	nd := &v.inodes[ino]
	switch k := findSlot(nd, cur); {
	case k < DirectPtrs-1:
		return nd.Ptr[k+1]
	case k == DirectPtrs-1:
		if nd.Ptr[indirectSlot] == -1 {
			return -1
		}
		return v.inodes[nd.Ptr[indirectSlot]].Ptr[0]
	default:
		if nd.Ptr[indirectSlot] == -1 {
			return -1
		}
		return v.nextBlockToRead(nd.Ptr[indirectSlot], cur)
	}
}

// chainInodes returns the inode table indices of every link in head's chain,
// head first.
func (v *Volume) chainInodes(head int32) []int32 {
	var out []int32
	for cur := head; cur != -1; cur = v.inodes[cur].Ptr[indirectSlot] {
		out = append(out, cur)
	}
	return out
}

// chainBlocks returns the data blocks of head's chain in logical order,
// stopping at the first unused slot.
func (v *Volume) chainBlocks(head int32) []int32 {
	var out []int32
	for cur := head; cur != -1; cur = v.inodes[cur].Ptr[indirectSlot] {
		for k := 0; k < DirectPtrs; k++ {
			b := v.inodes[cur].Ptr[k]
			if b == -1 {
				return out
			}
			out = append(out, b)
		}
	}
	return out
}

// blockOrdinal returns the logical position of blk within head's chain, or
// -1 when the chain does not reference it.
func (v *Volume) blockOrdinal(head, blk int32) int {
	for i, b := range v.chainBlocks(head) {
		if b == blk {
			return i
		}
	}
	return -1
}

// syncChainSizes copies the head inode's size onto every later link; all
// members of a chain carry the file size.
func (v *Volume) syncChainSizes(head int32) {
	sz := v.inodes[head].Size
	for cur := v.inodes[head].Ptr[indirectSlot]; cur != -1; cur = v.inodes[cur].Ptr[indirectSlot] {
		v.inodes[cur].Size = sz
	}
}
