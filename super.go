package ssfs

// superblock is the block 0 record. The root's pointers name the blocks
// currently holding the inode file; each live shadow slot holds an older
// root whose blocks stay allocated until the slot is evicted.
type superblock struct {
	Magic      uint32
	BlockSize  int32
	NumBlocks  int32
	InodeCount int32
	Root       inode
	Shadow     [ShadowSlots]inode
}

const superblockEncSize = 16 + inodeEncSize*(1+ShadowSlots)

func (sb *superblock) encode(p []byte) {
	order.PutUint32(p[0:], sb.Magic)
	order.PutUint32(p[4:], uint32(sb.BlockSize))
	order.PutUint32(p[8:], uint32(sb.NumBlocks))
	order.PutUint32(p[12:], uint32(sb.InodeCount))
	sb.Root.encode(p[16:])
	for i := range sb.Shadow {
		sb.Shadow[i].encode(p[16+inodeEncSize*(1+i):])
	}
}

func (sb *superblock) decode(p []byte) {
	sb.Magic = order.Uint32(p[0:])
	sb.BlockSize = int32(order.Uint32(p[4:]))
	sb.NumBlocks = int32(order.Uint32(p[8:]))
	sb.InodeCount = int32(order.Uint32(p[12:]))
	sb.Root.decode(p[16:])
	for i := range sb.Shadow {
		sb.Shadow[i].decode(p[16+inodeEncSize*(1+i):])
	}
}
