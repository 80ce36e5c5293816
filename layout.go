package ssfs

// On-disk geometry. These are build-time constants of the format: a volume
// written with one set of values cannot be mounted with another.
const (
	// BlockSize is the size of each device block in bytes.
	BlockSize = 1024

	// NumBlocks is the total number of blocks on the device.
	NumBlocks = 1027

	// MaxFiles bounds the inode table, the root directory and the file
	// descriptor table alike.
	MaxFiles = 200

	// NameMax is the maximum file name length in bytes, not counting the
	// NUL terminator. Names are stored NUL-padded in fixed-width slots.
	NameMax = 10

	// ShadowSlots is the size of the shadow root ring in the superblock.
	ShadowSlots = 8

	// DirectPtrs is the number of direct block pointers per inode. Slot
	// DirectPtrs (the last of the 15 slots) is the indirect pointer: the
	// inode table index of the chain's next link.
	DirectPtrs = 14

	indirectSlot = DirectPtrs // pointer slot holding the next chain inode
)

// Magic identifies an SSFS superblock.
const Magic = 0xACBD0005

// Fixed block positions. Only the first three are addressed directly after
// mkfs; the inode file and root directory are always reached through the
// superblock root's pointers so that shadowing can relocate them.
const (
	superBlockNr = 0
	fbmBlockNr   = 1
	wmBlockNr    = 2

	inodeFileStart  = 3
	inodeFileBlocks = 13

	rootDirStart  = 16
	rootDirBlocks = 4

	dataStart = 20
)

// Encoded record sizes.
const (
	inodeEncSize    = 4 + 4*(DirectPtrs+1) // size + 15 pointers
	dirEntryEncSize = NameMax + 2 + 4      // name + inode index
	inodesPerBlock  = BlockSize / inodeEncSize
	dirEntsPerBlock = BlockSize / dirEntryEncSize
)

// FBM and WM cell values. One byte per block, ASCII by design.
const (
	blockUsed = '0'
	blockFree = '1'

	blockReadOnly = '0'
	blockWritable = '1'
)
