package ssfs

// dirEntry is one root directory slot: a NUL-padded fixed-width name and the
// inode index of the file, -1 when the slot is free. Slot 0 always refers to
// inode 0, the directory's own inode.
type dirEntry struct {
	Name  [NameMax + 2]byte
	Inode int32
}

func (e *dirEntry) encode(p []byte) {
	copy(p[:NameMax+2], e.Name[:])
	order.PutUint32(p[NameMax+2:], uint32(e.Inode))
}

func (e *dirEntry) decode(p []byte) {
	copy(e.Name[:], p[:NameMax+2])
	e.Inode = int32(order.Uint32(p[NameMax+2:]))
}

// name returns the entry's file name without the NUL padding.
func (e *dirEntry) name() string {
	for i, c := range e.Name {
		if c == 0 {
			return string(e.Name[:i])
		}
	}
	return string(e.Name[:])
}

func (e *dirEntry) setName(s string) {
	e.Name = [NameMax + 2]byte{}
	copy(e.Name[:], s)
}

// lookupDir returns the directory slot holding name, or -1.
func (v *Volume) lookupDir(name string) int {
	for i := range v.dir {
		if v.dir[i].Inode != -1 && v.dir[i].name() == name {
			return i
		}
	}
	return -1
}

// Names lists the volume's file names in directory order.
func (v *Volume) Names() []string {
	var out []string
	for i := range v.dir {
		if v.dir[i].Inode <= 0 {
			// free slot, or the directory's own entry
			continue
		}
		out = append(out, v.dir[i].name())
	}
	return out
}
