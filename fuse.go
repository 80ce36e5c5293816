//go:build fuse

package ssfs

import (
	"context"
	"io"
	"syscall"

	gofs "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// fuseRoot exposes the flat namespace as a one-level FUSE directory.
type fuseRoot struct {
	gofs.Inode
	v *Volume
}

var _ = (gofs.NodeReaddirer)((*fuseRoot)(nil))
var _ = (gofs.NodeLookuper)((*fuseRoot)(nil))

func (r *fuseRoot) Readdir(ctx context.Context) (gofs.DirStream, syscall.Errno) {
	var list []fuse.DirEntry
	for _, name := range r.v.Names() {
		list = append(list, fuse.DirEntry{Name: name, Mode: fuse.S_IFREG})
	}
	return gofs.NewListDirStream(list), 0
}

func (r *fuseRoot) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*gofs.Inode, syscall.Errno) {
	d := r.v.lookupDir(name)
	if d == -1 || r.v.dir[d].Inode <= 0 {
		return nil, syscall.ENOENT
	}
	ino := r.v.dir[d].Inode
	out.Attr.Size = uint64(r.v.inodes[ino].Size)
	out.Attr.Mode = fuse.S_IFREG | 0644
	child := r.NewInode(ctx, &fuseFile{v: r.v, ino: ino, name: name},
		gofs.StableAttr{Mode: fuse.S_IFREG, Ino: uint64(ino) + 1})
	return child, 0
}

// fuseFile serves one file read-only through its inode chain.
type fuseFile struct {
	gofs.Inode
	v    *Volume
	ino  int32
	name string
}

var _ = (gofs.NodeOpener)((*fuseFile)(nil))
var _ = (gofs.NodeReader)((*fuseFile)(nil))
var _ = (gofs.NodeGetattrer)((*fuseFile)(nil))

func (f *fuseFile) Getattr(ctx context.Context, fh gofs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Attr.Size = uint64(f.v.inodes[f.ino].Size)
	out.Attr.Mode = fuse.S_IFREG | 0644
	return 0
}

func (f *fuseFile) Open(ctx context.Context, flags uint32) (gofs.FileHandle, uint32, syscall.Errno) {
	// the mount is read-only, let the kernel keep its cache
	return nil, fuse.FOPEN_KEEP_CACHE, 0
}

func (f *fuseFile) Read(ctx context.Context, fh gofs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	vf := &viewFile{v: f.v, ino: f.ino, name: f.name}
	n, err := vf.ReadAt(dest, off)
	if err != nil && err != io.EOF {
		return nil, syscall.EIO
	}
	return fuse.ReadResultData(dest[:n]), 0
}

// Mount serves the volume read-only at dir until the returned server is
// unmounted.
func (v *Volume) Mount(dir string) (*fuse.Server, error) {
	return gofs.Mount(dir, &fuseRoot{v: v}, &gofs.Options{})
}
