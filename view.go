package ssfs

import (
	"io"
	"io/fs"
	"time"
)

// view adapts the volume's flat namespace to io/fs. All access is read-only
// and goes straight through the inode chains, so an open view file does not
// count against the one-descriptor-per-file rule.
type view struct {
	v *Volume
}

// FS returns a read-only io/fs view of the volume.
func (v *Volume) FS() fs.FS {
	return &view{v: v}
}

var _ fs.FS = (*view)(nil)
var _ fs.ReadDirFS = (*view)(nil)

func (vw *view) Open(name string) (fs.File, error) {
	if name == "." {
		return &viewDir{v: vw.v}, nil
	}
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	d := vw.v.lookupDir(name)
	if d == -1 {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &viewFile{v: vw.v, ino: vw.v.dir[d].Inode, name: name}, nil
}

func (vw *view) ReadDir(name string) ([]fs.DirEntry, error) {
	if name != "." {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	d := &viewDir{v: vw.v}
	return d.ReadDir(-1)
}

// viewFile serves one file's bytes through its inode chain.
type viewFile struct {
	v    *Volume
	ino  int32
	name string
	off  int64
}

var _ fs.File = (*viewFile)(nil)
var _ io.ReaderAt = (*viewFile)(nil)

func (f *viewFile) Stat() (fs.FileInfo, error) {
	return &fileinfo{name: f.name, size: int64(f.v.inodes[f.ino].Size)}, nil
}

func (f *viewFile) Read(p []byte) (int, error) {
	n, err := f.ReadAt(p, f.off)
	f.off += int64(n)
	return n, err
}

func (f *viewFile) ReadAt(p []byte, off int64) (int, error) {
	sz := int64(f.v.inodes[f.ino].Size)
	if off < 0 {
		return 0, fs.ErrInvalid
	}
	if off >= sz {
		return 0, io.EOF
	}
	if off+int64(len(p)) > sz {
		p = p[:sz-off]
	}
	blocks := f.v.chainBlocks(f.ino)
	n := 0
	for n < len(p) {
		bi := (off + int64(n)) / BlockSize
		bo := int((off + int64(n)) % BlockSize)
		if bi >= int64(len(blocks)) {
			break
		}
		chunk := len(p) - n
		if chunk > BlockSize-bo {
			chunk = BlockSize - bo
		}
		if _, err := f.v.readSub(blocks[bi], bo, p[n:n+chunk]); err != nil {
			return n, err
		}
		n += chunk
	}
	return n, nil
}

// Close actually does nothing and exists to comply with fs.File
func (f *viewFile) Close() error {
	return nil
}

// viewDir lists the root directory.
type viewDir struct {
	v   *Volume
	pos int
}

var _ fs.ReadDirFile = (*viewDir)(nil)

func (d *viewDir) Stat() (fs.FileInfo, error) {
	return &fileinfo{name: ".", dir: true}, nil
}

// Read on a directory is invalid and will always fail
func (d *viewDir) Read(p []byte) (int, error) {
	return 0, fs.ErrInvalid
}

func (d *viewDir) Close() error {
	return nil
}

func (d *viewDir) ReadDir(n int) ([]fs.DirEntry, error) {
	var res []fs.DirEntry
	for d.pos < MaxFiles {
		e := &d.v.dir[d.pos]
		d.pos++
		if e.Inode <= 0 {
			continue
		}
		res = append(res, &direntry{name: e.name(), size: int64(d.v.inodes[e.Inode].Size)})
		if n > 0 && len(res) >= n {
			return res, nil
		}
	}
	if n > 0 && len(res) == 0 {
		return nil, io.EOF
	}
	return res, nil
}

type direntry struct {
	name string
	size int64
}

var _ fs.DirEntry = (*direntry)(nil)

func (de *direntry) Name() string {
	return de.name
}

func (de *direntry) IsDir() bool {
	return false
}

func (de *direntry) Type() fs.FileMode {
	return 0
}

func (de *direntry) Info() (fs.FileInfo, error) {
	return &fileinfo{name: de.name, size: de.size}, nil
}

type fileinfo struct {
	name string
	size int64
	dir  bool
}

var _ fs.FileInfo = (*fileinfo)(nil)

func (fi *fileinfo) Name() string {
	return fi.name
}

func (fi *fileinfo) Size() int64 {
	return fi.size
}

func (fi *fileinfo) Mode() fs.FileMode {
	if fi.dir {
		return fs.ModeDir | 0755
	}
	return 0644
}

// ModTime is always the zero time, the format stores no timestamps
func (fi *fileinfo) ModTime() time.Time {
	return time.Time{}
}

func (fi *fileinfo) IsDir() bool {
	return fi.dir
}

func (fi *fileinfo) Sys() any {
	return nil
}
