package ssfs_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/KarpelesLab/ssfs"
)

func newVolume(t *testing.T) *ssfs.Volume {
	t.Helper()
	v, err := ssfs.New(newMemDevice(), true)
	if err != nil {
		t.Fatalf("mkfs failed: %s", err)
	}
	return v
}

func TestHelloRoundTrip(t *testing.T) {
	v := newVolume(t)

	fd, err := v.Open("a")
	if err != nil {
		t.Fatalf("open a: %s", err)
	}
	if fd < 0 {
		t.Fatalf("open a returned fd %d", fd)
	}

	n, err := v.Write(fd, []byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("write returned %d, %v", n, err)
	}

	if err := v.SeekRead(fd, 0); err != nil {
		t.Fatalf("seek read 0: %s", err)
	}
	out := make([]byte, 5)
	n, err = v.Read(fd, out)
	if err != nil || n != 5 {
		t.Fatalf("read returned %d, %v", n, err)
	}
	if string(out) != "hello" {
		t.Errorf("read back %q, expected hello", out)
	}

	if err := v.Close(fd); err != nil {
		t.Errorf("close: %s", err)
	}
}

func TestDoubleOpenAndClose(t *testing.T) {
	v := newVolume(t)

	fd, err := v.Open("a")
	if err != nil {
		t.Fatalf("open a: %s", err)
	}
	if _, err := v.Open("a"); !errors.Is(err, ssfs.ErrAlreadyOpen) {
		t.Errorf("second open returned unexpected err=%v", err)
	}

	if err := v.Close(fd); err != nil {
		t.Errorf("first close: %s", err)
	}
	if err := v.Close(fd); !errors.Is(err, ssfs.ErrBadDescriptor) {
		t.Errorf("second close returned unexpected err=%v", err)
	}
}

func TestRemoveAndReuse(t *testing.T) {
	v := newVolume(t)

	fd, err := v.Open("a")
	if err != nil {
		t.Fatalf("open a: %s", err)
	}
	if _, err := v.Write(fd, []byte("abcd")); err != nil {
		t.Fatalf("write: %s", err)
	}
	if err := v.Close(fd); err != nil {
		t.Fatalf("close: %s", err)
	}

	if err := v.Remove("a"); err != nil {
		t.Fatalf("remove: %s", err)
	}
	if err := v.Remove("a"); !errors.Is(err, ssfs.ErrNotFound) {
		t.Errorf("second remove returned unexpected err=%v", err)
	}

	// the name is reusable, and the fresh file is empty
	fd, err = v.Open("a")
	if err != nil {
		t.Fatalf("reopen a: %s", err)
	}
	out := make([]byte, 4)
	if n, err := v.Read(fd, out); n != 0 || err != nil {
		t.Errorf("read of recreated file returned %d, %v", n, err)
	}
}

func TestRemoveClosesDescriptors(t *testing.T) {
	v := newVolume(t)

	fd, err := v.Open("a")
	if err != nil {
		t.Fatalf("open a: %s", err)
	}
	if err := v.Remove("a"); err != nil {
		t.Fatalf("remove: %s", err)
	}
	if _, err := v.Read(fd, make([]byte, 1)); !errors.Is(err, ssfs.ErrBadDescriptor) {
		t.Errorf("read through removed file's fd returned unexpected err=%v", err)
	}
}

// TestWriteReadLaw exercises the round-trip law: bytes written then read
// back through seeks match the source at every offset tried.
func TestWriteReadLaw(t *testing.T) {
	v := newVolume(t)

	buf := make([]byte, 3000)
	for i := range buf {
		buf[i] = byte('A' + i%23)
	}

	fd, err := v.Open("law")
	if err != nil {
		t.Fatalf("open: %s", err)
	}
	if n, err := v.Write(fd, buf); n != len(buf) || err != nil {
		t.Fatalf("write returned %d, %v", n, err)
	}
	if err := v.Close(fd); err != nil {
		t.Fatalf("close: %s", err)
	}

	fd, err = v.Open("law")
	if err != nil {
		t.Fatalf("reopen: %s", err)
	}
	for _, c := range []struct{ k, m int }{
		{0, 3000}, {0, 1}, {1023, 2}, {1024, 1024}, {2999, 1}, {500, 2048},
	} {
		if err := v.SeekRead(fd, c.k); err != nil {
			t.Fatalf("seek %d: %s", c.k, err)
		}
		out := make([]byte, c.m)
		n, err := v.Read(fd, out)
		if err != nil || n != c.m {
			t.Fatalf("read %d@%d returned %d, %v", c.m, c.k, n, err)
		}
		if !bytes.Equal(out, buf[c.k:c.k+c.m]) {
			t.Errorf("read %d@%d returned wrong bytes", c.m, c.k)
		}
	}
}

func TestShortReadAtEnd(t *testing.T) {
	v := newVolume(t)

	fd, err := v.Open("short")
	if err != nil {
		t.Fatalf("open: %s", err)
	}
	data := make([]byte, 1500)
	if _, err := v.Write(fd, data); err != nil {
		t.Fatalf("write: %s", err)
	}

	// a read of length starting k bytes before the end returns min(length, k)
	for _, k := range []int{1, 7, 1024, 1500} {
		if err := v.SeekRead(fd, 1500-k); err != nil {
			t.Fatalf("seek %d: %s", 1500-k, err)
		}
		n, err := v.Read(fd, make([]byte, 2000))
		if err != nil {
			t.Fatalf("read at %d: %s", 1500-k, err)
		}
		if n != k {
			t.Errorf("read %d bytes before end returned %d", k, n)
		}
	}

	// cursor at the end reads nothing
	if err := v.SeekRead(fd, 1500); err != nil {
		t.Fatalf("seek to end: %s", err)
	}
	if n, err := v.Read(fd, make([]byte, 10)); n != 0 || err != nil {
		t.Errorf("read at end returned %d, %v", n, err)
	}
}

func TestSeekErrors(t *testing.T) {
	v := newVolume(t)

	fd, err := v.Open("s")
	if err != nil {
		t.Fatalf("open: %s", err)
	}
	if _, err := v.Write(fd, []byte("0123456789")); err != nil {
		t.Fatalf("write: %s", err)
	}

	if err := v.SeekRead(fd, 11); !errors.Is(err, ssfs.ErrPastEnd) {
		t.Errorf("seek read past end returned unexpected err=%v", err)
	}
	if err := v.SeekWrite(fd, 10); !errors.Is(err, ssfs.ErrPastEnd) {
		t.Errorf("seek write to end returned unexpected err=%v", err)
	}
	if err := v.SeekRead(fd, -1); !errors.Is(err, ssfs.ErrPastEnd) {
		t.Errorf("negative seek returned unexpected err=%v", err)
	}
	if err := v.SeekRead(999, 0); !errors.Is(err, ssfs.ErrBadDescriptor) {
		t.Errorf("seek on bad fd returned unexpected err=%v", err)
	}
}

func TestOverwrite(t *testing.T) {
	v := newVolume(t)

	fd, err := v.Open("ow")
	if err != nil {
		t.Fatalf("open: %s", err)
	}
	if _, err := v.Write(fd, []byte("hello world")); err != nil {
		t.Fatalf("write: %s", err)
	}
	if err := v.SeekWrite(fd, 6); err != nil {
		t.Fatalf("seek write: %s", err)
	}
	if _, err := v.Write(fd, []byte("again")); err != nil {
		t.Fatalf("overwrite: %s", err)
	}

	// size unchanged by the overwrite
	if sz, err := v.Size("ow"); err != nil || sz != 11 {
		t.Errorf("size after overwrite = %d, %v", sz, err)
	}

	if err := v.SeekRead(fd, 0); err != nil {
		t.Fatalf("seek read: %s", err)
	}
	out := make([]byte, 11)
	if _, err := v.Read(fd, out); err != nil {
		t.Fatalf("read: %s", err)
	}
	if string(out) != "hello again" {
		t.Errorf("read back %q", out)
	}
}

func TestInvalidNames(t *testing.T) {
	v := newVolume(t)

	if _, err := v.Open(""); !errors.Is(err, ssfs.ErrInvalidName) {
		t.Errorf("open of empty name returned unexpected err=%v", err)
	}
	if _, err := v.Open("elevencharss"); !errors.Is(err, ssfs.ErrInvalidName) {
		t.Errorf("open of long name returned unexpected err=%v", err)
	}
	if err := v.Remove(""); !errors.Is(err, ssfs.ErrInvalidName) {
		t.Errorf("remove of empty name returned unexpected err=%v", err)
	}
}

// TestFileTableLimit creates names until the inode table runs out. Inode 0
// belongs to the directory, so MaxFiles-1 files fit and the next create
// fails.
func TestFileTableLimit(t *testing.T) {
	v := newVolume(t)

	for i := 0; i < ssfs.MaxFiles-1; i++ {
		name := fmtName(i)
		fd, err := v.Open(name)
		if err != nil {
			t.Fatalf("create #%d (%s): %s", i, name, err)
		}
		if err := v.Close(fd); err != nil {
			t.Fatalf("close #%d: %s", i, err)
		}
	}
	if _, err := v.Open("toomany"); err == nil {
		t.Errorf("create past the table limit unexpectedly succeeded")
	}
}

func fmtName(i int) string {
	const digits = "0123456789"
	return "f" + string([]byte{digits[i/100%10], digits[i/10%10], digits[i%10]})
}

func TestPersistence(t *testing.T) {
	dev := newMemDevice()
	v, err := ssfs.New(dev, true)
	if err != nil {
		t.Fatalf("mkfs: %s", err)
	}
	fd, err := v.Open("keep")
	if err != nil {
		t.Fatalf("open: %s", err)
	}
	if _, err := v.Write(fd, []byte("durable")); err != nil {
		t.Fatalf("write: %s", err)
	}

	// a second mount of the same device sees the same state
	v2, err := ssfs.New(dev, false)
	if err != nil {
		t.Fatalf("remount: %s", err)
	}
	fd2, err := v2.Open("keep")
	if err != nil {
		t.Fatalf("open after remount: %s", err)
	}
	out := make([]byte, 7)
	if n, err := v2.Read(fd2, out); n != 7 || err != nil {
		t.Fatalf("read after remount returned %d, %v", n, err)
	}
	if string(out) != "durable" {
		t.Errorf("read back %q after remount", out)
	}
}
