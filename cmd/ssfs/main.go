package main

import (
	"fmt"
	"io"
	"os"

	"github.com/KarpelesLab/ssfs"
)

const usage = `ssfs - Simple Shadowing File System tool

Usage:
  ssfs mkfs <disk>                     Format a fresh volume
  ssfs info <disk>                     Display volume information
  ssfs ls <disk>                       List files on the volume
  ssfs cat <disk> <file>               Display contents of a file
  ssfs put <disk> <file>               Store stdin as a file
  ssfs rm <disk> <file>                Remove a file
  ssfs restore <disk> <slot>           Roll back to a shadow snapshot
  ssfs export <disk> <out> [codec]     Export a volume image (none, gzip, xz, zstd)
  ssfs import <disk> <in>              Import a volume image
  ssfs help                            Show this help message

Examples:
  ssfs mkfs test_disk                  Create a fresh volume in test_disk
  echo hi | ssfs put test_disk note    Store "hi" as file note
  ssfs export test_disk img.ssfs zstd  Export a zstd-compressed image
`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	var err error
	switch cmd := os.Args[1]; cmd {
	case "mkfs":
		err = withArgs(2, func(a []string) error {
			v, err := ssfs.Create(a[0])
			if err != nil {
				return err
			}
			return v.Unmount()
		})
	case "info":
		err = withVolume(2, func(v *ssfs.Volume, a []string) error {
			fmt.Printf("block size: %d\nblocks: %d\nfiles: %d\nsnapshots: %d\n",
				ssfs.BlockSize, ssfs.NumBlocks, len(v.Names()), v.Snapshots())
			return nil
		})
	case "ls":
		err = withVolume(2, func(v *ssfs.Volume, a []string) error {
			for _, name := range v.Names() {
				sz, err := v.Size(name)
				if err != nil {
					return err
				}
				fmt.Printf("%8d %s\n", sz, name)
			}
			return nil
		})
	case "cat":
		err = withVolume(3, func(v *ssfs.Volume, a []string) error {
			f, err := v.FS().Open(a[1])
			if err != nil {
				return err
			}
			defer f.Close()
			_, err = io.Copy(os.Stdout, f)
			return err
		})
	case "put":
		err = withVolume(3, func(v *ssfs.Volume, a []string) error {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			fd, err := v.Open(a[1])
			if err != nil {
				return err
			}
			if _, err := v.Write(fd, data); err != nil {
				return err
			}
			return v.Close(fd)
		})
	case "rm":
		err = withVolume(3, func(v *ssfs.Volume, a []string) error {
			return v.Remove(a[1])
		})
	case "restore":
		err = withVolume(3, func(v *ssfs.Volume, a []string) error {
			var slot int
			if _, err := fmt.Sscanf(a[1], "%d", &slot); err != nil {
				return err
			}
			return v.Restore(slot)
		})
	case "export":
		err = withVolume(3, func(v *ssfs.Volume, a []string) error {
			comp := ssfs.None
			if len(a) > 2 {
				switch a[2] {
				case "none":
					comp = ssfs.None
				case "gzip":
					comp = ssfs.GZip
				case "xz":
					comp = ssfs.XZ
				case "zstd":
					comp = ssfs.ZSTD
				default:
					return fmt.Errorf("unknown codec %q", a[2])
				}
			}
			out, err := os.Create(a[1])
			if err != nil {
				return err
			}
			if err := v.Export(out, comp); err != nil {
				out.Close()
				return err
			}
			return out.Close()
		})
	case "import":
		err = withVolume(3, func(v *ssfs.Volume, a []string) error {
			in, err := os.Open(a[1])
			if err != nil {
				return err
			}
			defer in.Close()
			return v.Import(in)
		})
	case "help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", cmd)
		fmt.Println(usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// withArgs checks the argument count and runs fn over the arguments after
// the command name.
func withArgs(min int, fn func(a []string) error) error {
	if len(os.Args) < min+1 {
		fmt.Println(usage)
		os.Exit(1)
	}
	return fn(os.Args[2:])
}

// withVolume mounts the named volume and runs fn on it.
func withVolume(min int, fn func(v *ssfs.Volume, a []string) error) error {
	return withArgs(min, func(a []string) error {
		v, err := ssfs.Open(a[0])
		if err != nil {
			return err
		}
		defer v.Unmount()
		return fn(v, a)
	})
}
