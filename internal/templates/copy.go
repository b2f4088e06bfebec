package templates

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vhvplatform/react-framework-sub001/internal/errors"
)

// ExcludedDirs are directory names never copied into or out of a template.
var ExcludedDirs = []string{
	"node_modules",
	"dist",
	"build",
	".next",
	".nuxt",
	".cache",
	".turbo",
	"coverage",
	".git",
	"out",
}

// IsExcluded reports whether any segment of the slash or OS separated
// relative path rel is an excluded directory name.
func IsExcluded(rel string) bool {
	for _, seg := range strings.FieldsFunc(filepath.ToSlash(rel), func(r rune) bool { return r == '/' }) {
		for _, name := range ExcludedDirs {
			if seg == name {
				return true
			}
		}
	}
	return false
}

// copyTree copies src into dst. Symlinks are recreated, not followed.
func copyTree(src, dst string) error {
	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return errors.New("E403").WithPath(src).Wrap(err)
	}
	dstAbs, err := filepath.Abs(dst)
	if err != nil {
		return errors.New("E403").WithPath(dst).Wrap(err)
	}
	info, err := os.Stat(srcAbs)
	if err != nil {
		return errors.New("E403").WithPath(src).Wrap(err)
	}
	if !info.IsDir() {
		return errors.New("E403").WithPath(src).WithDetail("not a directory")
	}

	err = filepath.WalkDir(srcAbs, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		// Copying a tree into itself must not recurse into the copy.
		if p == dstAbs {
			return filepath.SkipDir
		}

		rel, err := filepath.Rel(srcAbs, p)
		if err != nil {
			return err
		}
		if rel != "." && IsExcluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		target := filepath.Join(dstAbs, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0755)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(p)
			if err != nil {
				return err
			}
			os.Remove(target)
			return os.Symlink(link, target)
		case d.Type().IsRegular():
			return copyFile(p, target)
		}
		return nil
	})
	if err != nil {
		return errors.New("E403").WithPath(srcAbs).WithDetail("to " + dstAbs).Wrap(err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
