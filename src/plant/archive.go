package plant

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// extractZip unpacks archivePath into dir, refusing entries that escape it
func extractZip(archivePath, dir string) (int, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, err
	}
	defer zr.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return 0, err
	}

	extracted := 0
	for _, f := range zr.File {
		target := filepath.Join(root, f.Name)
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return extracted, fmt.Errorf("illegal path in archive: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return extracted, err
			}
			continue
		}
		if err := writeEntry(f, target); err != nil {
			return extracted, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		extracted++
	}
	return extracted, nil
}

// -----------------------------------------------------------------------------

func writeEntry(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	// A partial file must never be mistaken for a complete extraction
	tmp := target + ".part"
	dst, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmp)
		return err
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, target)
}

// -----------------------------------------------------------------------------

// locate finds name directly under dir or, failing that, anywhere beneath it
func locate(dir, name string) (string, bool) {
	direct := filepath.Join(dir, name)
	if _, err := os.Stat(direct); err == nil {
		return direct, true
	}

	var found string
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && d.Name() == filepath.Base(name) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	return found, found != ""
}
