// Package toolsync copies the shared tool bundle into workspaces.
//
// The bundle is content addressed: ComputeHash digests the manifest's files
// and Sync only rewrites a workspace's copy when that digest changes. All
// filesystem access goes through an afero.Fs so hashing can run against an
// in-memory tree.
package toolsync

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	aserrors "github.com/mrz1836/agentspace/internal/errors"
)

// bundleFile is one regular file of the bundle.
type bundleFile struct {
	rel  string // slash-separated, relative to the source root
	abs  string
	mode os.FileMode
}

// ComputeHash returns the lowercase hex SHA-256 digest of the manifest under
// sourceRoot. Each file contributes its relative path, a NUL byte, its
// contents and another NUL byte, in sorted path order.
//
// A manifest entry that does not exist is an ErrValidation.
func ComputeHash(fs afero.Fs, sourceRoot string, manifest []string) (string, error) {
	files, err := collect(fs, sourceRoot, manifest)
	if err != nil {
		return "", err
	}
	return digest(fs, files)
}

// collect expands the manifest into a sorted, de-duplicated file list.
// Top-level entries follow symlinks. Inside a directory entry, symlinks to
// files are followed and symlinks to directories are skipped.
func collect(fs afero.Fs, sourceRoot string, manifest []string) ([]bundleFile, error) {
	seen := make(map[string]bundleFile)

	for _, entry := range manifest {
		abs := filepath.Join(sourceRoot, entry)
		info, err := fs.Stat(abs)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("missing path %s in tool source %s: %w", entry, sourceRoot, aserrors.ErrValidation)
			}
			return nil, fmt.Errorf("failed to stat %s: %w", abs, err)
		}

		if !info.IsDir() {
			addFile(seen, sourceRoot, abs, info.Mode())
			continue
		}

		walkErr := afero.Walk(fs, abs, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.Mode()&os.ModeSymlink != 0 {
				target, statErr := fs.Stat(path)
				if statErr != nil || target.IsDir() {
					return nil
				}
				fi = target
			}
			if fi.Mode().IsRegular() {
				addFile(seen, sourceRoot, path, fi.Mode())
			}
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", abs, walkErr)
		}
	}

	files := make([]bundleFile, 0, len(seen))
	for _, f := range seen {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].rel < files[j].rel })
	return files, nil
}

func addFile(seen map[string]bundleFile, sourceRoot, abs string, mode os.FileMode) {
	rel, err := filepath.Rel(sourceRoot, abs)
	if err != nil {
		rel = abs
	}
	rel = filepath.ToSlash(rel)
	seen[rel] = bundleFile{rel: rel, abs: abs, mode: mode}
}

func digest(fs afero.Fs, files []bundleFile) (string, error) {
	h := sha256.New()
	sep := []byte{0}

	for _, f := range files {
		_, _ = io.WriteString(h, f.rel)
		_, _ = h.Write(sep)

		src, err := fs.Open(f.abs)
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", f.abs, err)
		}
		_, err = io.Copy(h, src)
		_ = src.Close()
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", f.abs, err)
		}

		_, _ = h.Write(sep)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
