package toolsync

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/mrz1836/agentspace/internal/constants"
)

const dirPerm = 0o750

// Result describes a completed Sync.
type Result struct {
	// Digest is the bundle digest now stored in the workspace.
	Digest string

	// Copied is false when the stored digest already matched.
	Copied bool
}

// Sync brings <workspacePath>/.agent-tools up to date with the manifest.
//
// The payload is replaced when the stored digest is absent or different, or
// when force is set; otherwise only the directory's existence is ensured.
// Every manifest entry is validated before anything is touched. The workspace
// metadata and its lock file survive a replacement. A root ignore file
// containing "*" is written once.
func Sync(fs afero.Fs, workspacePath, sourceRoot string, manifest []string, force bool) (Result, error) {
	files, err := collect(fs, sourceRoot, manifest)
	if err != nil {
		return Result{}, err
	}
	sum, err := digest(fs, files)
	if err != nil {
		return Result{}, err
	}

	toolsDir := filepath.Join(workspacePath, constants.ToolsDirName)
	versionPath := filepath.Join(toolsDir, constants.VersionFileName)

	if !force && storedDigest(fs, versionPath) == sum {
		if err := fs.MkdirAll(toolsDir, dirPerm); err != nil {
			return Result{}, fmt.Errorf("failed to create %s: %w", toolsDir, err)
		}
		if err := ensureIgnoreFile(fs, workspacePath); err != nil {
			return Result{}, err
		}
		return Result{Digest: sum}, nil
	}

	if err := clearPayload(fs, toolsDir); err != nil {
		return Result{}, err
	}
	if err := fs.MkdirAll(toolsDir, dirPerm); err != nil {
		return Result{}, fmt.Errorf("failed to create %s: %w", toolsDir, err)
	}

	for _, f := range files {
		if err := copyFile(fs, f, filepath.Join(toolsDir, filepath.FromSlash(f.rel))); err != nil {
			return Result{}, err
		}
	}

	if err := afero.WriteFile(fs, versionPath, []byte(sum+"\n"), 0o600); err != nil {
		return Result{}, fmt.Errorf("failed to write %s: %w", versionPath, err)
	}
	if err := ensureIgnoreFile(fs, workspacePath); err != nil {
		return Result{}, err
	}

	return Result{Digest: sum, Copied: true}, nil
}

// StoredDigest returns the digest recorded in a workspace, or "" if none.
func StoredDigest(fs afero.Fs, workspacePath string) string {
	return storedDigest(fs, filepath.Join(workspacePath, constants.ToolsDirName, constants.VersionFileName))
}

func storedDigest(fs afero.Fs, versionPath string) string {
	data, err := afero.ReadFile(fs, versionPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// preserved lists the files inside the tools directory that belong to the
// workspace rather than to the bundle.
func preserved(name string) bool {
	return name == constants.MetadataFileName || name == constants.MetadataFileName+constants.LockSuffix
}

func clearPayload(fs afero.Fs, toolsDir string) error {
	entries, err := afero.ReadDir(fs, toolsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", toolsDir, err)
	}

	for _, entry := range entries {
		if preserved(entry.Name()) {
			continue
		}
		path := filepath.Join(toolsDir, entry.Name())
		if err := fs.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

func copyFile(fs afero.Fs, f bundleFile, dst string) error {
	if err := fs.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}

	data, err := afero.ReadFile(fs, f.abs)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.abs, err)
	}

	perm := f.mode.Perm()
	if err := afero.WriteFile(fs, dst, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	// WriteFile is subject to the umask.
	if err := fs.Chmod(dst, perm); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", dst, err)
	}
	return nil
}

func ensureIgnoreFile(fs afero.Fs, workspacePath string) error {
	path := filepath.Join(workspacePath, constants.IgnoreFileName)
	if _, err := fs.Stat(path); err == nil {
		return nil
	}
	if err := fs.MkdirAll(workspacePath, dirPerm); err != nil {
		return fmt.Errorf("failed to create %s: %w", workspacePath, err)
	}
	if err := afero.WriteFile(fs, path, []byte(constants.IgnoreContent), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
