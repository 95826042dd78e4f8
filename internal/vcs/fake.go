package vcs

import (
	"context"
	"fmt"
	"os"
	"sync"

	aserrors "github.com/mrz1836/agentspace/internal/errors"
)

// Fake is an in-memory Backend. AddWorkspace creates the directory on disk so
// later steps have a working copy to write into.
type Fake struct {
	mu         sync.Mutex
	workspaces map[string]string
	checkouts  map[string]string

	// Calls records every mutating call as "add <name>", "forget <name>" or
	// "checkout <path> <change>".
	Calls []string

	// ListErr, when set, is returned by ListWorkspaces.
	ListErr error

	// CheckoutErr, when set, is returned by CheckoutRevision.
	CheckoutErr error
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{
		workspaces: make(map[string]string),
		checkouts:  make(map[string]string),
	}
}

// Register seeds a workspace without recording a call.
func (f *Fake) Register(name, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workspaces[name] = path
}

// Path returns the path name was added at.
func (f *Fake) Path(name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.workspaces[name]
	return p, ok
}

// Checkout returns the change last checked out at path.
func (f *Fake) Checkout(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checkouts[path]
}

// ListWorkspaces implements Backend.
func (f *Fake) ListWorkspaces(_ context.Context) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	names := make(map[string]struct{}, len(f.workspaces))
	for name := range f.workspaces {
		names[name] = struct{}{}
	}
	return names, nil
}

// AddWorkspace implements Backend.
func (f *Fake) AddWorkspace(_ context.Context, name, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.workspaces[name]; ok {
		return fmt.Errorf("workspace %s already exists: %w", name, aserrors.ErrVCSOperation)
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return err
	}
	f.workspaces[name] = path
	f.Calls = append(f.Calls, "add "+name)
	return nil
}

// ForgetWorkspace implements Backend.
func (f *Fake) ForgetWorkspace(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.workspaces[name]; !ok {
		return fmt.Errorf("no such workspace %s: %w", name, aserrors.ErrVCSOperation)
	}
	delete(f.workspaces, name)
	f.Calls = append(f.Calls, "forget "+name)
	return nil
}

// CheckoutRevision implements Backend.
func (f *Fake) CheckoutRevision(_ context.Context, workspacePath, changeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CheckoutErr != nil {
		return f.CheckoutErr
	}
	f.checkouts[workspacePath] = changeID
	f.Calls = append(f.Calls, "checkout "+workspacePath+" "+changeID)
	return nil
}

var (
	_ Backend = (*JJ)(nil)
	_ Backend = (*Fake)(nil)
)
