package fileutil

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// OSFS is a billy.Filesystem backed directly by the native filesystem.
// Relative paths resolve against the working directory, absolute paths are
// used as given, so paths reported by CollectFiles match what the user typed.
type OSFS struct {
	osfs.ChrootOS
}

// NewOSFS creates a pass-through OS filesystem
func NewOSFS() *OSFS {
	return &OSFS{}
}

// Chroot returns a new filesystem rooted at path.
//
//nolint:ireturn // signature is dictated by billy.Chroot
func (o *OSFS) Chroot(path string) (billy.Filesystem, error) {
	return osfs.New(path), nil
}

// Root returns the root path for this filesystem
func (o *OSFS) Root() string {
	return "/"
}
