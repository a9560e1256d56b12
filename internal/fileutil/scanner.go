package fileutil

import (
	"fmt"
	"sort"

	"github.com/go-git/go-billy/v5"
)

// ScanOptions configures the directory traversal
type ScanOptions struct {
	// ExcludeDirs is a list of directory names to skip (e.g., ".git", "node_modules")
	ExcludeDirs []string
	// MaxDepth limits recursion depth (0 = unlimited, 1 = root directory only)
	MaxDepth int
	// ContinueOnError records unreadable directories in ScanResult.Errors
	// instead of aborting the traversal
	ContinueOnError bool
}

// ScanResult contains the results of a traversal
type ScanResult struct {
	// Files contains the paths of all regular files found, sorted
	Files []string
	// Errors contains directories that could not be read (ContinueOnError only)
	Errors []error
}

// TraversalError reports that the root or a directory beneath it could not be
// enumerated. It is fatal for the whole run unless ContinueOnError is set.
type TraversalError struct {
	Path string
	Err  error
}

// Error implements the error interface for TraversalError.
func (e *TraversalError) Error() string {
	return fmt.Sprintf("failed to traverse %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *TraversalError) Unwrap() error {
	return e.Err
}

// CollectFiles lists the regular files to scan under root.
// A root that is itself a regular file yields exactly that file. A directory
// root is walked depth-first; symlinks and other special files are skipped.
func CollectFiles(fs billy.Filesystem, root string, opts ScanOptions) (*ScanResult, error) {
	info, err := fs.Stat(root)
	if err != nil {
		return nil, &TraversalError{Path: root, Err: err}
	}

	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	if info.Mode().IsRegular() {
		result.Files = append(result.Files, root)
		return result, nil
	}
	if !info.IsDir() {
		return nil, &TraversalError{Path: root, Err: fmt.Errorf("not a regular file or directory (mode %s)", info.Mode())}
	}

	excludeMap := make(map[string]bool)
	for _, dir := range opts.ExcludeDirs {
		excludeMap[dir] = true
	}

	type pending struct {
		path  string
		depth int
	}
	stack := []pending{{path: root, depth: 0}}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := fs.ReadDir(current.path)
		if err != nil {
			travErr := &TraversalError{Path: current.path, Err: err}
			if !opts.ContinueOnError {
				return nil, travErr
			}
			result.Errors = append(result.Errors, travErr)
			continue
		}

		for _, entry := range entries {
			path := fs.Join(current.path, entry.Name())
			mode := entry.Mode()

			switch {
			case mode.IsRegular():
				result.Files = append(result.Files, path)
			case mode.IsDir():
				if excludeMap[entry.Name()] {
					continue
				}
				depth := current.depth + 1
				if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
					continue
				}
				stack = append(stack, pending{path: path, depth: depth})
			default:
				// Symlinks, sockets, devices and pipes are not scanned
			}
		}
	}

	// Sort files for consistent output
	sort.Strings(result.Files)

	return result, nil
}
