// Package fileutil enumerates the files bytegrep scans.
//
// # Purpose
//
// The fileutil package is designed for:
//   - Turning the user's root path into the list of regular files to scan
//   - Treating a root that is itself a file as a one-element list
//   - Recursive, depth-first directory traversal with optional depth limits
//   - Directory exclusion by name (e.g., .git, node_modules)
//   - Fail-fast handling of unreadable directories
//
// # Main Components
//
// ScanOptions - Configuration struct for traversal:
//   - ExcludeDirs: Directory names to skip
//   - MaxDepth: Limit recursion depth (0 = unlimited, 1 = root directory only)
//   - ContinueOnError: Record unreadable directories instead of aborting
//
// ScanResult - Results of a traversal:
//   - Files: Paths of all regular files found (sorted alphabetically)
//   - Errors: Unreadable directories (only with ContinueOnError)
//
// TraversalError - The root or a directory could not be enumerated.
//
// OSFS - A billy.Filesystem that passes paths straight to the operating
// system, so the paths in ScanResult.Files are the ones the user typed.
//
// # Usage Examples
//
// Scan everything beneath a directory:
//
//	result, err := fileutil.CollectFiles(fileutil.NewOSFS(), "src", fileutil.ScanOptions{})
//	if err != nil {
//	    return err // *TraversalError
//	}
//	for _, file := range result.Files {
//	    fmt.Println(file)
//	}
//
// Skip VCS metadata and stay shallow:
//
//	result, err := fileutil.CollectFiles(fs, "/repo", fileutil.ScanOptions{
//	    ExcludeDirs: []string{".git"},
//	    MaxDepth:    2,
//	})
//
// # Design Principles
//
// Fail-fast traversal:
// An unreadable subdirectory aborts the whole traversal by default. Callers
// that would rather skip it set ContinueOnError and inspect ScanResult.Errors.
//
// Regular files only:
// Entry types are taken from the directory listing without following
// symlinks. Symlinks, sockets, devices and pipes are never returned, which
// also keeps symlink loops out of the walk.
//
// Sorted output:
// All file paths are sorted before being returned, ensuring deterministic
// output across runs and platforms.
package fileutil
