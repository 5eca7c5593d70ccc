package utils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/entrait/internal/errors"
)

// DefaultGeneratedSuffix is appended to the stem of every expanded file
const DefaultGeneratedSuffix = ".entrait.rs"

// FileProcessor finds Rust sources and generated files on disk
type FileProcessor struct {
	generatedSuffix string
}

// NewFileProcessor creates a file processor for the default generated suffix
func NewFileProcessor() *FileProcessor {
	return NewFileProcessorWithSuffix(DefaultGeneratedSuffix)
}

// NewFileProcessorWithSuffix creates a file processor treating files ending
// in suffix as generated output
func NewFileProcessorWithSuffix(suffix string) *FileProcessor {
	if suffix == "" {
		suffix = DefaultGeneratedSuffix
	}
	return &FileProcessor{generatedSuffix: suffix}
}

// GeneratedSuffix returns the suffix of generated files
func (fp *FileProcessor) GeneratedSuffix() string {
	return fp.generatedSuffix
}

// OutputPath returns the generated file path for a source file:
// src/lib.rs becomes src/lib.entrait.rs
func (fp *FileProcessor) OutputPath(source string) string {
	return strings.TrimSuffix(source, ".rs") + fp.generatedSuffix
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	// Recursive descends into subdirectories accepted by DirectoryFilter
	Recursive  bool
	SkipErrors bool
}

// RustFileFilter accepts .rs sources and rejects generated files
func (fp *FileProcessor) RustFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		name := info.Name()
		return strings.HasSuffix(name, ".rs") && !strings.HasSuffix(name, fp.generatedSuffix)
	}
}

// GeneratedFileFilter accepts only generated files
func (fp *FileProcessor) GeneratedFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		return !info.IsDir() && strings.HasSuffix(info.Name(), fp.generatedSuffix)
	}
}

// DefaultDirectoryFilter skips build output, VCS metadata and hidden directories
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"target":       true,
		"build":        true,
		"dist":         true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}
		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		return !skipDirs[name]
	}
}

// WalkFiles walks rootDir and returns the files accepted by options.FileFilter
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matched []string

	err := filepath.WalkDir(rootDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path == rootDir {
				return nil
			}
			if !options.Recursive {
				return filepath.SkipDir
			}
			if options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matched = append(matched, path)
		}
		return nil
	})

	return matched, err
}

// CollectFiles resolves command line targets into a sorted, duplicate free
// list of files accepted by filter. A target is a file, a directory (its
// direct children only) or a directory followed by "/..." (recursive).
func (fp *FileProcessor) CollectFiles(targets []string, filter FileFilter) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, target := range targets {
		root, recursive := SplitRecursivePattern(target)

		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.WrapFileSystemError("stat", root, err)
		}

		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}

		found, err := fp.WalkFiles(root, FileWalkOptions{
			FileFilter:      filter,
			DirectoryFilter: DefaultDirectoryFilter(),
			Recursive:       recursive,
		})
		if err != nil {
			return nil, errors.WrapFileSystemError("walk", root, err)
		}
		for _, path := range found {
			add(path)
		}
	}

	sort.Strings(files)
	return files, nil
}

// SplitRecursivePattern splits "dir/..." into ("dir", true)
func SplitRecursivePattern(target string) (string, bool) {
	if target == "..." {
		return ".", true
	}
	if strings.HasSuffix(target, "/...") {
		base := strings.TrimSuffix(target, "/...")
		if base == "" {
			base = "."
		}
		return base, true
	}
	return target, false
}
