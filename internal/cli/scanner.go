package cli

import (
	"github.com/toyz/entrait/internal/utils"
)

// DirectoryScanner resolves CLI targets into Rust source files
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a scanner for the default generated suffix
func NewDirectoryScanner() *DirectoryScanner {
	return NewDirectoryScannerWithProcessor(utils.NewFileProcessor())
}

// NewDirectoryScannerWithProcessor creates a scanner sharing fp's suffix
func NewDirectoryScannerWithProcessor(fp *utils.FileProcessor) *DirectoryScanner {
	return &DirectoryScanner{fileProcessor: fp}
}

// ScanSources returns the .rs files named by targets, skipping generated
// files. Supports Go-style patterns like "./..." for recursive scanning.
func (s *DirectoryScanner) ScanSources(targets []string) ([]string, error) {
	return s.fileProcessor.CollectFiles(targets, s.fileProcessor.RustFileFilter())
}

// ScanGenerated returns the generated files under targets
func (s *DirectoryScanner) ScanGenerated(targets []string) ([]string, error) {
	return s.fileProcessor.CollectFiles(targets, s.fileProcessor.GeneratedFileFilter())
}
