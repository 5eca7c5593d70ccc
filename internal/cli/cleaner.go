package cli

import (
	"os"

	"github.com/toyz/entrait/internal/errors"
	"github.com/toyz/entrait/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner *DirectoryScanner
}

// NewCleaner creates a cleaner removing files with the given generated suffix
func NewCleaner(suffix string) *Cleaner {
	return &Cleaner{
		scanner: NewDirectoryScannerWithProcessor(utils.NewFileProcessorWithSuffix(suffix)),
	}
}

// CleanGeneratedFiles removes every generated file under targets and
// returns the removed paths
func (c *Cleaner) CleanGeneratedFiles(targets []string) ([]string, error) {
	files, err := c.scanner.ScanGenerated(targets)
	if err != nil {
		return nil, err
	}

	removed := make([]string, 0, len(files))
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, errors.WrapFileSystemError("remove", file, err)
		}
		removed = append(removed, file)
	}
	return removed, nil
}
