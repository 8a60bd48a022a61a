package fileutil

import (
	"os"
	"path/filepath"
	"strings"
)

// GetMarkdownFilePath returns the note path for name inside directory.
func GetMarkdownFilePath(name string, directory string) string {
	return filepath.Join(directory, SanitizeFilename(name)+".md")
}

var filenameReplacer = strings.NewReplacer(
	":", " -",
	"/", "-",
	"\\", "-",
	"?", "",
	"*", "",
	"\"", "'",
	"<", "",
	">", "",
	"|", "-",
)

// SanitizeFilename replaces characters that are not allowed in file names
// on common filesystems.
func SanitizeFilename(name string) string {
	name = filenameReplacer.Replace(name)
	return strings.TrimSpace(strings.Join(strings.Fields(name), " "))
}

// FileExists checks if a regular file exists at the given path.
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// WriteFileWithOverwrite writes data to filePath unless the file exists and
// overwrite is false. It reports whether the file was written.
func WriteFileWithOverwrite(filePath string, data []byte, perm os.FileMode, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return false, err
	}

	if err := os.WriteFile(filePath, data, perm); err != nil {
		return false, err
	}
	return true, nil
}
