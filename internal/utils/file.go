package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// GetFileExtension returns the file extension without the dot.
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 0 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// IsImageFile checks if a file has an image extension.
func IsImageFile(filename string) bool {
	ext := GetFileExtension(filename)
	imageExts := []string{"jpg", "jpeg", "png", "gif", "bmp", "tiff", "webp"}

	for _, imgExt := range imageExts {
		if ext == imgExt {
			return true
		}
	}
	return false
}

// ListImageFiles lists the image files directly under dir in name
// order. The listing order defines image id assignment, so it must be
// deterministic.
func ListImageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// replaceParentDir swaps the immediate parent directory of path for
// newdir, keeping the base name.
func replaceParentDir(path, newdir string) string {
	dir, base := filepath.Split(path)
	parent := filepath.Dir(filepath.Clean(dir))
	return filepath.Join(parent, newdir, base)
}

// LabelPath derives the ground-truth mask path for a raw image: the
// "images" directory segment becomes "labels" and a .jpg/.jpeg
// extension becomes .png.
func LabelPath(imagePath string) string {
	path := replaceParentDir(imagePath, "labels")
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".jpg") || strings.EqualFold(ext, ".jpeg") {
		path = strings.TrimSuffix(path, ext) + ".png"
	}
	return path
}

// ProcessedPath derives the output path for a raw image: the "images"
// directory segment becomes "input", the base name is kept.
func ProcessedPath(imagePath string) string {
	return replaceParentDir(imagePath, "input")
}

// FileExists checks if a file exists and is not a directory.
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}
