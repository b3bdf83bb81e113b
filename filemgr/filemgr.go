package filemgr

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"voyago/utils"

	"github.com/disintegration/imaging"
)

var (
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
)

const maxUploadBytes = 10 << 20

var allowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// Manager writes uploaded images under a base directory, one subfolder per
// kind ("cover", "photo"), with a 300px-wide thumbnail next to each photo.
type Manager struct {
	baseDir string
}

func NewManager(baseDir string) *Manager {
	return &Manager{baseDir: baseDir}
}

func extensionAllowed(ext string) bool {
	for _, a := range allowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

// Save stores one uploaded image and returns its file name relative to the
// base directory.
func (m *Manager) Save(file multipart.File, header *multipart.FileHeader, kind string) (string, error) {
	if header.Size > maxUploadBytes {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !extensionAllowed(ext) {
		return "", ErrInvalidExtension
	}

	img, err := imaging.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	dir := filepath.Join(m.baseDir, kind)
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}

	name := utils.GenerateRandomString(13) + ext
	if err := imaging.Save(img, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}

	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	thumbPath := filepath.Join(dir, "thumb_"+name)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		return "", fmt.Errorf("saving thumbnail: %w", err)
	}

	return filepath.Join(kind, name), nil
}

// Delete removes a stored file and its thumbnail if one exists. Missing files
// are not an error; the asset is already gone.
func (m *Manager) Delete(fileName string) error {
	clean := filepath.Clean(fileName)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid file name %q", fileName)
	}

	path := filepath.Join(m.baseDir, clean)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	thumb := filepath.Join(filepath.Dir(path), "thumb_"+filepath.Base(path))
	if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
