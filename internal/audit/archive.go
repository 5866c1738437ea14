package audit

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Archive keeps raw import payloads on disk, one UUID-named file per payload.
type Archive struct {
	Dir string
}

func NewArchive(dir string) *Archive {
	return &Archive{
		Dir: dir,
	}
}

// SaveRaw writes data to a new file with the given extension and returns its name.
func (a *Archive) SaveRaw(data []byte, ext string) (string, error) {
	if err := a.ensureDir(); err != nil {
		return "", fmt.Errorf("failed to ensure archive directory: %w", err)
	}

	filename := fmt.Sprintf("%s.%s", uuid.NewString(), strings.TrimPrefix(ext, "."))
	path := filepath.Join(a.Dir, filename)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}

	log.Printf("Archived import payload: %s", path)
	return filename, nil
}

func (a *Archive) ensureDir() error {
	if _, err := os.Stat(a.Dir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create archive directory: %w", err)
		}
	}
	return nil
}
