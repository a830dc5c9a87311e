package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Alias-z/FungariumOCR/internal/logger"
	"github.com/bmatcuk/doublestar/v4"
)

const DefaultExtension = ".jpg"

// Discover lists the files directly inside directory whose names end in
// extension. A missing or empty directory yields no paths, not an error.
func Discover(directory, extension string) ([]string, error) {
	if extension == "" {
		extension = DefaultExtension
	}

	if _, err := os.Stat(directory); errors.Is(err, fs.ErrNotExist) {
		logger.DebugLog("[walkFiles]: directory %s does not exist", directory)
		return []string{}, nil
	}

	pattern := "*" + escapeMeta(extension)
	names, err := doublestar.Glob(os.DirFS(directory), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("[walkFiles]: globbing %s in %s: %w", pattern, directory, err)
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, ".") {
			continue
		}
		fullPath := filepath.Join(directory, name)
		logger.DebugLog("[walkFiles]: found file %s", fullPath)
		paths = append(paths, fullPath)
	}
	return paths, nil
}

// escapeMeta quotes glob metacharacters so the extension matches literally.
func escapeMeta(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
