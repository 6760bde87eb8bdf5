package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Sternrassler/hubeau-client/pkg/table"
	"github.com/rs/zerolog/log"
)

// Theme folders below the export root.
const (
	FolderFish    = "Poissons"
	FolderQuality = "Qualite des Cours d'Eau"
)

// ArchiveSuffix is appended to the root name to form the zip file name.
const ArchiveSuffix = "_donnees.zip"

// fishPrefix routes a dataset to FolderFish.
const fishPrefix = "poissons"

// Dataset is a named table to export as <Name>.csv.
type Dataset struct {
	Name  string
	Table *table.Table
}

// Result lists what Export wrote.
type Result struct {
	Root    string
	Files   []string
	Archive string
}

// ErrInvalidRiver is returned by Export for a river name that is empty or
// would escape the output directory.
var ErrInvalidRiver = errors.New("invalid river name")

// RootName upper-cases the first letter of river and lower-cases the rest.
func RootName(river string) string {
	r, size := utf8.DecodeRuneInString(river)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(river[size:])
}

// Folder returns the theme folder for a dataset name.
func Folder(name string) string {
	if strings.HasPrefix(name, fishPrefix) {
		return FolderFish
	}
	return FolderQuality
}

// checkRiver rejects names that cannot form a single directory under outDir.
func checkRiver(river string) error {
	switch {
	case strings.TrimSpace(river) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidRiver)
	case strings.ContainsAny(river, `/\`) || strings.ContainsRune(river, filepath.Separator):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidRiver, river)
	case river == "." || river == "..":
		return fmt.Errorf("%w: %q", ErrInvalidRiver, river)
	}
	return nil
}

// Export writes each dataset under <outDir>/<RootName(river)>/<Folder>/ and
// packs both theme folders into <outDir>/<RootName(river)>_donnees.zip.
// Existing files are overwritten.
func Export(outDir, river string, datasets []Dataset) (*Result, error) {
	if err := checkRiver(river); err != nil {
		return nil, err
	}
	rootName := RootName(river)

	logger := log.With().Str("component", "hubeau-export").Logger()
	root := filepath.Join(outDir, rootName)
	res := &Result{Root: root}

	for _, ds := range datasets {
		path := filepath.Join(root, Folder(ds.Name), ds.Name+".csv")
		if err := WriteTable(path, ds.Table); err != nil {
			return nil, fmt.Errorf("export %s: %w", ds.Name, err)
		}
		res.Files = append(res.Files, path)

		logger.Info().
			Str("dataset", ds.Name).
			Str("path", path).
			Int("rows", ds.Table.Len()).
			Int("columns", len(ds.Table.Columns())).
			Msg("Dataset written")
	}

	folders := []string{filepath.Join(root, FolderFish), filepath.Join(root, FolderQuality)}
	for _, dir := range folders {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	res.Archive = filepath.Join(outDir, rootName+ArchiveSuffix)
	if err := Archive(res.Archive, root, folders...); err != nil {
		return nil, err
	}

	logger.Info().
		Str("archive", res.Archive).
		Int("files", len(res.Files)).
		Msg("Archive written")

	return res, nil
}
