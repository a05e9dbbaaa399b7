package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// FileDoc is a document stored as a single file below a corpus directory.
// Its ID is the path relative to that directory.
type FileDoc struct {
	id   string
	path string
}

func NewFileDoc(id, path string) FileDoc {
	return FileDoc{
		id:   id,
		path: path,
	}
}

func (doc FileDoc) ID() string {
	return doc.id
}

func (doc FileDoc) Path() string {
	return doc.path
}

func (doc FileDoc) Text() (string, error) {
	b, err := os.ReadFile(doc.path)
	if err != nil {
		return "", fmt.Errorf("read document %s: %w", doc.id, err)
	}
	return string(b), nil
}

// ReadFiles lists the regular files directly inside srcDir whose name ends
// with ext. The result is sorted, so the listing order is stable across runs.
func ReadFiles(srcDir, ext string) ([]string, error) {
	validFiles := []string{}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if ext != "" && !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		validFiles = append(validFiles, filepath.Join(srcDir, entry.Name()))
	}
	sort.Strings(validFiles)

	log.Debug().Str("dir", srcDir).Str("ext", ext).Int("files", len(validFiles)).Msg("raw files listed")

	return validFiles, nil
}

// NewFileDocs attaches an ID to every file, keeping the order of files.
func NewFileDocs(srcDir string, files []string) ([]FileDoc, error) {
	docs := make([]FileDoc, 0, len(files))
	for _, file := range files {
		id, err := filepath.Rel(srcDir, file)
		if err != nil {
			return nil, fmt.Errorf("document id for %s: %w", file, err)
		}
		docs = append(docs, NewFileDoc(filepath.ToSlash(id), file))
	}
	return docs, nil
}

// LoadDir is ReadFiles followed by NewFileDocs.
func LoadDir(srcDir, ext string) ([]FileDoc, error) {
	files, err := ReadFiles(srcDir, ext)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", srcDir, err)
	}
	return NewFileDocs(srcDir, files)
}
