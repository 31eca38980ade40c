package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ppiankov/boycotts/internal/model"
)

// Writer serializes the archive and the evil-companies lookup
type Writer struct {
	dir          string
	boycottsFile string
	evilFile     string
}

// NewWriter creates a new writer for the configured output files
func NewWriter(cfg model.OutputConfig) *Writer {
	return &Writer{
		dir:          cfg.Dir,
		boycottsFile: cfg.BoycottsFile,
		evilFile:     cfg.EvilCompaniesFile,
	}
}

// Paths are the files a Writer produced
type Paths struct {
	Boycotts      string
	EvilCompanies string
}

// Write writes both files. Both documents are encoded before either file is
// touched and each lands via rename. If the second rename fails the previous
// archive is restored, so a failure leaves no mismatched pair behind.
func (w *Writer) Write(archive model.Archive, evil map[string]model.EvilCompany) (Paths, error) {
	paths := Paths{
		Boycotts:      filepath.Join(w.dir, w.boycottsFile),
		EvilCompanies: filepath.Join(w.dir, w.evilFile),
	}

	archiveJSON, err := MarshalJSON(archive)
	if err != nil {
		return Paths{}, fmt.Errorf("marshal boycotts: %w", err)
	}
	evilJSON, err := MarshalJSON(evil)
	if err != nil {
		return Paths{}, fmt.Errorf("marshal evil companies: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return Paths{}, fmt.Errorf("create output directory: %w", err)
	}

	archiveTmp, err := writeTemp(paths.Boycotts, archiveJSON)
	if err != nil {
		return Paths{}, err
	}
	evilTmp, err := writeTemp(paths.EvilCompanies, evilJSON)
	if err != nil {
		_ = os.Remove(archiveTmp)
		return Paths{}, err
	}

	// The previous archive is kept aside until the lookup lands, so a failed
	// second rename puts the old pair back
	backup, err := moveAside(paths.Boycotts, archiveTmp+".prev")
	if err != nil {
		_ = os.Remove(archiveTmp)
		_ = os.Remove(evilTmp)
		return Paths{}, err
	}

	if err := os.Rename(archiveTmp, paths.Boycotts); err != nil {
		_ = os.Remove(archiveTmp)
		_ = os.Remove(evilTmp)
		restore(backup, paths.Boycotts)
		return Paths{}, fmt.Errorf("rename %s: %w", paths.Boycotts, err)
	}
	if err := os.Rename(evilTmp, paths.EvilCompanies); err != nil {
		_ = os.Remove(evilTmp)
		restore(backup, paths.Boycotts)
		return Paths{}, fmt.Errorf("rename %s: %w", paths.EvilCompanies, err)
	}

	if backup != "" {
		_ = os.Remove(backup)
	}
	return paths, nil
}

// moveAside renames an existing path to backup and returns the backup name,
// or "" when there was nothing to move
func moveAside(path, backup string) (string, error) {
	if err := os.Rename(path, backup); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("back up %s: %w", path, err)
	}
	return backup, nil
}

// restore puts backup back at path, or removes path when there was no backup
func restore(backup, path string) {
	if backup == "" {
		_ = os.Remove(path)
		return
	}
	_ = os.Rename(backup, path)
}

// MarshalJSON encodes v with two-space indentation, leaving non-ASCII and
// HTML characters literal
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeTemp writes data next to path and returns the temp file name
func writeTemp(path string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(name, 0644); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}

	return name, nil
}

// RenderSample prints the first n records, one per line
func RenderSample(w io.Writer, records []model.Boycott, n int) {
	if len(records) == 0 || n <= 0 {
		return
	}

	_, _ = fmt.Fprintln(w, "\nSample entries:")
	for i, b := range records {
		if i >= n {
			break
		}
		_, _ = fmt.Fprintf(w, "  - %s: %s (Called by: %s)\n", b.Company, b.Category, b.CalledBy)
	}
}
