// Package archive validates and extracts uploaded product photo bundles.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"catalog-service/internal/models"
)

const (
	// MaxImages caps how many entries a single archive may contribute.
	MaxImages = 100
	// MaxFileSize is the per-image ceiling; oversized members are skipped.
	MaxFileSize = 10 * 1024 * 1024
	// MaxArchiveSize bounds the whole upload, enforced at the HTTP layer.
	MaxArchiveSize = 500 * 1024 * 1024
)

var (
	// ErrInvalidFormat indicates the payload is not a ZIP archive.
	ErrInvalidFormat = errors.New("file is not a valid ZIP archive (missing PK signature)")
	// ErrNoImagesFound indicates a valid archive with no usable images.
	ErrNoImagesFound = errors.New("no valid images found in the archive")
)

var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// Result holds the flat list of images extracted from an archive.
type Result struct {
	TotalImages int
	Entries     []models.ImageEntry
}

// Validate checks the archive magic header without decompressing anything,
// so garbage uploads are rejected cheaply.
func Validate(data []byte) error {
	if len(data) < 4 || data[0] != 0x50 || data[1] != 0x4b {
		return ErrInvalidFormat
	}
	return nil
}

// Extract walks every archive entry and returns the surviving images as
// data-URI payloads. Directories, hidden system artifacts, non-image
// extensions and oversized members are skipped; extraction stops once
// MaxImages entries have been accepted.
func Extract(data []byte) (*Result, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	entries := make([]models.ImageEntry, 0, len(reader.File))
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if skipEntry(f.Name) {
			continue
		}

		ext := strings.ToLower(path.Ext(f.Name))
		mimeType, ok := mimeTypes[ext]
		if !ok {
			continue
		}
		if f.UncompressedSize64 > MaxFileSize {
			continue
		}

		payload, err := readEntry(f)
		if err != nil {
			// A single corrupt member must not sink the whole archive.
			continue
		}

		folder := folderOf(f.Name)
		category := models.CategoryUncategorized
		if folder != "" {
			category = folder
		}

		entries = append(entries, models.ImageEntry{
			FileName: path.Base(f.Name),
			Folder:   folder,
			Category: category,
			DataURI:  fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(payload)),
			MimeType: mimeType,
			Size:     int64(len(payload)),
		})

		if len(entries) >= MaxImages {
			break
		}
	}

	if len(entries) == 0 {
		return nil, ErrNoImagesFound
	}

	return &Result{TotalImages: len(entries), Entries: entries}, nil
}

func skipEntry(name string) bool {
	normalized := strings.ReplaceAll(name, "\\", "/")
	if strings.Contains(normalized, "__MACOSX") || strings.Contains(normalized, ".DS_Store") {
		return true
	}
	return strings.HasPrefix(path.Base(normalized), ".")
}

// folderOf returns the first path segment of an in-archive entry, used as
// its folder-derived category.
func folderOf(name string) string {
	normalized := strings.ReplaceAll(name, "\\", "/")
	parts := strings.Split(normalized, "/")
	cleaned := parts[:0]
	for _, p := range parts {
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) > 1 {
		return cleaned[0]
	}
	return ""
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, MaxFileSize+1))
}
