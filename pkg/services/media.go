package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MediaFile describes one stored blob.
type MediaFile struct {
	Name string `json:"name"`
	Path string `json:"path"` // Public URL path, usable as cover_image_url
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// MediaService stores uploaded cover images on disk under a directory that
// the server exposes at /media.
type MediaService struct {
	dir string
}

func NewMediaService(dir string) (*MediaService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &MediaService{dir: dir}, nil
}

const copyChunkSize = 32 * 1024

// Save writes the uploaded file to disk, calling progress with 0-100 as
// bytes land. The returned Path is durable before Save returns, so callers
// can persist records that reference it.
func (m *MediaService) Save(header *multipart.FileHeader, progress func(pct int)) (*MediaFile, error) {
	if progress == nil {
		progress = func(int) {}
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	filename := sanitizeFilename(header.Filename)
	fullPath := filepath.Join(m.dir, filename)

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	progress(0)
	var written int64
	buf := make([]byte, copyChunkSize)
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				os.Remove(fullPath)
				return nil, fmt.Errorf("write file: %w", werr)
			}
			written += int64(n)
			if header.Size > 0 {
				progress(int(written * 100 / header.Size))
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			os.Remove(fullPath)
			return nil, fmt.Errorf("read upload: %w", rerr)
		}
	}
	progress(100)

	return &MediaFile{
		Name: filename,
		Path: "/media/" + filename,
		Size: written,
		URL:  "/media/" + filename,
	}, nil
}

// List returns the stored media files.
func (m *MediaService) List() ([]MediaFile, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, err
	}

	var files []MediaFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, MediaFile{
			Name: entry.Name(),
			Path: "/media/" + entry.Name(),
			Size: info.Size(),
			URL:  "/media/" + entry.Name(),
		})
	}
	return files, nil
}

// Delete removes a stored file by name. Path traversal is rejected.
func (m *MediaService) Delete(name string) error {
	clean := filepath.Base(filepath.Clean(name))
	if clean == "." || clean == ".." || clean == "" {
		return fmt.Errorf("invalid media name")
	}
	return os.Remove(filepath.Join(m.dir, clean))
}

// sanitizeFilename strips path components, replaces spaces and stamps the
// name so repeated uploads never collide.
func sanitizeFilename(name string) string {
	filename := filepath.Base(name)
	filename = strings.ReplaceAll(filename, " ", "_")

	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	return fmt.Sprintf("%s_%d%s", base, time.Now().UnixNano(), ext)
}
