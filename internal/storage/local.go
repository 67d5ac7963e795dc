package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage stores assets on the local filesystem. Keys map directly
// to paths under the base directory; metadata travels in a sidecar
// .meta file next to each object.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates an uninitialized local storage provider.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{}
}

// Initialize sets up the base directory.
func (l *LocalStorage) Initialize(config map[string]string) error {
	if path, ok := config["basePath"]; ok && path != "" {
		l.basePath = path
	} else {
		l.basePath = "./assets"
	}
	if _, err := os.Stat(l.basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(l.basePath, 0755); err != nil {
			return fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return nil
}

// Store writes the object and its metadata sidecar under the key path.
func (l *LocalStorage) Store(ctx context.Context, key string, content io.Reader, size int64, metadata map[string]string) error {
	filePath := filepath.Join(l.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create object file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return fmt.Errorf("failed to write object content: %w", err)
	}

	if len(metadata) > 0 {
		metaFile, err := os.Create(filePath + ".meta")
		if err == nil {
			defer metaFile.Close()
			for k, v := range metadata {
				metaFile.WriteString(fmt.Sprintf("%s=%s\n", k, v))
			}
		}
	}
	return nil
}

// Retrieve opens the object and reads its metadata sidecar.
func (l *LocalStorage) Retrieve(ctx context.Context, key string) (io.ReadCloser, map[string]string, error) {
	filePath := filepath.Join(l.basePath, filepath.FromSlash(key))

	file, err := os.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open object: %w", err)
	}
	return file, readSidecar(filePath + ".meta"), nil
}

// Delete removes the object and its metadata sidecar.
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	filePath := filepath.Join(l.basePath, filepath.FromSlash(key))
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	if _, err := os.Stat(filePath + ".meta"); err == nil {
		os.Remove(filePath + ".meta")
	}
	return nil
}

// List walks the base directory for objects under the key prefix.
func (l *LocalStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo

	err := filepath.Walk(l.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || strings.HasSuffix(info.Name(), ".meta") {
			return nil
		}
		relPath, _ := filepath.Rel(l.basePath, path)
		key := filepath.ToSlash(relPath)
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}

		metadata := readSidecar(path + ".meta")
		name := info.Name()
		if original, ok := metadata["filename"]; ok && original != "" {
			name = original
		}
		objects = append(objects, ObjectInfo{
			Key:         key,
			Name:        name,
			Size:        info.Size(),
			ContentType: metadata["contentType"],
			ModifiedAt:  info.ModTime().Unix(),
			Metadata:    metadata,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	return objects, nil
}

// BasePath returns the base directory of this provider.
func (l *LocalStorage) BasePath() string {
	return l.basePath
}

// SignedURL returns a file:// URL; local objects carry no expiry.
func (l *LocalStorage) SignedURL(ctx context.Context, key string, expiryMinutes int, operation string) (string, error) {
	filePath := filepath.Join(l.basePath, filepath.FromSlash(key))
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve object path: %w", err)
	}
	return "file://" + filepath.ToSlash(absPath), nil
}

func readSidecar(path string) map[string]string {
	metadata := make(map[string]string)
	raw, err := os.ReadFile(path)
	if err != nil {
		return metadata
	}
	for _, line := range strings.Split(string(raw), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		}
	}
	return metadata
}
