package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"inkwell/internal/utils"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotAnImage is returned when the uploaded bytes do not sniff as an
// image type. The declared Content-Type header is not trusted.
var ErrNotAnImage = errors.New("uploaded file is not an image")

// ImageUploadResult describes where an accepted upload was stored.
type ImageUploadResult struct {
	URL  string // public URL served by the media route
	Path string // location on disk
}

// MediaRoot returns the directory uploads are written to.
func MediaRoot() string {
	root := os.Getenv("MEDIA_ROOT")
	if root == "" {
		root = "./media"
	}
	return root
}

// SaveImage validates and stores a post image. The file content is sniffed;
// anything that is not image/* is rejected before touching disk.
func SaveImage(file multipart.File, header *multipart.FileHeader) (*ImageUploadResult, error) {
	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	mtype := mimetype.Detect(fileBytes)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, ErrNotAnImage
	}

	dir := filepath.Join(MediaRoot(), "posts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir: %w", err)
	}

	name := utils.RandString(12) + mtype.Extension()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, fileBytes, 0o644); err != nil {
		return nil, fmt.Errorf("writing upload: %w", err)
	}

	return &ImageUploadResult{
		URL:  "/media/posts/" + name,
		Path: path,
	}, nil
}
