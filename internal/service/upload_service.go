package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"linkpage-backend/pkg/validator"
)

// UploadKind selects the size budget and MIME allow-list for an upload.
type UploadKind int

const (
	// UploadMedia covers page media items: images up to 3MB plus short
	// videos.
	UploadMedia UploadKind = iota
	// UploadAvatar covers profile images, capped at 2MB.
	UploadAvatar
)

var (
	ErrFileTooLarge   = errors.New("file size exceeds maximum allowed size")
	ErrTypeNotAllowed = errors.New("file type not allowed")
)

var (
	imageMIMETypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	videoMIMETypes = []string{"video/mp4", "video/webm"}
)

// UploadService stores user media on disk and hands back public URLs.
// Uploads are cancellable: the copy loop checks the context so an upload
// superseded by a newer one stops instead of finishing wasted work.
type UploadService struct {
	uploadDir     string
	maxMediaSize  int64
	maxAvatarSize int64
}

type UploadResult struct {
	PublicURL string `json:"public_url"`
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
}

func NewUploadService(uploadDir string, maxMediaSize, maxAvatarSize int64) *UploadService {
	if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
		os.MkdirAll(uploadDir, 0755)
	}
	if maxMediaSize <= 0 {
		maxMediaSize = 3 * 1024 * 1024
	}
	if maxAvatarSize <= 0 {
		maxAvatarSize = 2 * 1024 * 1024
	}
	return &UploadService{
		uploadDir:     uploadDir,
		maxMediaSize:  maxMediaSize,
		maxAvatarSize: maxAvatarSize,
	}
}

// Upload validates and stores one file. The context aborts the copy; a
// cancelled upload leaves no partial file behind.
func (s *UploadService) Upload(ctx context.Context, file *multipart.FileHeader, kind UploadKind) (*UploadResult, error) {
	if file == nil {
		return nil, errors.New("file is required")
	}

	maxSize := s.maxMediaSize
	allowed := append(append([]string{}, imageMIMETypes...), videoMIMETypes...)
	if kind == UploadAvatar {
		maxSize = s.maxAvatarSize
		allowed = imageMIMETypes
	}

	if !validator.ValidateFileSize(file.Size, maxSize) {
		return nil, ErrFileTooLarge
	}
	contentType := file.Header.Get("Content-Type")
	if !validator.AllowedMIMEType(contentType, allowed) {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotAllowed, contentType)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	filename := uuid.New().String() + sanitizedExt(file.Filename)
	path := filepath.Join(s.uploadDir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	written, err := copyWithContext(ctx, dst, src)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	return &UploadResult{
		PublicURL: "/uploads/" + filename,
		Filename:  filename,
		Size:      written,
	}, nil
}

// Delete removes a previously uploaded file by its public URL.
func (s *UploadService) Delete(publicURL string) error {
	filename := filepath.Base(strings.TrimPrefix(publicURL, "/uploads/"))
	if filename == "." || filename == "/" || filename == "" {
		return errors.New("invalid upload name")
	}
	return os.Remove(filepath.Join(s.uploadDir, filename))
}

func sanitizedExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 8 {
		return ""
	}
	return ext
}

const copyChunkSize = 64 * 1024

func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	var total int64
	buf := make([]byte, copyChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := src.Read(buf)
		if n > 0 {
			written, werr := dst.Write(buf[:n])
			total += int64(written)
			if werr != nil {
				return total, werr
			}
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}
