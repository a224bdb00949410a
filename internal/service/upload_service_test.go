package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func createMultipartFile(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write file content: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("failed to parse multipart form: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

func TestUploadStoresMediaFile(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, 0, 0)

	file := createMultipartFile(t, "photo.JPG", "image/jpeg", []byte("jpeg bytes"))
	result, err := svc.Upload(context.Background(), file, UploadMedia)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if !strings.HasPrefix(result.PublicURL, "/uploads/") {
		t.Fatalf("unexpected public url: %s", result.PublicURL)
	}
	if !strings.HasSuffix(result.Filename, ".jpg") {
		t.Fatalf("expected a lowercased extension, got %s", result.Filename)
	}
	if result.Size != int64(len("jpeg bytes")) {
		t.Fatalf("unexpected size: %d", result.Size)
	}

	stored, err := os.ReadFile(filepath.Join(dir, result.Filename))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(stored) != "jpeg bytes" {
		t.Fatalf("stored content mismatch: %q", stored)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 10, 0)

	file := createMultipartFile(t, "big.png", "image/png", bytes.Repeat([]byte("x"), 11))
	_, err := svc.Upload(context.Background(), file, UploadMedia)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestUploadAvatarSmallerBudget(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 100, 10)

	file := createMultipartFile(t, "avatar.png", "image/png", bytes.Repeat([]byte("x"), 50))
	if _, err := svc.Upload(context.Background(), file, UploadMedia); err != nil {
		t.Fatalf("expected the media budget to allow 50 bytes: %v", err)
	}
	if _, err := svc.Upload(context.Background(), file, UploadAvatar); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected the avatar budget to reject 50 bytes, got %v", err)
	}
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 0, 0)

	file := createMultipartFile(t, "script.svg", "image/svg+xml", []byte("<svg/>"))
	_, err := svc.Upload(context.Background(), file, UploadMedia)
	if !errors.Is(err, ErrTypeNotAllowed) {
		t.Fatalf("expected ErrTypeNotAllowed, got %v", err)
	}
}

func TestUploadVideoAllowedForMediaOnly(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 0, 0)

	file := createMultipartFile(t, "clip.mp4", "video/mp4", []byte("frames"))
	if _, err := svc.Upload(context.Background(), file, UploadMedia); err != nil {
		t.Fatalf("expected video allowed as media: %v", err)
	}
	if _, err := svc.Upload(context.Background(), file, UploadAvatar); !errors.Is(err, ErrTypeNotAllowed) {
		t.Fatalf("expected video rejected as avatar, got %v", err)
	}
}

func TestUploadContentTypeParametersIgnored(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 0, 0)

	file := createMultipartFile(t, "photo.png", "image/png; charset=binary", []byte("png"))
	if _, err := svc.Upload(context.Background(), file, UploadMedia); err != nil {
		t.Fatalf("expected parameters after the media type ignored: %v", err)
	}
}

func TestUploadCancelledLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, 0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	file := createMultipartFile(t, "photo.png", "image/png", []byte("png"))
	if _, err := svc.Upload(ctx, file, UploadMedia); err == nil {
		t.Fatalf("expected a cancellation error")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no partial files, found %d", len(entries))
	}
}

func TestDeleteRemovesUploadedFile(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, 0, 0)

	file := createMultipartFile(t, "photo.png", "image/png", []byte("png"))
	result, err := svc.Upload(context.Background(), file, UploadMedia)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if err := svc.Delete(result.PublicURL); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, result.Filename)); !os.IsNotExist(err) {
		t.Fatalf("expected the file removed")
	}
}

func TestDeleteRejectsPathTraversal(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 0, 0)

	if err := svc.Delete("/uploads/../secret"); err == nil {
		// filepath.Base strips the traversal; the remove then fails because
		// "secret" does not exist inside the upload dir.
		t.Fatalf("expected an error for a traversal attempt")
	}
}
