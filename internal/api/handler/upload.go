package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hr-service/internal/core/domain"
	"github.com/peoplehub/hr-service/internal/core/ports"
)

const (
	uploadField = "pdfFile"
	pdfMIME     = "application/pdf"
)

// Uploader spools multipart PDF uploads to a local directory so the blob
// store can stream them from disk.
type Uploader struct {
	dir      string
	maxBytes int64
}

// NewUploader creates dir if needed.
func NewUploader(dir string, maxBytes int64) (*Uploader, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	return &Uploader{dir: dir, maxBytes: maxBytes}, nil
}

// Spool copies the pdfFile part to a temp file. It returns a nil upload when
// the part is absent and not required. The returned cleanup removes the temp
// file and is always safe to call.
func (u *Uploader) Spool(c echo.Context, required bool) (*ports.FileUpload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(uploadField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		if required {
			return nil, noop, domain.Errorf(domain.KindInvalidArgument, "%s is required", uploadField)
		}
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, domain.Errorf(domain.KindInvalidArgument, "invalid multipart upload")
	}

	if !strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		return nil, noop, domain.Errorf(domain.KindInvalidArgument, "only PDF files are allowed")
	}
	if fh.Size > u.maxBytes {
		return nil, noop, domain.Errorf(domain.KindInvalidArgument, "file exceeds the %d MB limit", u.maxBytes>>20)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, noop, fmt.Errorf("sniff upload: %w", err)
	}
	if !mt.Is(pdfMIME) {
		return nil, noop, domain.Errorf(domain.KindInvalidArgument, "only PDF files are allowed")
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, noop, fmt.Errorf("rewind upload: %w", err)
	}

	dst, err := os.CreateTemp(u.dir, "upload-*.pdf")
	if err != nil {
		return nil, noop, fmt.Errorf("spool upload: %w", err)
	}
	cleanup := func() { _ = os.Remove(dst.Name()) }

	n, err := io.Copy(dst, io.LimitReader(src, u.maxBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("spool upload: %w", err)
	}
	if n > u.maxBytes {
		cleanup()
		return nil, noop, domain.Errorf(domain.KindInvalidArgument, "file exceeds the %d MB limit", u.maxBytes>>20)
	}

	return &ports.FileUpload{
		Path:        dst.Name(),
		Filename:    filepath.Base(fh.Filename),
		ContentType: pdfMIME,
	}, cleanup, nil
}
