package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/peoplehub/hr-service/internal/core/domain"
	"github.com/peoplehub/hr-service/internal/core/ports"
)

// storeErr annotates a repository error with op. Domain errors keep their
// kind; anything else is reported as a record store failure.
func storeErr(op string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return domain.Wrap(domain.KindDependencyFailure, op+": record store failure", err)
}

// uploadFile pushes file to blob storage and returns its public ID. A nil
// file yields an empty ID.
func uploadFile(ctx context.Context, blobs ports.BlobStore, file *ports.FileUpload, what string) (string, error) {
	if file == nil {
		return "", nil
	}
	ref, err := blobs.Upload(ctx, *file)
	if err != nil {
		return "", domain.Wrap(domain.KindDependencyFailure, "error uploading "+what, err)
	}
	return ref.PublicID, nil
}

// releaseFile removes publicID from blob storage, reporting failure as a
// dependency failure so the caller can keep the referencing record.
func releaseFile(ctx context.Context, blobs ports.BlobStore, publicID, what string) error {
	if publicID == "" {
		return nil
	}
	if err := blobs.Release(ctx, publicID); err != nil {
		return domain.Wrap(domain.KindDependencyFailure, "error releasing "+what, err)
	}
	return nil
}

func releaseLater(r ports.DeferredReleaser, publicID, reason string) {
	if r == nil || publicID == "" {
		return
	}
	r.ReleaseLater(publicID, reason)
}

func invalid(format string, args ...any) error {
	return domain.Errorf(domain.KindInvalidArgument, format, args...)
}
