package ports

import "context"

// FileUpload is a document already spooled to local disk by the transport
// layer. The transport layer owns the file and removes it afterwards.
type FileUpload struct {
	Path        string
	Filename    string
	ContentType string
}

// BlobRef identifies an object in external blob storage.
type BlobRef struct {
	PublicID string
	URL      string
}

// BlobStore is the external document store for resumes and leave documents.
type BlobStore interface {
	Upload(ctx context.Context, file FileUpload) (*BlobRef, error)
	// Release removes the object. Releasing an object that is already gone
	// is not an error.
	Release(ctx context.Context, publicID string) error
	// URL returns a time-limited download link for the object.
	URL(ctx context.Context, publicID string) (string, error)
}

// DeferredReleaser releases objects in the background when no request is
// waiting on the outcome, e.g. an upload orphaned by a failed insert.
type DeferredReleaser interface {
	ReleaseLater(publicID, reason string)
}
