package document

import "context"

type Service interface {
	// Upload stores the file and records it. Images are recompressed
	// before storage.
	Upload(ctx context.Context, req UploadRequest) (DocumentResponse, error)

	Download(ctx context.Context, id string) (DownloadResult, error)
	Delete(ctx context.Context, id string) error
	ListByEmployee(ctx context.Context, employeeID string) (ListDocumentsResponse, error)
	ListMy(ctx context.Context) (ListDocumentsResponse, error)
}
