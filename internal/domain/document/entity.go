package document

import "time"

type Category string

const (
	CategoryContract    Category = "contract"
	CategoryIdentity    Category = "identity"
	CategoryCertificate Category = "certificate"
	CategoryOther       Category = "other"
)

// Document is a stored employee file. Path is the storage key, never
// exposed directly to clients.
type Document struct {
	ID          string
	EmployeeID  string
	Name        string
	Category    Category
	ContentType string
	SizeBytes   int64
	Path        string
	UploadedBy  string
	CreatedAt   time.Time
}
