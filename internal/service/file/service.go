package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/tempohq/attendance-backend-go/internal/domain/document"
	"github.com/tempohq/attendance-backend-go/internal/pkg/storage"
)

// Image uploads above maxImageBytes are recompressed toward the
// min/max band before storage.
const (
	maxImageBytes = 300 * 1024
	minImageBytes = 50 * 1024
)

var allowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"text/plain":      true,
}

type FileService struct {
	repo        document.Repository
	storage     storage.FileStorage
	maxFileSize int64
}

func NewFileService(repo document.Repository, fileStorage storage.FileStorage, maxFileSize int64) document.Service {
	return &FileService{
		repo:        repo,
		storage:     fileStorage,
		maxFileSize: maxFileSize,
	}
}

func claimsFromContext(ctx context.Context) (employeeID, userID, role string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	employeeID, _ = claims["employee_id"].(string)
	userID, _ = claims["user_id"].(string)
	role, _ = claims["role"].(string)
	return employeeID, userID, role, nil
}

// Upload implements document.Service.
func (s *FileService) Upload(ctx context.Context, req document.UploadRequest) (document.DocumentResponse, error) {
	if err := req.Validate(); err != nil {
		return document.DocumentResponse{}, err
	}
	if !allowedContentTypes[req.ContentType] {
		return document.DocumentResponse{}, document.ErrUnsupportedFileType
	}
	if req.SizeBytes > s.maxFileSize {
		return document.DocumentResponse{}, document.ErrFileTooLarge
	}

	_, userID, _, err := claimsFromContext(ctx)
	if err != nil {
		return document.DocumentResponse{}, err
	}

	buffer, err := io.ReadAll(io.LimitReader(req.Body, s.maxFileSize+1))
	if err != nil {
		return document.DocumentResponse{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(buffer)) > s.maxFileSize {
		return document.DocumentResponse{}, document.ErrFileTooLarge
	}

	contentType := req.ContentType
	if strings.HasPrefix(contentType, "image/") && len(buffer) > maxImageBytes {
		compressed, err := compressImage(buffer, maxImageBytes, minImageBytes)
		if err != nil {
			return document.DocumentResponse{}, fmt.Errorf("failed to compress image: %w", err)
		}
		buffer = compressed
		contentType = "image/jpeg"
	}

	ext := filepath.Ext(req.Name)
	if contentType == "image/jpeg" && ext != ".jpg" && ext != ".jpeg" {
		ext = ".jpg"
	}
	path := fmt.Sprintf("documents/%s/%s%s", req.EmployeeID, uuid.NewString(), ext)

	storedPath, err := s.storage.Upload(ctx, bytes.NewReader(buffer), path, contentType)
	if err != nil {
		return document.DocumentResponse{}, fmt.Errorf("failed to upload document: %w", err)
	}

	created, err := s.repo.Create(ctx, document.Document{
		EmployeeID:  req.EmployeeID,
		Name:        req.Name,
		Category:    document.Category(req.Category),
		ContentType: contentType,
		SizeBytes:   int64(len(buffer)),
		Path:        storedPath,
		UploadedBy:  userID,
	})
	if err != nil {
		// The metadata row failed; drop the orphaned object.
		_ = s.storage.Delete(ctx, storedPath)
		return document.DocumentResponse{}, err
	}

	return toDocumentResponse(created), nil
}

// Download implements document.Service.
func (s *FileService) Download(ctx context.Context, id string) (document.DownloadResult, error) {
	doc, err := s.authorizedGet(ctx, id)
	if err != nil {
		return document.DownloadResult{}, err
	}

	body, err := s.storage.Download(ctx, doc.Path)
	if err != nil {
		return document.DownloadResult{}, fmt.Errorf("failed to download document: %w", err)
	}

	return document.DownloadResult{
		Name:        doc.Name,
		ContentType: doc.ContentType,
		Body:        body,
	}, nil
}

// Delete implements document.Service. Admin only, enforced at the
// router; the stored object goes with the metadata row.
func (s *FileService) Delete(ctx context.Context, id string) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	return s.storage.Delete(ctx, doc.Path)
}

// ListByEmployee implements document.Service.
func (s *FileService) ListByEmployee(ctx context.Context, employeeID string) (document.ListDocumentsResponse, error) {
	docs, total, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return document.ListDocumentsResponse{}, err
	}
	return buildListResponse(docs, total), nil
}

// ListMy implements document.Service.
func (s *FileService) ListMy(ctx context.Context) (document.ListDocumentsResponse, error) {
	employeeID, _, _, err := claimsFromContext(ctx)
	if err != nil {
		return document.ListDocumentsResponse{}, err
	}
	if employeeID == "" {
		return document.ListDocumentsResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	return s.ListByEmployee(ctx, employeeID)
}

func (s *FileService) authorizedGet(ctx context.Context, id string) (document.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return document.Document{}, err
	}

	employeeID, _, role, err := claimsFromContext(ctx)
	if err != nil {
		return document.Document{}, err
	}
	if role != "admin" && employeeID != doc.EmployeeID {
		return document.Document{}, document.ErrNotDocumentOwner
	}

	return doc, nil
}

func buildListResponse(docs []document.Document, total int64) document.ListDocumentsResponse {
	responses := make([]document.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, toDocumentResponse(doc))
	}
	return document.ListDocumentsResponse{
		TotalCount: total,
		Documents:  responses,
	}
}

func toDocumentResponse(doc document.Document) document.DocumentResponse {
	return document.DocumentResponse{
		ID:          doc.ID,
		EmployeeID:  doc.EmployeeID,
		Name:        doc.Name,
		Category:    string(doc.Category),
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		CreatedAt:   doc.CreatedAt.Format(time.RFC3339),
	}
}

// compressImage re-encodes an image toward the [minSize, maxSize]
// band, stepping quality down first and resizing only if needed.
func compressImage(buffer []byte, maxSize, minSize int) ([]byte, error) {
	if len(buffer) <= maxSize {
		return buffer, nil
	}

	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()

	quality := 85
	var compressed []byte

	for quality >= 50 {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		compressed = buf.Bytes()

		if len(compressed) <= maxSize && len(compressed) >= minSize {
			return compressed, nil
		}
		if len(compressed) > maxSize {
			quality -= 5
			continue
		}
		break
	}

	if len(compressed) > maxSize {
		targetSize := (maxSize + minSize) / 2
		ratio := math.Sqrt(float64(targetSize) / float64(len(compressed)))
		newWidth := int(float64(originalWidth) * ratio)
		newHeight := int(float64(originalHeight) * ratio)
		if newWidth < 600 {
			newWidth = 600
		}
		if newHeight < 400 {
			newHeight = 400
		}

		resized := resizeImage(img, newWidth, newHeight)

		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 70}); err != nil {
			return nil, fmt.Errorf("failed to encode resized image: %w", err)
		}
		compressed = buf.Bytes()
	}

	return compressed, nil
}

func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
