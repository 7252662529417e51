package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tempohq/attendance-backend-go/internal/domain/document"
	"github.com/tempohq/attendance-backend-go/internal/handler/http/response"
)

type DocumentHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ListMy(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
}

type documentHandlerImpl struct {
	documentService document.Service
	maxUploadBytes  int64
}

func NewDocumentHandler(documentService document.Service, maxUploadBytes int64) DocumentHandler {
	return &documentHandlerImpl{
		documentService: documentService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// Upload implements DocumentHandler. Multipart form: "file" plus
// "employee_id" and "category" fields.
func (h *documentHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Field 'file' is required", nil)
			return
		}
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	req := document.UploadRequest{
		EmployeeID:  r.FormValue("employee_id"),
		Name:        fileHeader.Filename,
		Category:    r.FormValue("category"),
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
		Body:        file,
	}

	result, err := h.documentService.Upload(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Document uploaded", result)
}

// Download implements DocumentHandler.
func (h *documentHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	result, err := h.documentService.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Name))
	if _, err := io.Copy(w, result.Body); err != nil {
		// Headers already sent; nothing left to do but drop the conn.
		return
	}
}

// Delete implements DocumentHandler. Admin only.
func (h *documentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.documentService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Document deleted", nil)
}

// ListMy implements DocumentHandler.
func (h *documentHandlerImpl) ListMy(w http.ResponseWriter, r *http.Request) {
	result, err := h.documentService.ListMy(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByEmployee implements DocumentHandler. Admin only.
func (h *documentHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	result, err := h.documentService.ListByEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
