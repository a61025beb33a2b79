// src/handlers/reconcile_handler.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/username/shiprecon/src/logger"
	"github.com/username/shiprecon/src/models"
	"github.com/username/shiprecon/src/parsers"
	"github.com/username/shiprecon/src/security/validation"
	"github.com/username/shiprecon/src/services"
	"github.com/username/shiprecon/src/utils"
)

// uploadFields maps multipart field names to the source tag of their files.
// "file" is the single-file form.
var uploadFields = []struct {
	name string
	tag  models.SourceTag
}{
	{"file", models.SourceNone},
	{"primary", models.SourcePrimary},
	{"secondary", models.SourceSecondary},
	{"carrier", models.SourceCarrier},
}

type ReconcileHandler struct {
	reconcileService services.ReconcileService
	directoryErr     error
	maxUploadBytes   int64
}

// NewReconcileHandler builds the upload endpoint. A non-nil directoryErr
// makes every request fail with 503 before any file is read.
func NewReconcileHandler(service services.ReconcileService, directoryErr error, maxUploadBytes int64) *ReconcileHandler {
	return &ReconcileHandler{
		reconcileService: service,
		directoryErr:     directoryErr,
		maxUploadBytes:   maxUploadBytes,
	}
}

func (h *ReconcileHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if h.directoryErr != nil || h.reconcileService == nil {
		log.Error("Reconcile refused, directory not configured", "error", h.directoryErr)
		utils.SendJSONError(w, fmt.Sprintf("Directory is not configured: %v", h.directoryErr), http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		log.Warn("Failed to parse multipart form or request too large", "error", err, "limit", h.maxUploadBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", h.maxUploadBytes/(1024*1024)), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	opts, err := batchOptionsFromForm(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	files, err := h.readUploads(r)
	if err != nil {
		log.Warn("Upload rejected", "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(files) == 0 {
		utils.SendJSONError(w, "Missing file (use the 'file', 'primary', 'secondary' or 'carrier' form fields)", http.StatusBadRequest)
		return
	}

	log.Info("Processing reconcile request", "files", len(files), "strict", opts.Strict)
	result, err := h.reconcileService.ReconcileBatch(r.Context(), files, opts)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrParsingFailed),
			errors.Is(err, parsers.ErrUnsupportedFormat),
			errors.Is(err, parsers.ErrNoActionableRows):
			log.Warn("Reconcile failed on file parsing", "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Parse error: %v", err), http.StatusBadRequest)
		case errors.Is(err, services.ErrDirectoryUnavailable):
			log.Error("Reconcile failed, directory unavailable", "error", err)
			utils.SendJSONError(w, err.Error(), http.StatusServiceUnavailable)
		default:
			log.Error("Internal error during reconciliation", "error", err)
			utils.SendJSONError(w, "An internal error occurred while reconciling. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	utils.SendJSON(w, result, http.StatusOK)
}

func batchOptionsFromForm(r *http.Request) (services.BatchOptions, error) {
	var opts services.BatchOptions

	if raw := strings.TrimSpace(r.FormValue("mode")); raw != "" && !strings.EqualFold(raw, "AUTO") {
		mode, ok := models.ParseMode(raw)
		if !ok {
			return opts, fmt.Errorf("invalid mode %q (use PO, SO or AUTO)", raw)
		}
		opts.Mode = &mode
	}

	if raw := strings.TrimSpace(r.FormValue("strict")); raw != "" {
		strict, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("invalid strict flag %q", raw)
		}
		opts.Strict = strict
	}
	return opts, nil
}

func (h *ReconcileHandler) readUploads(r *http.Request) ([]services.UploadFile, error) {
	var files []services.UploadFile
	for _, field := range uploadFields {
		for _, fh := range r.MultipartForm.File[field.name] {
			data, err := h.readUpload(fh)
			if err != nil {
				return nil, err
			}
			files = append(files, services.UploadFile{Name: fh.Filename, Data: data, Source: field.tag})
		}
	}
	return files, nil
}

func (h *ReconcileHandler) readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > h.maxUploadBytes {
		return nil, fmt.Errorf("%w: %s is too large, max %d MB", validation.ErrValidationFailed, fh.Filename, h.maxUploadBytes/(1024*1024))
	}
	if err := validation.ValidateClientContentType(fh.Header.Get("Content-Type")); err != nil {
		return nil, err
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer file.Close()

	if _, err := validation.ValidateFileContentByMagicBytes(file, fh.Filename); err != nil {
		return nil, err
	}
	return io.ReadAll(file)
}
