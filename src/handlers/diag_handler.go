package handlers

import (
	"net/http"

	"github.com/username/shiprecon/src/logger"
	"github.com/username/shiprecon/src/services"
	"github.com/username/shiprecon/src/utils"
)

type DiagHandler struct {
	directory    services.DirectoryService
	directoryErr error
	baseURL      string
}

func NewDiagHandler(directory services.DirectoryService, directoryErr error, baseURL string) *DiagHandler {
	return &DiagHandler{directory: directory, directoryErr: directoryErr, baseURL: baseURL}
}

// HandleDirectoryDiag reports whether both activity endpoints answer.
func (h *DiagHandler) HandleDirectoryDiag(w http.ResponseWriter, r *http.Request) {
	if h.directoryErr != nil || h.directory == nil {
		utils.SendJSON(w, map[string]any{
			"base":  h.baseURL,
			"error": errString(h.directoryErr),
		}, http.StatusServiceUnavailable)
		return
	}

	report := h.directory.Diagnose(r.Context())
	logger.FromContext(r.Context()).Info("Directory diagnostics", "base", report.Base, "results", len(report.Results))
	utils.SendJSON(w, report, http.StatusOK)
}

func errString(err error) string {
	if err == nil {
		return "directory not configured"
	}
	return err.Error()
}
