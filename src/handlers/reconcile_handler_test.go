package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/shiprecon/src/models"
	"github.com/username/shiprecon/src/parsers"
	"github.com/username/shiprecon/src/services"
)

type fakeReconcileService struct {
	files  []services.UploadFile
	opts   services.BatchOptions
	result *models.BatchResult
	err    error
}

func (f *fakeReconcileService) ReconcileBatch(_ context.Context, files []services.UploadFile, opts services.BatchOptions) (*models.BatchResult, error) {
	f.files, f.opts = files, opts
	return f.result, f.err
}

func (f *fakeReconcileService) ReconcileRow(context.Context, models.CanonicalRow, []models.Mode) services.RowOutcome {
	return services.RowOutcome{}
}

type formPart struct {
	field, name, contentType string
	data                     []byte
}

func multipartRequest(t *testing.T, values map[string]string, parts ...formPart) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range values {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, p.field, p.name))
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var poCSV = []byte("PO Number,Vendor\nPO100,Acme\n")

func TestHandleReconcile_Success(t *testing.T) {
	svc := &fakeReconcileService{result: &models.BatchResult{
		RunID:   "run-1",
		Summary: map[models.VerdictKind]int{models.VerdictMatched: 1},
		Details: []models.RowDetail{{Row: 1, Mode: models.ModePrimary, Verdict: models.VerdictMatched}},
	}}
	h := NewReconcileHandler(svc, nil, 1<<20)

	req := multipartRequest(t, map[string]string{"mode": "so", "strict": "true"},
		formPart{"file", "po.csv", "text/csv", poCSV},
		formPart{"carrier", "ups.csv", "", []byte("Tracking\n1Z999\n")},
		formPart{"primary", "po2.csv", "application/octet-stream", poCSV},
	)
	rec := httptest.NewRecorder()
	h.HandleReconcile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got models.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 1, got.Summary[models.VerdictMatched])

	require.Len(t, svc.files, 3)
	assert.Equal(t, services.UploadFile{Name: "po.csv", Data: poCSV, Source: models.SourceNone}, svc.files[0])
	assert.Equal(t, models.SourcePrimary, svc.files[1].Source)
	assert.Equal(t, models.SourceCarrier, svc.files[2].Source)
	require.NotNil(t, svc.opts.Mode)
	assert.Equal(t, models.ModeSecondary, *svc.opts.Mode)
	assert.True(t, svc.opts.Strict)
}

func TestHandleReconcile_AutoModeLeavesModeUnset(t *testing.T) {
	svc := &fakeReconcileService{result: &models.BatchResult{}}
	h := NewReconcileHandler(svc, nil, 1<<20)

	rec := httptest.NewRecorder()
	h.HandleReconcile(rec, multipartRequest(t, map[string]string{"mode": "AUTO"}, formPart{"file", "po.csv", "text/csv", poCSV}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.opts.Mode)
	assert.False(t, svc.opts.Strict)
}

func TestHandleReconcile_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		parts  []formPart
		want   string
	}{
		{"no file", nil, nil, "Missing file"},
		{"bad mode", map[string]string{"mode": "XX"}, []formPart{{"file", "po.csv", "text/csv", poCSV}}, "invalid mode"},
		{"bad strict", map[string]string{"strict": "maybe"}, []formPart{{"file", "po.csv", "text/csv", poCSV}}, "invalid strict"},
		{"bad content type", nil, []formPart{{"file", "po.csv", "image/png", poCSV}}, "not allowed"},
		{"binary posing as csv", nil, []formPart{{"file", "po.csv", "text/csv", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00")}}, "not consistent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeReconcileService{result: &models.BatchResult{}}
			h := NewReconcileHandler(svc, nil, 1<<20)
			rec := httptest.NewRecorder()

			h.HandleReconcile(rec, multipartRequest(t, tt.values, tt.parts...))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.Nil(t, svc.files)
		})
	}
}

func TestHandleReconcile_ServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unsupported", fmt.Errorf("%w: %w", services.ErrParsingFailed, parsers.ErrUnsupportedFormat), http.StatusBadRequest},
		{"no rows", &parsers.NoActionableRowsError{FileName: "x.csv", Headers: []string{"A"}}, http.StatusBadRequest},
		{"directory", services.ErrDirectoryUnavailable, http.StatusServiceUnavailable},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewReconcileHandler(&fakeReconcileService{err: tt.err}, nil, 1<<20)
			rec := httptest.NewRecorder()

			h.HandleReconcile(rec, multipartRequest(t, nil, formPart{"file", "po.csv", "text/csv", poCSV}))

			assert.Equal(t, tt.code, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			assert.NotContains(t, body["error"], "disk on fire")
		})
	}
}

func TestHandleReconcile_DirectoryNotConfigured(t *testing.T) {
	svc := &fakeReconcileService{}
	h := NewReconcileHandler(svc, errors.New("DIRECTORY_BASE_URL is not set"), 1<<20)
	rec := httptest.NewRecorder()

	h.HandleReconcile(rec, multipartRequest(t, nil, formPart{"file", "po.csv", "text/csv", poCSV}))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "DIRECTORY_BASE_URL")
	assert.Nil(t, svc.files)
}

func TestHandleReconcile_TooLarge(t *testing.T) {
	h := NewReconcileHandler(&fakeReconcileService{}, nil, 64)
	rec := httptest.NewRecorder()

	h.HandleReconcile(rec, multipartRequest(t, nil, formPart{"file", "po.csv", "text/csv", bytes.Repeat([]byte("a"), 1024)}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
