package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/autobmg/processdocs/internal/core"
	"github.com/autobmg/processdocs/internal/domain/model"
	"github.com/autobmg/processdocs/internal/http/validation"
	"github.com/autobmg/processdocs/internal/service"
)

// maxProcessCodeLen bounds a single code; real codes are short identifiers.
const maxProcessCodeLen = 64

// BatchHandlers handles batch submission and status endpoints.
type BatchHandlers struct {
	Svc          *service.PipelineService
	MaxBatchSize int
	Logger       *slog.Logger
}

// submitBatchRequest is the POST /api/v1/batches payload.
type submitBatchRequest struct {
	Email        string   `json:"email"`
	Login        string   `json:"login"`
	Password     string   `json:"password"`
	ProcessCodes []string `json:"process_codes"`
}

// submitBatchResponse acknowledges an accepted batch.
type submitBatchResponse struct {
	BatchID string `json:"batch_id"`
}

// Submit accepts credentials plus process codes and starts the pipeline
// asynchronously. Responds 202 with the batch ID for later polling.
func (h *BatchHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitBatchRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if msg := h.validate(req); msg != "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_request",
			Err:     errors.New(msg),
		})
		return
	}

	batch := model.BatchRequest{
		Email:        strings.TrimSpace(req.Email),
		Login:        strings.TrimSpace(req.Login),
		Password:     model.Secret(req.Password),
		ProcessCodes: req.ProcessCodes,
	}

	id, err := h.Svc.Start(r.Context(), batch)
	if err != nil {
		var failure *model.Failure
		if errors.As(err, &failure) && failure.Kind == model.FailureValidation {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
			return
		}
		if h.Logger != nil {
			h.Logger.ErrorContext(r.Context(), "batch submission failed", "error", err)
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: errors.New("failed to start batch")})
		return
	}

	WriteJSON(w, http.StatusAccepted, submitBatchResponse{BatchID: id})
}

// validate runs field validators and returns the first failure message.
func (h *BatchHandlers) validate(req submitBatchRequest) string {
	checks := []struct {
		validator validation.Validator
		value     string
	}{
		{validation.Email("email", 254), req.Email},
		{validation.Required("login", 128), req.Login},
		{validation.Required("password", 256), req.Password},
	}
	for _, c := range checks {
		if msg := c.validator(c.value); msg != "" {
			return msg
		}
	}

	codeCheck := validation.ProcessCode("process code", maxProcessCodeLen)
	nonEmpty := 0
	for _, code := range req.ProcessCodes {
		if msg := codeCheck(code); msg != "" {
			return msg
		}
		if strings.TrimSpace(code) != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return "at least one process code is required."
	}
	if h.MaxBatchSize > 0 && nonEmpty > h.MaxBatchSize {
		return fmt.Sprintf("cannot submit more than %d process codes.", h.MaxBatchSize)
	}
	return ""
}

// batchStatusResponse is the GET /api/v1/batches/{id} payload.
type batchStatusResponse struct {
	BatchID     string               `json:"batch_id"`
	SubmittedAt string               `json:"submitted_at"`
	CompletedAt string               `json:"completed_at,omitempty"`
	Done        bool                 `json:"done"`
	Codes       []codeStatusResponse `json:"codes"`
}

type codeStatusResponse struct {
	ProcessCode   string   `json:"process_code"`
	State         string   `json:"state"`
	FailureKind   string   `json:"failure_kind,omitempty"`
	Error         string   `json:"error,omitempty"`
	DownloadURL   string   `json:"download_url,omitempty"`
	LinkExpiresAt string   `json:"link_expires_at,omitempty"`
	OmittedKeys   []string `json:"omitted_keys,omitempty"`
}

// GetStatus returns the current snapshot for a batch.
func (h *BatchHandlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: errors.New("batch id is required.")})
		return
	}

	status, err := h.Svc.Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrBatchNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: fmt.Errorf("batch %s not found", id)})
			return
		}
		if h.Logger != nil {
			h.Logger.ErrorContext(r.Context(), "batch status lookup failed", "batch_id", id, "error", err)
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: errors.New("failed to load batch status")})
		return
	}

	WriteJSON(w, http.StatusOK, toBatchStatusResponse(status))
}

func toBatchStatusResponse(status *model.BatchStatus) batchStatusResponse {
	resp := batchStatusResponse{
		BatchID:     status.ID,
		SubmittedAt: status.SubmittedAt.Format(time.RFC3339),
		Done:        status.Done(),
		Codes:       make([]codeStatusResponse, 0, len(status.Codes)),
	}
	if status.CompletedAt != nil {
		resp.CompletedAt = status.CompletedAt.Format(time.RFC3339)
	}
	for _, code := range status.Codes {
		cs := codeStatusResponse{
			ProcessCode: code.ProcessCode,
			State:       string(code.State),
			FailureKind: string(code.FailureKind),
			Error:       code.Error,
			DownloadURL: code.DownloadURL,
			OmittedKeys: code.OmittedKeys,
		}
		if code.LinkExpiresAt != nil {
			cs.LinkExpiresAt = code.LinkExpiresAt.Format(time.RFC3339)
		}
		resp.Codes = append(resp.Codes, cs)
	}
	return resp
}
