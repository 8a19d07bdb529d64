// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/okian/viva/internal/adapters/extract"
	"github.com/okian/viva/internal/domain/model"
)

const defaultMaxUploadBytes = 20 << 20

// AssessmentsHandler handles assessment upload requests.
type AssessmentsHandler struct {
	deps           Dependencies
	maxUploadBytes int64
}

// NewAssessmentsHandler creates a new assessments handler.
func NewAssessmentsHandler(deps Dependencies) *AssessmentsHandler {
	return &AssessmentsHandler{deps: deps, maxUploadBytes: defaultMaxUploadBytes}
}

// HandleCreateAssessment handles POST /assessments requests. The body
// is a multipart form with a "submission" part and an "answer_key"
// part; a successful request answers 202 with the job id and the
// event stream path.
func (h *AssessmentsHandler) HandleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_assessment"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload_too_large", WrapKind(op, ErrUploadTooLarge, err))
		return
	}

	submission, err := readUpload(r, "submission")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	answerKey, err := readUpload(r, "answer_key")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	jobID, err := h.deps.CreateAssessment(r.Context(), submission, answerKey)
	if err != nil {
		status, code := mapAssessmentError(err)
		writeError(w, status, code, WrapKind(op, ErrBadRequest, err))
		return
	}

	writeJSON(w, http.StatusAccepted, acceptedResponse{
		JobID:  jobID,
		Events: "/events/" + jobID,
	})
}

func readUpload(r *http.Request, field string) (model.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return model.Upload{}, errors.New("missing " + field + " upload")
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(file)
	if err != nil {
		return model.Upload{}, errors.New("unreadable " + field + " upload")
	}
	return model.Upload{Name: header.Filename, Data: data}, nil
}

func mapAssessmentError(err error) (int, string) {
	switch {
	case errors.Is(err, extract.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType, "unsupported_type"
	case errors.Is(err, extract.ErrEmptyDocument):
		return http.StatusUnprocessableEntity, "empty_document"
	case errors.Is(err, extract.ErrCorruptPDF):
		return http.StatusUnprocessableEntity, "corrupt_pdf"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
