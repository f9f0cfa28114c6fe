package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"flashpro-backend/internal/models"
	"flashpro-backend/internal/services"
	"flashpro-backend/internal/store"
)

// Matches the frontend's advertised limit: PDF, DOCX, TXT up to 10MB.
const maxUploadSize = 10 << 20

type GenerateHandler struct {
	store   *store.Store
	gemini  *services.GeminiService
	extract *services.FileExtractService
}

func NewGenerateHandler(st *store.Store, gemini *services.GeminiService, extract *services.FileExtractService) *GenerateHandler {
	return &GenerateHandler{store: st, gemini: gemini, extract: extract}
}

// Generate runs the full pipeline: validate, extract the uploaded
// document if any, call the AI bridge, and add the resulting set.
// Validation failures short-circuit before any extraction or network
// work, and nothing is persisted unless every step succeeded.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateSetRequest
	var fileName, fileMime string
	var fileData []byte

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds 10MB limit", r))
				return
			}
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid multipart body", r))
			return
		}

		req.Name = r.FormValue("name")
		req.Text = r.FormValue("text")
		req.Priority = models.Priority(r.FormValue("priority"))

		file, header, err := r.FormFile("file")
		if err == nil {
			defer file.Close()
			fileData, err = io.ReadAll(file)
			if err != nil {
				handleServiceError(w, r, &services.ExtractionError{Filename: header.Filename, Err: err})
				return
			}
			fileName = header.Filename
			fileMime = header.Header.Get("Content-Type")
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
			return
		}
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "Set name is required"
	}
	if strings.TrimSpace(req.Text) == "" && fileData == nil {
		fields["content"] = "Provide text input or upload a file"
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !req.Priority.Valid() {
		fields["priority"] = "Priority must be low, medium or high"
	}
	if len(fields) > 0 {
		handleServiceError(w, r, &services.ValidationError{Fields: fields})
		return
	}

	// An uploaded file takes precedence over pasted text.
	content := strings.TrimSpace(req.Text)
	if fileData != nil {
		extracted, err := h.extract.ExtractText(fileName, fileMime, fileData)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		content = extracted
	}

	cards, err := h.gemini.GenerateCards(r.Context(), content)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	set := h.store.Add(req.Name, cards, req.Priority, false)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"set":        set,
		"card_count": len(set.Cards),
	})
}

// SupportedFormats lists the document types the extractor accepts.
func (h *GenerateHandler) SupportedFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"formats": []map[string]string{
			{"extension": ".pdf", "mime_type": "application/pdf", "description": "PDF Document"},
			{"extension": ".docx", "mime_type": "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "description": "Word Document"},
			{"extension": ".txt", "mime_type": "text/plain", "description": "Plain Text"},
		},
		"max_size_bytes": maxUploadSize,
	})
}
