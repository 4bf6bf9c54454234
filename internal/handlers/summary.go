package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/keithshino/one-on-one-supporter/internal/constants"
	apierrors "github.com/keithshino/one-on-one-supporter/internal/errors"
	"github.com/keithshino/one-on-one-supporter/internal/services"
)

// SummaryHandler fronts the AI summarization boundary. A missing credential
// degrades to a clear inline error; nothing here ever blocks saving a log.
type SummaryHandler struct {
	summaryService *services.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler. summaryService may be nil
// when no credential is configured.
func NewSummaryHandler(summaryService *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

// Summarize produces a plain-text summary from the structured editor fields.
func (h *SummaryHandler) Summarize(c *gin.Context) {
	type SummarizeRequest struct {
		Good       string `json:"good"`
		More       string `json:"more"`
		NextAction string `json:"next_action"`
		Memo       string `json:"memo"`
	}

	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Good+req.More+req.NextAction+req.Memo) == "" {
		apierrors.BadRequest(c, "Nothing to summarize")
		return
	}

	summary, err := h.summaryService.Summarize(c.Request.Context(), req.Good, req.More, req.NextAction, req.Memo)
	if err != nil {
		respondSummaryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// SummarizeTranscript turns a raw transcript (request body, or an uploaded
// "file" form field) into structured log fields.
func (h *SummaryHandler) SummarizeTranscript(c *gin.Context) {
	transcript, err := readTranscript(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(transcript) == "" {
		apierrors.BadRequest(c, "Transcript is empty")
		return
	}

	result, err := h.summaryService.SummarizeTranscript(c.Request.Context(), transcript)
	if err != nil {
		respondSummaryError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func readTranscript(c *gin.Context) (string, error) {
	if file, err := c.FormFile("file"); err == nil {
		if file.Size > constants.MaxTranscriptBytes {
			return "", errors.New("transcript file is too large")
		}
		f, err := file.Open()
		if err != nil {
			return "", errors.New("failed to read uploaded file")
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, constants.MaxTranscriptBytes))
		if err != nil {
			return "", errors.New("failed to read uploaded file")
		}
		return string(data), nil
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, constants.MaxTranscriptBytes))
	if err != nil {
		return "", errors.New("failed to read request body")
	}
	return string(data), nil
}

func respondSummaryError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrAINotConfigured) {
		apierrors.ServiceUnavailable(c, err.Error())
		return
	}
	apierrors.ServiceUnavailable(c, "Summarization failed, please try again")
}
