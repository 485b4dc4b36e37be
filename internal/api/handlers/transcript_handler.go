package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Vijayaa21/blabber/internal/services"
	"github.com/Vijayaa21/blabber/internal/transcript"
	"github.com/Vijayaa21/blabber/internal/utils"
)

type TranscriptHandler struct {
	svc services.TranscriptService
}

func NewTranscriptHandler(svc services.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{svc: svc}
}

// Generate accepts a multipart upload (field "audio") and runs the full
// transcription pipeline.
func (h *TranscriptHandler) Generate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	const op = "TranscriptHandler.Generate"

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio file is required", err))
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to read audio", err))
		return
	}

	rec, err := h.svc.Generate(c.Request.Context(), userID, services.GenerateInput{
		Audio:    audio,
		MimeType: header.Header.Get("Content-Type"),
		FileName: header.Filename,
		Title:    c.PostForm("title"),
		Language: c.PostForm("language"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *TranscriptHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := h.svc.List(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *TranscriptHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rec, err := h.svc.Get(c.Request.Context(), userID, c.Param("transcript_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *TranscriptHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("transcript_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type SaveSegmentsRequest struct {
	Segments []transcript.Segment `json:"segments" binding:"required"`
}

// SaveSegments replaces the stored segment list with the client's editing
// state, the "Save Changes" action.
func (h *TranscriptHandler) SaveSegments(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SaveSegmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TranscriptHandler.SaveSegments", "invalid request body", err))
		return
	}

	rec, err := h.svc.SaveSegments(c.Request.Context(), userID, c.Param("transcript_id"), req.Segments)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type UpdateSegmentTextRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *TranscriptHandler) UpdateSegmentText(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateSegmentTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TranscriptHandler.UpdateSegmentText", "invalid request body", err))
		return
	}

	rec, err := h.svc.UpdateSegmentText(c.Request.Context(), userID, c.Param("transcript_id"), c.Param("segment_id"), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *TranscriptHandler) ConfirmSegment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rec, err := h.svc.ConfirmSegment(c.Request.Context(), userID, c.Param("transcript_id"), c.Param("segment_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *TranscriptHandler) FlagSegment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rec, err := h.svc.FlagSegment(c.Request.Context(), userID, c.Param("transcript_id"), c.Param("segment_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *TranscriptHandler) Stats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), userID, c.Param("transcript_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Export streams the rendered transcript as a download attachment.
func (h *TranscriptHandler) Export(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	payload, filename, err := h.svc.Export(c.Request.Context(), userID, c.Param("transcript_id"), c.Query("format"))
	if err != nil {
		writeError(c, err)
		return
	}

	contentType := "text/plain; charset=utf-8"
	if strings.HasSuffix(filename, ".json") {
		contentType = "application/json"
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}
