package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Vijayaa21/blabber/internal/services"
	"github.com/Vijayaa21/blabber/internal/utils"
)

type PostHandler struct {
	svc services.PostService
}

func NewPostHandler(svc services.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// Create accepts multipart form data: text plus an optional image file and
// optional audio/transcript references from a prior generation.
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	const op = "PostHandler.Create"

	in := services.CreatePostInput{
		Text:     c.PostForm("text"),
		AudioURL: c.PostForm("audio_url"),
	}
	if tid := c.PostForm("transcript_id"); tid != "" {
		in.TranscriptID = &tid
	}

	if file, header, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		img, rerr := io.ReadAll(file)
		if rerr != nil {
			writeError(c, utils.E(utils.CodeInternal, op, "failed to read image", rerr))
			return
		}
		in.Image = img
		in.ImageType = header.Header.Get("Content-Type")
	}

	p, err := h.svc.Create(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("post_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *PostHandler) Like(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	liked, err := h.svc.Like(c.Request.Context(), userID, c.Param("post_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func (h *PostHandler) Feed(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := h.svc.Feed(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *PostHandler) FollowingFeed(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := h.svc.FollowingFeed(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
