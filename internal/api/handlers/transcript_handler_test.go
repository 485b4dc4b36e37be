package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Vijayaa21/blabber/internal/services"
)

// fakeTranscriptService serves only Export; the handler under test does
// not reach the other methods.
type fakeTranscriptService struct {
	services.TranscriptService

	payload  []byte
	filename string
	err      error
}

func (f *fakeTranscriptService) Export(_ context.Context, _, _, _ string) ([]byte, string, error) {
	return f.payload, f.filename, f.err
}

func exportRouter(svc services.TranscriptService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", "u1") })
	h := NewTranscriptHandler(svc)
	r.GET("/transcripts/:transcript_id/export", h.Export)
	return r
}

func TestExportContentTypeByFormat(t *testing.T) {
	cases := []struct {
		filename    string
		payload     string
		contentType string
	}{
		{"transcript.txt", "[0:00 - 0:02] Speaker: hi", "text/plain; charset=utf-8"},
		{"transcript.srt", "1\n00:00:00,000 --> 00:00:02,000\nhi\n", "text/plain; charset=utf-8"},
		{"transcript.json", `[]`, "application/json"},
	}

	for _, tc := range cases {
		r := exportRouter(&fakeTranscriptService{
			payload:  []byte(tc.payload),
			filename: tc.filename,
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/transcripts/t1/export", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", tc.filename, w.Code)
		}
		if got := w.Header().Get("Content-Type"); got != tc.contentType {
			t.Fatalf("%s: content type = %q, want %q", tc.filename, got, tc.contentType)
		}
		if disp := w.Header().Get("Content-Disposition"); !strings.Contains(disp, tc.filename) {
			t.Fatalf("%s: disposition = %q", tc.filename, disp)
		}
		if w.Body.String() != tc.payload {
			t.Fatalf("%s: body = %q", tc.filename, w.Body.String())
		}
	}
}

func TestExportRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTranscriptHandler(&fakeTranscriptService{})
	r.GET("/transcripts/:transcript_id/export", h.Export)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transcripts/t1/export", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
