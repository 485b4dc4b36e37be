package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Vijayaa21/blabber/internal/api/handlers"
	"github.com/Vijayaa21/blabber/internal/api/middleware"
)

type Deps struct {
	Transcript   *handlers.TranscriptHandler
	Post         *handlers.PostHandler
	User         *handlers.UserHandler
	Notification *handlers.NotificationHandler
	Live         *handlers.LiveHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Protected routes (JWT)
	auth := r.Group("/api")
	auth.Use(middleware.JWTAuth())

	auth.POST("/transcripts", d.Transcript.Generate)
	auth.GET("/transcripts", d.Transcript.List)
	auth.GET("/transcripts/:transcript_id", d.Transcript.Get)
	auth.DELETE("/transcripts/:transcript_id", d.Transcript.Delete)
	auth.PUT("/transcripts/:transcript_id/segments", d.Transcript.SaveSegments)
	auth.PATCH("/transcripts/:transcript_id/segments/:segment_id/text", d.Transcript.UpdateSegmentText)
	auth.PATCH("/transcripts/:transcript_id/segments/:segment_id/confirm", d.Transcript.ConfirmSegment)
	auth.PATCH("/transcripts/:transcript_id/segments/:segment_id/flag", d.Transcript.FlagSegment)
	auth.GET("/transcripts/:transcript_id/stats", d.Transcript.Stats)
	auth.GET("/transcripts/:transcript_id/export", d.Transcript.Export)

	auth.POST("/posts", d.Post.Create)
	auth.DELETE("/posts/:post_id", d.Post.Delete)
	auth.POST("/posts/:post_id/like", d.Post.Like)
	auth.GET("/feed", d.Post.Feed)
	auth.GET("/feed/following", d.Post.FollowingFeed)

	auth.GET("/profile/:username", d.User.Profile)
	auth.PUT("/profile/update", d.User.UpdateProfile)
	auth.POST("/users/:user_id/follow", d.User.FollowToggle)
	auth.GET("/users/suggested", d.User.Suggested)

	auth.GET("/notifications", d.Notification.List)
	auth.DELETE("/notifications", d.Notification.DeleteAll)

	auth.POST("/live/start", d.Live.Start)
	auth.POST("/live/:session_id/end", d.Live.End)

	// WebSocket
	ws := r.Group("/ws")
	ws.Use(middleware.JWTAuth())
	ws.GET("/live/:session_id", d.Live.SessionWS)
}
