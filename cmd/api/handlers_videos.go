package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streamhub/accounts/internal/apierr"
	"github.com/streamhub/accounts/internal/middleware"
	"github.com/streamhub/accounts/pkg/models"
)

func (api *API) createVideo(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierr.Write(c, apierr.Unauthorized("authentication required"))
		return
	}

	var req struct {
		Title       string  `json:"title" binding:"required"`
		Description string  `json:"description"`
		VideoURL    string  `json:"video_url" binding:"required"`
		Thumbnail   string  `json:"thumbnail"`
		Duration    float64 `json:"duration"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Write(c, apierr.Validation("title and video_url are required"))
		return
	}

	video := &models.Video{
		OwnerID:     user.ID,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		Thumbnail:   req.Thumbnail,
		Duration:    req.Duration,
		IsPublished: true,
	}

	if err := api.videos.CreateVideo(c.Request.Context(), video); err != nil {
		apierr.Write(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"video": video})
}

// watchVideo records a view: the counter is bumped and the video moves to
// the front of the viewer's watch history
func (api *API) watchVideo(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierr.Write(c, apierr.Unauthorized("authentication required"))
		return
	}

	video, err := api.videos.GetVideo(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierr.Write(c, err)
		return
	}

	if err := api.videos.IncrementViews(c.Request.Context(), video.ID); err != nil {
		apierr.Write(c, err)
		return
	}

	if err := api.users.AppendWatchHistory(c.Request.Context(), user.ID, video.ID); err != nil {
		apierr.Write(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"video": video})
}
