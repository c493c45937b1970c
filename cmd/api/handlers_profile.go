package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streamhub/accounts/internal/apierr"
	"github.com/streamhub/accounts/internal/middleware"
	"github.com/streamhub/accounts/pkg/models"
)

func (api *API) updateAccount(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierr.Write(c, apierr.Unauthorized("authentication required"))
		return
	}

	var req struct {
		FullName string `json:"full_name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Write(c, apierr.Validation("full name and a valid email are required"))
		return
	}

	updated, err := api.users.UpdateAccount(c.Request.Context(), user.ID, req.FullName, req.Email)
	if err != nil {
		apierr.Write(c, err)
		return
	}

	api.invalidateIdentity(c.Request.Context(), user.ID, user.Username)

	c.JSON(http.StatusOK, gin.H{"user": updated.Public()})
}

func (api *API) updateAvatar(c *gin.Context) {
	api.updateImage(c, "avatar", "avatars", api.users.UpdateAvatar, func(u *models.User) string { return u.Avatar })
}

func (api *API) updateCoverImage(c *gin.Context) {
	api.updateImage(c, "coverImage", "covers", api.users.UpdateCoverImage, func(u *models.User) string { return u.CoverImage })
}

func (api *API) updateImage(
	c *gin.Context,
	field, folder string,
	update func(ctx context.Context, userID, url string) (*models.User, error),
	current func(*models.User) string,
) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierr.Write(c, apierr.Unauthorized("authentication required"))
		return
	}

	url, err := api.uploadFormImage(c, field, folder)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	if url == "" {
		apierr.Write(c, apierr.Validation(field+" file is required"))
		return
	}

	previous, err := api.users.GetUserByID(c.Request.Context(), user.ID)
	if err != nil {
		apierr.Write(c, err)
		return
	}

	updated, err := update(c.Request.Context(), user.ID, url)
	if err != nil {
		apierr.Write(c, err)
		return
	}

	// Drop the replaced image, best effort
	if old := current(previous); old != "" {
		if err := api.media.Delete(c.Request.Context(), old); err != nil {
			api.log.WithError(err).Warn("failed to delete replaced image")
		}
	}

	api.invalidateIdentity(c.Request.Context(), user.ID, user.Username)

	c.JSON(http.StatusOK, gin.H{"user": updated.Public()})
}

func (api *API) getChannelProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierr.Write(c, apierr.Unauthorized("authentication required"))
		return
	}

	profile, err := api.profiles.GetChannelProfile(c.Request.Context(), user.ID, c.Param("username"))
	if err != nil {
		apierr.Write(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"channel": profile})
}

func (api *API) subscribe(c *gin.Context) {
	api.setSubscription(c, true)
}

func (api *API) unsubscribe(c *gin.Context) {
	api.setSubscription(c, false)
}

func (api *API) setSubscription(c *gin.Context, subscribed bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierr.Write(c, apierr.Unauthorized("authentication required"))
		return
	}

	channel, err := api.users.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		apierr.Write(c, err)
		return
	}

	if channel.ID == user.ID {
		apierr.Write(c, apierr.Validation("cannot subscribe to your own channel"))
		return
	}

	if subscribed {
		err = api.subs.Subscribe(c.Request.Context(), user.ID, channel.ID)
	} else {
		err = api.subs.Unsubscribe(c.Request.Context(), user.ID, channel.ID)
	}
	if err != nil {
		apierr.Write(c, err)
		return
	}

	// The channel's cached profile now carries a stale subscriber count
	if api.cache != nil {
		if err := api.cache.DeleteChannelProfile(c.Request.Context(), channel.Username); err != nil {
			api.log.WithError(err).Warn("failed to invalidate cached profile")
		}
	}

	c.JSON(http.StatusOK, gin.H{"subscribed": subscribed})
}

func (api *API) getWatchHistory(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierr.Write(c, apierr.Unauthorized("authentication required"))
		return
	}

	history, err := api.profiles.GetWatchHistory(c.Request.Context(), user.ID)
	if err != nil {
		apierr.Write(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}
