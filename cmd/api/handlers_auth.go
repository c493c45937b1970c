package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streamhub/accounts/internal/apierr"
	"github.com/streamhub/accounts/internal/middleware"
	"github.com/streamhub/accounts/internal/session"
)

const refreshTokenCookie = "refreshToken"

// setSessionCookies mirrors the token pair into http-only cookies. Clients
// may use the JSON body instead; the tokens are identical either way.
func (api *API) setSessionCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie("accessToken", accessToken, int(api.tokens.AccessTTL().Seconds()), "/", "", true, true)
	c.SetCookie(refreshTokenCookie, refreshToken, int(api.tokens.RefreshTTL().Seconds()), "/", "", true, true)
}

func (api *API) clearSessionCookies(c *gin.Context) {
	c.SetCookie("accessToken", "", -1, "/", "", true, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", true, true)
}

func (api *API) register(c *gin.Context) {
	fullName := c.PostForm("fullName")
	email := c.PostForm("email")
	username := c.PostForm("username")
	password := c.PostForm("password")

	avatarURL, err := api.uploadFormImage(c, "avatar", "avatars")
	if err != nil {
		apierr.Write(c, err)
		return
	}
	if avatarURL == "" {
		apierr.Write(c, apierr.Validation("avatar file is required"))
		return
	}

	coverURL, err := api.uploadFormImage(c, "coverImage", "covers")
	if err != nil {
		apierr.Write(c, err)
		return
	}

	user, err := api.sessions.Register(c.Request.Context(), session.RegisterInput{
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Password:   password,
		Avatar:     avatarURL,
		CoverImage: coverURL,
	})
	if err != nil {
		apierr.Write(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// uploadFormImage stores an uploaded form file and returns its public URL,
// or "" when the field is absent
func (api *API) uploadFormImage(c *gin.Context, field, folder string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", apierr.Validation("could not read uploaded file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := api.media.UploadImage(c.Request.Context(), folder, fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		api.log.ErrorWithErr("image upload failed", err)
		return "", apierr.Internal("failed to store image")
	}

	return url, nil
}

func (api *API) login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Write(c, apierr.Validation("username or email and password are required"))
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	pair, user, err := api.sessions.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		apierr.Write(c, err)
		return
	}

	api.setSessionCookies(c, pair.AccessToken, pair.RefreshToken)

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (api *API) refreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	// Body is optional, the cookie may carry the token instead
	_ = c.ShouldBindJSON(&req)

	presented := req.RefreshToken
	if presented == "" {
		presented, _ = c.Cookie(refreshTokenCookie)
	}

	pair, err := api.sessions.Refresh(c.Request.Context(), presented)
	if err != nil {
		apierr.Write(c, err)
		return
	}

	api.setSessionCookies(c, pair.AccessToken, pair.RefreshToken)

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (api *API) logout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierr.Write(c, apierr.Unauthorized("authentication required"))
		return
	}

	if err := api.sessions.Logout(c.Request.Context(), user.ID); err != nil {
		apierr.Write(c, err)
		return
	}

	api.invalidateIdentity(c.Request.Context(), user.ID, user.Username)
	api.clearSessionCookies(c)

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (api *API) changePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierr.Write(c, apierr.Unauthorized("authentication required"))
		return
	}

	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Write(c, apierr.Validation("old and new passwords are required"))
		return
	}

	if err := api.sessions.ChangePassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		apierr.Write(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (api *API) currentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierr.Write(c, apierr.Unauthorized("authentication required"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
