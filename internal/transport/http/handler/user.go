package handler

import (
	"github.com/gin-gonic/gin"

	"mesto-api/internal/app"
	"mesto-api/internal/transport/http/response"
)

type UserHandler struct {
	userService *app.UserService
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=30"`
	About *string `json:"about" binding:"omitempty,min=2,max=30"`
}

type UpdateAvatarRequest struct {
	Avatar *string `json:"avatar" binding:"required"`
}

func NewUserHandler(userService *app.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, "users", users)
}

func (h *UserHandler) Me(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	user, err := h.userService.Current(c.Request.Context(), identity)
	if err != nil {
		fail(c, err)
		return
	}
	response.Data(c, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Data(c, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), identity, app.UpdateProfileInput{
		Name:  req.Name,
		About: req.About,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Data(c, user)
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req UpdateAvatarRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	user, err := h.userService.UpdateAvatar(c.Request.Context(), identity, req.Avatar)
	if err != nil {
		fail(c, err)
		return
	}
	response.Data(c, user)
}
