package handler

import (
	"github.com/gin-gonic/gin"

	"mesto-api/internal/app"
	"mesto-api/internal/transport/http/response"
)

type AuthHandler struct {
	userService *app.UserService
}

type SignupRequest struct {
	Name     string `json:"name" binding:"omitempty,min=2,max=30"`
	About    string `json:"about" binding:"omitempty,min=2,max=30"`
	Avatar   string `json:"avatar" binding:"omitempty,httpurl"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type signupData struct {
	Name   string `json:"name"`
	About  string `json:"about"`
	Avatar string `json:"avatar"`
	Email  string `json:"email"`
}

func NewAuthHandler(userService *app.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), app.CreateUserInput{
		Name:     req.Name,
		About:    req.About,
		Avatar:   req.Avatar,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, "data", signupData{
		Name:   user.Name,
		About:  user.About,
		Avatar: user.Avatar,
		Email:  user.Email,
	})
}

func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	token, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, "_id", token)
}
