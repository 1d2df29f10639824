// Package response writes the JSON bodies of the HTTP API.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mesto-api/internal/apperror"
)

type MessageBody struct {
	Message string `json:"message"`
}

// OK writes {key: value} with status 200.
func OK(c *gin.Context, key string, value any) {
	c.JSON(http.StatusOK, gin.H{key: value})
}

// Created writes {key: value} with status 201.
func Created(c *gin.Context, key string, value any) {
	c.JSON(http.StatusCreated, gin.H{key: value})
}

func Data(c *gin.Context, value any) {
	OK(c, "data", value)
}

func Message(c *gin.Context, status int, message string) {
	c.JSON(status, MessageBody{Message: message})
}

// Error writes a classified error. Internal errors always get the generic
// message.
func Error(c *gin.Context, err *apperror.Error) {
	c.AbortWithStatusJSON(err.StatusCode(), MessageBody{Message: err.SafeMessage()})
}
