package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mesto-api/internal/app"
	"mesto-api/internal/transport/http/response"
)

type CardHandler struct {
	cardService *app.CardService
}

type CreateCardRequest struct {
	Name string `json:"name" binding:"required,min=2,max=30"`
	Link string `json:"link" binding:"required,httpurl"`
}

func NewCardHandler(cardService *app.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

func (h *CardHandler) List(c *gin.Context) {
	cards, err := h.cardService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, "cards", cards)
}

func (h *CardHandler) Create(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req CreateCardRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	card, err := h.cardService.Create(c.Request.Context(), identity, app.CreateCardInput{
		Name: req.Name,
		Link: req.Link,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, "card", card)
}

func (h *CardHandler) Delete(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	if err := h.cardService.Delete(c.Request.Context(), identity, c.Param("cardId")); err != nil {
		fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Card deleted successfully")
}

// Like and Dislike ignore any request body: the member is always the caller.
func (h *CardHandler) Like(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	card, err := h.cardService.Like(c.Request.Context(), identity, c.Param("cardId"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Data(c, card)
}

func (h *CardHandler) Dislike(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	card, err := h.cardService.Dislike(c.Request.Context(), identity, c.Param("cardId"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Data(c, card)
}
