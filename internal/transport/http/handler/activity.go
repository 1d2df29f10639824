package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"mesto-api/internal/app"
	"mesto-api/internal/apperror"
	"mesto-api/internal/transport/http/response"
)

type ActivityHandler struct {
	activityService *app.ActivityService
}

func NewActivityHandler(activityService *app.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (h *ActivityHandler) Mine(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fail(c, apperror.NewBadRequest("Invalid value for field limit", err))
			return
		}
		limit = n
	}

	activities, err := h.activityService.Recent(c.Request.Context(), identity, limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, "activities", activities)
}
