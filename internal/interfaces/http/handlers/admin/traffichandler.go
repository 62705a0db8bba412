package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merdocx/veilbot/internal/application/traffic/usecases"
	"github.com/merdocx/veilbot/internal/shared/logger"
	"github.com/merdocx/veilbot/internal/shared/utils"
)

// TrafficHandler serves the admin traffic overview.
type TrafficHandler struct {
	overviewUC *usecases.TrafficOverviewUseCase
	logger     logger.Interface
}

func NewTrafficHandler(overviewUC *usecases.TrafficOverviewUseCase, logger logger.Interface) *TrafficHandler {
	return &TrafficHandler{overviewUC: overviewUC, logger: logger}
}

// Overview handles GET /api/admin/traffic.
func (h *TrafficHandler) Overview(c *gin.Context) {
	entries, err := h.overviewUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", entries)
}
