package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merdocx/veilbot/internal/application/tariff/usecases"
	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
	"github.com/merdocx/veilbot/internal/shared/utils"
)

type TariffHandler struct {
	manageUC *usecases.ManageTariffsUseCase
	logger   logger.Interface
}

func NewTariffHandler(manageUC *usecases.ManageTariffsUseCase, logger logger.Interface) *TariffHandler {
	return &TariffHandler{manageUC: manageUC, logger: logger}
}

type createTariffRequest struct {
	Name           string `json:"name" binding:"required"`
	DurationSec    int64  `json:"duration_seconds" binding:"required,min=1"`
	Price          int64  `json:"price" binding:"min=0"`
	TrafficLimitMB int64  `json:"traffic_limit_mb" binding:"min=0"`
}

type updateTariffRequest struct {
	Name           *string `json:"name"`
	DurationSec    *int64  `json:"duration_seconds"`
	Price          *int64  `json:"price"`
	TrafficLimitMB *int64  `json:"traffic_limit_mb"`
}

// Create handles POST /api/admin/tariffs.
func (h *TariffHandler) Create(c *gin.Context) {
	var req createTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	t, err := h.manageUC.Create(c.Request.Context(), usecases.CreateTariffCommand{
		Name:           req.Name,
		DurationSec:    req.DurationSec,
		Price:          req.Price,
		TrafficLimitMB: req.TrafficLimitMB,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, t, "tariff created")
}

// List handles GET /api/admin/tariffs.
func (h *TariffHandler) List(c *gin.Context) {
	tariffs, err := h.manageUC.List(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", tariffs)
}

// Get handles GET /api/admin/tariffs/:id.
func (h *TariffHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	t, err := h.manageUC.Get(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", t)
}

// Update handles PATCH /api/admin/tariffs/:id.
func (h *TariffHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req updateTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	t, err := h.manageUC.Update(c.Request.Context(), usecases.UpdateTariffCommand{
		ID:             id,
		Name:           req.Name,
		DurationSec:    req.DurationSec,
		Price:          req.Price,
		TrafficLimitMB: req.TrafficLimitMB,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "tariff updated", t)
}

// Delete handles DELETE /api/admin/tariffs/:id.
func (h *TariffHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.manageUC.Delete(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}
