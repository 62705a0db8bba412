package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/merdocx/veilbot/internal/application/subscription/usecases"
	"github.com/merdocx/veilbot/internal/domain/subscription"
	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
	"github.com/merdocx/veilbot/internal/shared/utils"
)

// SubscriptionHandler exposes the admin subscription lifecycle.
type SubscriptionHandler struct {
	createUC     *usecases.CreateSubscriptionUseCase
	extendUC     *usecases.ExtendSubscriptionUseCase
	deactivateUC *usecases.DeactivateSubscriptionUseCase
	deleteUC     *usecases.DeleteSubscriptionUseCase
	repairUC     *usecases.RepairSubscriptionUseCase
	grantFreeUC  *usecases.GrantFreeSubscriptionUseCase
	subRepo      subscription.Repository
	logger       logger.Interface
}

func NewSubscriptionHandler(
	createUC *usecases.CreateSubscriptionUseCase,
	extendUC *usecases.ExtendSubscriptionUseCase,
	deactivateUC *usecases.DeactivateSubscriptionUseCase,
	deleteUC *usecases.DeleteSubscriptionUseCase,
	repairUC *usecases.RepairSubscriptionUseCase,
	grantFreeUC *usecases.GrantFreeSubscriptionUseCase,
	subRepo subscription.Repository,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		createUC:     createUC,
		extendUC:     extendUC,
		deactivateUC: deactivateUC,
		deleteUC:     deleteUC,
		repairUC:     repairUC,
		grantFreeUC:  grantFreeUC,
		subRepo:      subRepo,
		logger:       logger,
	}
}

type createSubscriptionRequest struct {
	UserID      uint64 `json:"user_id" binding:"required"`
	UserName    string `json:"user_name"`
	TariffID    uint   `json:"tariff_id" binding:"required"`
	DurationSec int64  `json:"duration_seconds"`
}

type extendSubscriptionRequest struct {
	AddDurationSec int64      `json:"add_duration_seconds"`
	NewExpiresAt   *time.Time `json:"new_expires_at"`
	TariffID       *uint      `json:"tariff_id"`
}

type subscriptionResponse struct {
	ID                uint       `json:"id"`
	UserID            uint64     `json:"user_id"`
	Token             string     `json:"token"`
	TariffID          uint       `json:"tariff_id"`
	Active            bool       `json:"active"`
	ExpiresAt         time.Time  `json:"expires_at"`
	TrafficLimitMB    *int64     `json:"traffic_limit_mb,omitempty"`
	TrafficUsageBytes int64      `json:"traffic_usage_bytes"`
	OverLimitAt       *time.Time `json:"over_limit_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toSubscriptionResponse(sub *subscription.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:                sub.ID(),
		UserID:            sub.UserID(),
		Token:             sub.Token(),
		TariffID:          sub.TariffID(),
		Active:            sub.IsActive(),
		ExpiresAt:         sub.ExpiresAt(),
		TrafficLimitMB:    sub.TrafficLimitMB(),
		TrafficUsageBytes: sub.TrafficUsageBytes(),
		OverLimitAt:       sub.TrafficOverLimitAt(),
		CreatedAt:         sub.CreatedAt(),
	}
}

// Create handles POST /api/admin/subscriptions.
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreateSubscriptionCommand{
		UserID:      req.UserID,
		UserName:    req.UserName,
		TariffID:    req.TariffID,
		DurationSec: req.DurationSec,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	status := http.StatusCreated
	message := "subscription created"
	if result.Extended {
		status = http.StatusOK
		message = "subscription extended"
	}
	utils.SuccessResponse(c, status, message, result)
}

type grantFreeRequest struct {
	UserID   uint64 `json:"user_id" binding:"required"`
	UserName string `json:"user_name"`
	TariffID uint   `json:"tariff_id" binding:"required"`
	Protocol string `json:"protocol" binding:"required,oneof=outline v2ray"`
	Country  string `json:"country"`
}

// GrantFree handles POST /api/admin/subscriptions/free.
func (h *SubscriptionHandler) GrantFree(c *gin.Context) {
	var req grantFreeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	result, err := h.grantFreeUC.Execute(c.Request.Context(), usecases.GrantFreeSubscriptionCommand{
		UserID:   req.UserID,
		UserName: req.UserName,
		TariffID: req.TariffID,
		Protocol: req.Protocol,
		Country:  req.Country,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "free subscription granted", result)
}

// List handles GET /api/admin/subscriptions.
func (h *SubscriptionHandler) List(c *gin.Context) {
	filter := subscription.Filter{
		ActiveOnly: c.Query("active") == "true",
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 20),
	}
	if raw := c.Query("user_id"); raw != "" {
		uid, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid user_id"))
			return
		}
		filter.UserID = &uid
	}

	subs, total, err := h.subRepo.List(c.Request.Context(), filter)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		items = append(items, toSubscriptionResponse(sub))
	}
	utils.ListSuccessResponse(c, items, total, filter.Page, filter.PageSize)
}

// Get handles GET /api/admin/subscriptions/:id.
func (h *SubscriptionHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	sub, err := h.subRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if sub == nil {
		utils.ErrorResponseWithError(c, apperrors.NewNotFoundError("subscription not found"))
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", toSubscriptionResponse(sub))
}

// Extend handles POST /api/admin/subscriptions/:id/extend.
func (h *SubscriptionHandler) Extend(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req extendSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	result, err := h.extendUC.Execute(c.Request.Context(), usecases.ExtendSubscriptionCommand{
		SubscriptionID: id,
		AddDurationSec: req.AddDurationSec,
		NewExpiresAt:   req.NewExpiresAt,
		TariffID:       req.TariffID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "subscription extended", result)
}

// Deactivate handles POST /api/admin/subscriptions/:id/deactivate.
func (h *SubscriptionHandler) Deactivate(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deactivateUC.Execute(c.Request.Context(), usecases.DeactivateSubscriptionCommand{
		SubscriptionID: id,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "subscription deactivated", nil)
}

// Delete handles DELETE /api/admin/subscriptions/:id.
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), usecases.DeleteSubscriptionCommand{
		SubscriptionID: id,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// Repair handles POST /api/admin/subscriptions/:id/repair.
func (h *SubscriptionHandler) Repair(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.repairUC.Execute(c.Request.Context(), usecases.RepairSubscriptionCommand{
		SubscriptionID: id,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "subscription repaired", result)
}
