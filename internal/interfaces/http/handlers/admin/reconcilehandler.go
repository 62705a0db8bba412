package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merdocx/veilbot/internal/application/reconcile/usecases"
	"github.com/merdocx/veilbot/internal/domain/reconcile"
	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
	"github.com/merdocx/veilbot/internal/shared/utils"
)

// ReconcileHandler triggers reconciliation runs and serves the stored
// reports.
type ReconcileHandler struct {
	reconcileUC *usecases.ReconcileServerUseCase
	reportRepo  reconcile.Repository
	logger      logger.Interface
}

func NewReconcileHandler(
	reconcileUC *usecases.ReconcileServerUseCase,
	reportRepo reconcile.Repository,
	logger logger.Interface,
) *ReconcileHandler {
	return &ReconcileHandler{
		reconcileUC: reconcileUC,
		reportRepo:  reportRepo,
		logger:      logger,
	}
}

type reconcileRequest struct {
	// ServerID of 0 reconciles every active server.
	ServerID uint `json:"server_id"`
	DryRun   bool `json:"dry_run"`
}

// Run handles POST /api/admin/reconcile.
func (h *ReconcileHandler) Run(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	reports, err := h.reconcileUC.Execute(c.Request.Context(), usecases.ReconcileServerCommand{
		ServerID: req.ServerID,
		DryRun:   req.DryRun,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "reconciliation finished", reports)
}

// ListReports handles GET /api/admin/reconcile/reports.
func (h *ReconcileHandler) ListReports(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	reports, err := h.reportRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", reports)
}

// LatestReport handles GET /api/admin/reconcile/reports/:id for one server.
func (h *ReconcileHandler) LatestReport(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	report, err := h.reportRepo.GetLatestByServer(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if report == nil {
		utils.ErrorResponseWithError(c, apperrors.NewNotFoundError("no report for server"))
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", report)
}
