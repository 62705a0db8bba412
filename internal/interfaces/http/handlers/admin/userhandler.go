package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merdocx/veilbot/internal/application/user/usecases"
	"github.com/merdocx/veilbot/internal/domain/user"
	"github.com/merdocx/veilbot/internal/shared/logger"
	"github.com/merdocx/veilbot/internal/shared/utils"
)

// UserHandler exposes user administration. Deletion is guarded: accounts
// with history cannot be removed.
type UserHandler struct {
	userRepo user.Repository
	canDelUC *usecases.CanDeleteUserUseCase
	deleteUC *usecases.DeleteUserUseCase
	logger   logger.Interface
}

func NewUserHandler(
	userRepo user.Repository,
	canDelUC *usecases.CanDeleteUserUseCase,
	deleteUC *usecases.DeleteUserUseCase,
	logger logger.Interface,
) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
		canDelUC: canDelUC,
		deleteUC: deleteUC,
		logger:   logger,
	}
}

// List handles GET /api/admin/users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userRepo.List(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", users)
}

// CanDelete handles GET /api/admin/users/:id/can-delete.
func (h *UserHandler) CanDelete(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.canDelUC.Execute(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Delete handles DELETE /api/admin/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}
