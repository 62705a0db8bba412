package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/merdocx/veilbot/internal/application/server/usecases"
	"github.com/merdocx/veilbot/internal/domain/server"
	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
	"github.com/merdocx/veilbot/internal/shared/utils"
)

// ServerHandler exposes fleet management. API credentials never appear in
// responses.
type ServerHandler struct {
	manageUC *usecases.ManageServersUseCase
	logger   logger.Interface
}

func NewServerHandler(manageUC *usecases.ManageServersUseCase, logger logger.Interface) *ServerHandler {
	return &ServerHandler{manageUC: manageUC, logger: logger}
}

type createServerRequest struct {
	Name               string `json:"name" binding:"required"`
	Country            string `json:"country"`
	Protocol           string `json:"protocol" binding:"required,oneof=outline v2ray"`
	APIURL             string `json:"api_url" binding:"required,url"`
	APICredential      string `json:"api_credential"`
	Domain             string `json:"domain"`
	AccessLevel        int    `json:"access_level"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify"`
}

type updateServerRequest struct {
	Name               *string `json:"name"`
	Country            *string `json:"country"`
	APIURL             *string `json:"api_url"`
	APICredential      *string `json:"api_credential"`
	Domain             *string `json:"domain"`
	Active             *bool   `json:"active"`
	AccessLevel        *int    `json:"access_level"`
	InsecureSkipVerify *bool   `json:"insecure_skip_verify"`
}

type serverResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	Protocol    string    `json:"protocol"`
	APIURL      string    `json:"api_url"`
	Domain      string    `json:"domain,omitempty"`
	Active      bool      `json:"active"`
	AccessLevel int       `json:"access_level"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toServerResponse(srv *server.Server) serverResponse {
	return serverResponse{
		ID:          srv.ID,
		Name:        srv.Name,
		Country:     srv.Country,
		Protocol:    string(srv.Protocol),
		APIURL:      srv.APIURL,
		Domain:      srv.Domain,
		Active:      srv.Active,
		AccessLevel: srv.AccessLevel,
		CreatedAt:   srv.CreatedAt,
		UpdatedAt:   srv.UpdatedAt,
	}
}

// Create handles POST /api/admin/servers.
func (h *ServerHandler) Create(c *gin.Context) {
	var req createServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	srv, err := h.manageUC.Create(c.Request.Context(), usecases.CreateServerCommand{
		Name:               req.Name,
		Country:            req.Country,
		Protocol:           req.Protocol,
		APIURL:             req.APIURL,
		APICredential:      req.APICredential,
		Domain:             req.Domain,
		AccessLevel:        req.AccessLevel,
		InsecureSkipVerify: req.InsecureSkipVerify,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, toServerResponse(srv), "server registered")
}

// List handles GET /api/admin/servers.
func (h *ServerHandler) List(c *gin.Context) {
	servers, err := h.manageUC.List(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]serverResponse, 0, len(servers))
	for _, srv := range servers {
		items = append(items, toServerResponse(srv))
	}
	utils.SuccessResponse(c, http.StatusOK, "", items)
}

// Get handles GET /api/admin/servers/:id.
func (h *ServerHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	srv, err := h.manageUC.Get(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", toServerResponse(srv))
}

// Update handles PATCH /api/admin/servers/:id.
func (h *ServerHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req updateServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	srv, err := h.manageUC.Update(c.Request.Context(), usecases.UpdateServerCommand{
		ID:                 id,
		Name:               req.Name,
		Country:            req.Country,
		APIURL:             req.APIURL,
		APICredential:      req.APICredential,
		Domain:             req.Domain,
		Active:             req.Active,
		AccessLevel:        req.AccessLevel,
		InsecureSkipVerify: req.InsecureSkipVerify,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "server updated", toServerResponse(srv))
}

// Delete handles DELETE /api/admin/servers/:id.
func (h *ServerHandler) Delete(c *gin.Context) {
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
