package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/merdocx/veilbot/internal/application/subscription/usecases"
	"github.com/merdocx/veilbot/internal/shared/logger"
	"github.com/merdocx/veilbot/internal/shared/utils"
)

// BundleGenerator resolves a token into the client-facing bundle.
type BundleGenerator interface {
	Execute(ctx context.Context, cmd usecases.GenerateBundleCommand) (*usecases.GenerateBundleResult, error)
}

// SubscriptionHandler serves the public bundle endpoint that VPN clients
// poll for their current server list.
type SubscriptionHandler struct {
	bundleUC     BundleGenerator
	profileTitle string
	logger       logger.Interface
}

func NewSubscriptionHandler(
	bundleUC BundleGenerator,
	profileTitle string,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		bundleUC:     bundleUC,
		profileTitle: profileTitle,
		logger:       logger,
	}
}

// GetBundle handles GET /api/subscription/:token.
//
// The body is the base64 bundle; usage and expiry travel in the
// Subscription-Userinfo header, which clients like v2rayNG and Streisand
// render as a progress bar.
func (h *SubscriptionHandler) GetBundle(c *gin.Context) {
	result, err := h.bundleUC.Execute(c.Request.Context(), usecases.GenerateBundleCommand{
		Token: c.Param("token"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	userinfo := fmt.Sprintf("upload=0; download=%d; total=%d; expire=%d",
		result.UsedBytes, result.LimitBytes, result.ExpiresAt.Unix())

	c.Header("Subscription-Userinfo", userinfo)
	c.Header("Profile-Title", url.PathEscape(h.profileTitle))
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(result.Body))
}
