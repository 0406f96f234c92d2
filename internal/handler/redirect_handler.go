package handler

import (
	"context"
	"net/http"

	"github.com/gamassss/shortlink/internal/domain"
	"github.com/gamassss/shortlink/internal/middleware"
	"github.com/gin-gonic/gin"
)

type RedirectService interface {
	Redirect(ctx context.Context, code string, req *domain.ClickRequest) (*domain.Link, error)
}

type RedirectHandler struct {
	service RedirectService
}

func NewRedirectHandler(service RedirectService) *RedirectHandler {
	return &RedirectHandler{service: service}
}

// Redirect is the hot path: one resolve, then a 301. Click recording
// already runs detached by the time the response goes out.
func (h *RedirectHandler) Redirect(c *gin.Context) {
	code := c.Param("code")

	clickReq := &domain.ClickRequest{
		RemoteAddr:    c.Request.RemoteAddr,
		XForwardedFor: c.GetHeader("X-Forwarded-For"),
		XRealIP:       c.GetHeader("X-Real-IP"),
		CFConnecting:  c.GetHeader("CF-Connecting-IP"),
		UserAgent:     c.Request.UserAgent(),
		Referer:       c.Request.Referer(),
	}
	if id, ok := middleware.UserID(c); ok {
		clickReq.UserID = &id
	}

	link, err := h.service.Redirect(c.Request.Context(), code, clickReq)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Redirect(http.StatusMovedPermanently, link.Destination)
}
