package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gamassss/shortlink/internal/domain"
	"github.com/gamassss/shortlink/internal/logger"
	"github.com/gamassss/shortlink/internal/middleware"
	"github.com/gamassss/shortlink/pkg/qr"
	"github.com/gamassss/shortlink/pkg/response"
	"github.com/gamassss/shortlink/pkg/validator"
	"github.com/gin-gonic/gin"
)

type LinkService interface {
	Create(ctx context.Context, ownerID *int64, req *domain.CreateLinkRequest) (*domain.Link, error)
	Get(ctx context.Context, id, ownerID int64) (*domain.Link, error)
	List(ctx context.Context, params domain.ListLinksParams) (*domain.LinkPage, error)
	Update(ctx context.Context, id, ownerID int64, req *domain.UpdateLinkRequest) (*domain.Link, error)
	Delete(ctx context.Context, id, ownerID int64) error
}

type LinkHandler struct {
	service LinkService
	qr      qr.Renderer
	baseURL string
}

func NewLinkHandler(service LinkService, renderer qr.Renderer, baseURL string) *LinkHandler {
	return &LinkHandler{
		service: service,
		qr:      renderer,
		baseURL: baseURL,
	}
}

func (h *LinkHandler) shortURL(link *domain.Link) string {
	return fmt.Sprintf("%s/%s", h.baseURL, link.Code())
}

// writeError maps the domain taxonomy onto HTTP statuses. Conflicts
// surface as 400 at the API boundary so the client retries with a
// different alias rather than treating it as a server-side race.
func writeError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		response.BadRequest(c, err.Error())
	case domain.IsConflict(err):
		response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(c, "Link not found")
	case errors.Is(err, domain.ErrGone):
		response.Gone(c, "Link has expired")
	case errors.Is(err, domain.ErrCapacity):
		response.ServiceUnavailable(c, "Unable to allocate a short code, try again later")
	default:
		logger.FromContext(c.Request.Context()).Error("Request failed", "error", err)
		response.InternalServerError(c, "Something went wrong")
	}
}

func (h *LinkHandler) Create(c *gin.Context) {
	var req domain.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if errs := validator.Validate(req); len(errs) > 0 {
		response.ValidationErrors(c, errs)
		return
	}

	var ownerID *int64
	if id, ok := middleware.UserID(c); ok {
		ownerID = &id
	}

	link, err := h.service.Create(c.Request.Context(), ownerID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, "Link created", gin.H{
		"link":      link,
		"short_url": h.shortURL(link),
	})
}

func (h *LinkHandler) List(c *gin.Context) {
	ownerID, _ := middleware.UserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	params := domain.ListLinksParams{
		OwnerID:   ownerID,
		Page:      page,
		PageSize:  pageSize,
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	result, err := h.service.List(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, "Links retrieved", result)
}

func linkID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, "Invalid link id")
		return 0, false
	}
	return id, true
}

func (h *LinkHandler) Get(c *gin.Context) {
	id, ok := linkID(c)
	if !ok {
		return
	}
	ownerID, _ := middleware.UserID(c)

	link, err := h.service.Get(c.Request.Context(), id, ownerID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, "Link retrieved", gin.H{
		"link":      link,
		"short_url": h.shortURL(link),
	})
}

func (h *LinkHandler) Update(c *gin.Context) {
	id, ok := linkID(c)
	if !ok {
		return
	}
	ownerID, _ := middleware.UserID(c)

	var req domain.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if errs := validator.Validate(req); len(errs) > 0 {
		response.ValidationErrors(c, errs)
		return
	}

	link, err := h.service.Update(c.Request.Context(), id, ownerID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, "Link updated", gin.H{"link": link})
}

func (h *LinkHandler) Delete(c *gin.Context) {
	id, ok := linkID(c)
	if !ok {
		return
	}
	ownerID, _ := middleware.UserID(c)

	if err := h.service.Delete(c.Request.Context(), id, ownerID); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, "Link deleted", nil)
}

// QRCode renders the short URL as a PNG.
func (h *LinkHandler) QRCode(c *gin.Context) {
	id, ok := linkID(c)
	if !ok {
		return
	}
	ownerID, _ := middleware.UserID(c)

	link, err := h.service.Get(c.Request.Context(), id, ownerID)
	if err != nil {
		writeError(c, err)
		return
	}

	size, _ := strconv.Atoi(c.DefaultQuery("size", "256"))
	if size < 64 || size > 1024 {
		size = qr.DefaultSize
	}

	png, err := h.qr.RenderPNG(h.shortURL(link), size)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
