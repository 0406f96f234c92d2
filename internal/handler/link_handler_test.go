package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gamassss/shortlink/internal/domain"
	"github.com/gamassss/shortlink/internal/middleware"
	"github.com/gamassss/shortlink/tests/mocks"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testBaseURL = "http://sho.rt"

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func asUser(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetUserID(c, id)
		c.Next()
	}
}

func TestCreateLink_Success(t *testing.T) {
	mockService := new(mocks.MockLinkService)
	h := NewLinkHandler(mockService, new(mocks.MockQRRenderer), testBaseURL)
	router := setupTestRouter()
	router.POST("/api/links", h.Create)

	mockLink := &domain.Link{ID: 1, ShortCode: "abc123", Destination: "https://example.com", IsActive: true}
	mockService.On("Create", mock.Anything, (*int64)(nil), mock.MatchedBy(func(req *domain.CreateLinkRequest) bool {
		return req.Destination == "example.com"
	})).Return(mockLink, nil).Once()

	req := httptest.NewRequest("POST", "/api/links", strings.NewReader(`{"destination": "example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "http://sho.rt/abc123", data["short_url"])

	mockService.AssertExpectations(t)
}

func TestCreateLink_AuthenticatedOwnerForwarded(t *testing.T) {
	mockService := new(mocks.MockLinkService)
	h := NewLinkHandler(mockService, new(mocks.MockQRRenderer), testBaseURL)
	router := setupTestRouter()
	router.POST("/api/links", asUser(42), h.Create)

	mockLink := &domain.Link{ID: 1, ShortCode: "abc123"}
	mockService.On("Create", mock.Anything, mock.MatchedBy(func(ownerID *int64) bool {
		return ownerID != nil && *ownerID == 42
	}), mock.Anything).Return(mockLink, nil).Once()

	req := httptest.NewRequest("POST", "/api/links", strings.NewReader(`{"destination": "https://example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestCreateLink_InvalidJSON(t *testing.T) {
	mockService := new(mocks.MockLinkService)
	h := NewLinkHandler(mockService, new(mocks.MockQRRenderer), testBaseURL)
	router := setupTestRouter()
	router.POST("/api/links", h.Create)

	req := httptest.NewRequest("POST", "/api/links", strings.NewReader(`{not json}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestCreateLink_BadAliasRejectedBeforeService(t *testing.T) {
	mockService := new(mocks.MockLinkService)
	h := NewLinkHandler(mockService, new(mocks.MockQRRenderer), testBaseURL)
	router := setupTestRouter()
	router.POST("/api/links", h.Create)

	req := httptest.NewRequest("POST", "/api/links",
		strings.NewReader(`{"destination": "https://example.com", "custom_alias": "a!"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestCreateLink_ConflictMapsTo400(t *testing.T) {
	mockService := new(mocks.MockLinkService)
	h := NewLinkHandler(mockService, new(mocks.MockQRRenderer), testBaseURL)
	router := setupTestRouter()
	router.POST("/api/links", h.Create)

	mockService.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &domain.ConflictError{Code: "taken"}).Once()

	req := httptest.NewRequest("POST", "/api/links",
		strings.NewReader(`{"destination": "https://example.com", "custom_alias": "taken"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateLink_CapacityMapsTo503(t *testing.T) {
	mockService := new(mocks.MockLinkService)
	h := NewLinkHandler(mockService, new(mocks.MockQRRenderer), testBaseURL)
	router := setupTestRouter()
	router.POST("/api/links", h.Create)

	mockService.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrCapacity).Once()

	req := httptest.NewRequest("POST", "/api/links", strings.NewReader(`{"destination": "https://example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetLink_NotFound(t *testing.T) {
	mockService := new(mocks.MockLinkService)
	h := NewLinkHandler(mockService, new(mocks.MockQRRenderer), testBaseURL)
	router := setupTestRouter()
	router.GET("/api/links/:id", asUser(42), h.Get)

	mockService.On("Get", mock.Anything, int64(9), int64(42)).
		Return(nil, domain.ErrNotFound).Once()

	req := httptest.NewRequest("GET", "/api/links/9", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLink_InvalidID(t *testing.T) {
	mockService := new(mocks.MockLinkService)
	h := NewLinkHandler(mockService, new(mocks.MockQRRenderer), testBaseURL)
	router := setupTestRouter()
	router.GET("/api/links/:id", asUser(42), h.Get)

	req := httptest.NewRequest("GET", "/api/links/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Get")
}

func TestUpdateLink_Success(t *testing.T) {
	mockService := new(mocks.MockLinkService)
	h := NewLinkHandler(mockService, new(mocks.MockQRRenderer), testBaseURL)
	router := setupTestRouter()
	router.PUT("/api/links/:id", asUser(42), h.Update)

	updated := &domain.Link{ID: 5, ShortCode: "abc123", Title: "Docs"}
	mockService.On("Update", mock.Anything, int64(5), int64(42), mock.MatchedBy(func(req *domain.UpdateLinkRequest) bool {
		return req.Title != nil && *req.Title == "Docs"
	})).Return(updated, nil).Once()

	req := httptest.NewRequest("PUT", "/api/links/5", strings.NewReader(`{"title": "Docs"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestDeleteLink_Success(t *testing.T) {
	mockService := new(mocks.MockLinkService)
	h := NewLinkHandler(mockService, new(mocks.MockQRRenderer), testBaseURL)
	router := setupTestRouter()
	router.DELETE("/api/links/:id", asUser(42), h.Delete)

	mockService.On("Delete", mock.Anything, int64(5), int64(42)).Return(nil).Once()

	req := httptest.NewRequest("DELETE", "/api/links/5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestQRCode_RendersPNG(t *testing.T) {
	mockService := new(mocks.MockLinkService)
	renderer := new(mocks.MockQRRenderer)
	h := NewLinkHandler(mockService, renderer, testBaseURL)
	router := setupTestRouter()
	router.GET("/api/links/:id/qr", asUser(42), h.QRCode)

	link := &domain.Link{ID: 5, ShortCode: "abc123"}
	mockService.On("Get", mock.Anything, int64(5), int64(42)).Return(link, nil).Once()
	renderer.On("RenderPNG", "http://sho.rt/abc123", 256).Return([]byte("png-bytes"), nil).Once()

	req := httptest.NewRequest("GET", "/api/links/5/qr", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", w.Body.String())
	renderer.AssertExpectations(t)
}
