package entitlements

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mentora/checkout/internal/middleware"
	"github.com/mentora/checkout/internal/models"
)

type fakeLister struct {
	user uuid.UUID
}

func (f *fakeLister) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.UserProduct, error) {
	f.user = userID
	return []*models.UserProduct{{ID: 1, UserID: userID, ProductType: models.ProductCourse, ProductID: 7}}, nil
}

func TestHandler_Mine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	repo := &fakeLister{}
	r := gin.New()
	r.GET("/me/products", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}, NewHandler(repo, nil).Mine)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me/products", nil))
	if w.Code != http.StatusOK || repo.user != userID {
		t.Fatalf("unexpected %d for %s", w.Code, repo.user)
	}
	if !strings.Contains(w.Body.String(), `"product_type":"course"`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestHandler_Mine_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me/products", NewHandler(&fakeLister{}, nil).Mine)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me/products", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
