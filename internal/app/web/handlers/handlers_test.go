package handlers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bakery-system/internal/app/web/handlers"
	"bakery-system/internal/app/web/service"
	"bakery-system/internal/common/logger"
	"bakery-system/internal/domain"
	"bakery-system/internal/repository"
)

type stubOrders struct{ mock.Mock }

func (m *stubOrders) Save(ctx context.Context, o domain.Order) (domain.Order, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *stubOrders) GetByID(ctx context.Context, id int) (domain.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *stubOrders) List(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *stubOrders) ChangeStatus(ctx context.Context, orderID, actorID int, state domain.OrderState, message string, at time.Time) error {
	return m.Called(ctx, orderID, actorID, state, message, at).Error(0)
}

func (m *stubOrders) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newRouter(orders repository.Orders) http.Handler {
	lg := logger.NewWithOutput("web", &bytes.Buffer{})
	svc := service.New(nil, nil, nil, orders, nil, nil, lg)
	return handlers.New(svc, lg).Router()
}

func TestGetOrderNotFound(t *testing.T) {
	orders := new(stubOrders)
	orders.On("GetByID", mock.Anything, 9).Return(domain.Order{}, repository.ErrNotFound)

	rec := httptest.NewRecorder()
	newRouter(orders).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/9", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestGetOrderInvalidID(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(new(stubOrders)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeOrderStatusBadJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders/1/status", strings.NewReader("{"))
	newRouter(new(stubOrders)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrdersInvalidDateFilter(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders?from=June-12", nil)
	newRouter(new(stubOrders)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDIsKept(t *testing.T) {
	orders := new(stubOrders)
	orders.On("List", mock.Anything, mock.AnythingOfType("repository.OrderFilter")).
		Return([]domain.Order{}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	newRouter(orders).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
}
