package service_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bakery-system/internal/app/web/service"
	"bakery-system/internal/common/logger"
	"bakery-system/internal/domain"
	"bakery-system/internal/repository"
)

type MockUsers struct{ mock.Mock }

func (m *MockUsers) Save(ctx context.Context, u domain.User) (domain.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUsers) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUsers) GetByID(ctx context.Context, id int) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUsers) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUsers) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MockOrders struct{ mock.Mock }

func (m *MockOrders) Save(ctx context.Context, o domain.Order) (domain.Order, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrders) GetByID(ctx context.Context, id int) (domain.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrders) List(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrders) ChangeStatus(ctx context.Context, orderID, actorID int, state domain.OrderState, message string, at time.Time) error {
	return m.Called(ctx, orderID, actorID, state, message, at).Error(0)
}

func (m *MockOrders) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishStatusChanged(ctx context.Context, evt domain.OrderStatusChanged) error {
	return m.Called(ctx, evt).Error(0)
}

type fakeEncoder struct{}

func (fakeEncoder) Encode(pw string) (string, error) { return "hashed:" + pw, nil }
func (fakeEncoder) Matches(pw, hash string) bool     { return "hashed:"+pw == hash }

func testLogger() *logger.Logger { return logger.NewWithOutput("web", &bytes.Buffer{}) }

func TestChangeOrderStatusPublishesEvent(t *testing.T) {
	users := new(MockUsers)
	orders := new(MockOrders)
	publisher := new(MockPublisher)

	baker := domain.User{ID: 1, FirstName: "Heidi", LastName: "Carter", Role: domain.RoleBaker}
	updated := domain.Order{ID: 42, State: domain.StateReady}

	users.On("GetByID", mock.Anything, 1).Return(baker, nil)
	orders.On("ChangeStatus", mock.Anything, 42, 1, domain.StateReady,
		"Order ready for pickup", mock.AnythingOfType("time.Time")).Return(nil)
	orders.On("GetByID", mock.Anything, 42).Return(updated, nil)
	publisher.On("PublishStatusChanged", mock.Anything,
		mock.AnythingOfType("domain.OrderStatusChanged")).Return(nil)

	svc := service.New(users, nil, nil, orders, fakeEncoder{}, publisher, testLogger())
	got, err := svc.ChangeOrderStatus(context.Background(), 42, domain.ChangeStatusRequest{
		ActorID: 1,
		State:   domain.StateReady,
		Message: "Order ready for pickup",
	})

	require.NoError(t, err)
	assert.Equal(t, updated, got)
	publisher.AssertNumberOfCalls(t, "PublishStatusChanged", 1)
	evt := publisher.Calls[0].Arguments.Get(1).(domain.OrderStatusChanged)
	assert.Equal(t, 42, evt.OrderID)
	assert.Equal(t, domain.StateReady, evt.State)
	assert.Equal(t, "Heidi Carter", evt.ChangedBy)
	orders.AssertExpectations(t)
}

func TestChangeOrderStatusRejectsInvalidState(t *testing.T) {
	users := new(MockUsers)
	orders := new(MockOrders)
	publisher := new(MockPublisher)

	svc := service.New(users, nil, nil, orders, fakeEncoder{}, publisher, testLogger())
	_, err := svc.ChangeOrderStatus(context.Background(), 42, domain.ChangeStatusRequest{
		ActorID: 1,
		State:   domain.OrderState("LOST"),
	})

	require.Error(t, err)
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)
	orders.AssertNotCalled(t, "ChangeStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishStatusChanged", mock.Anything, mock.Anything)
}

func TestCreateUserHashesPassword(t *testing.T) {
	users := new(MockUsers)

	users.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.PasswordHash == "hashed:s3cret" && u.Role == domain.RoleBarista
	})).Return(domain.User{ID: 7, Email: "new@vaadin.com"}, nil)

	svc := service.New(users, nil, nil, nil, fakeEncoder{}, nil, testLogger())
	u, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:     "new@vaadin.com",
		FirstName: "New",
		LastName:  "Barista",
		Password:  "s3cret",
		Role:      domain.RoleBarista,
	})

	require.NoError(t, err)
	assert.Equal(t, 7, u.ID)
	users.AssertExpectations(t)
}

func TestCreateUserRejectsBadRole(t *testing.T) {
	users := new(MockUsers)
	svc := service.New(users, nil, nil, nil, fakeEncoder{}, nil, testLogger())

	_, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:     "x@vaadin.com",
		FirstName: "X",
		LastName:  "Y",
		Password:  "pw",
		Role:      domain.Role("JANITOR"),
	})

	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)
	users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
