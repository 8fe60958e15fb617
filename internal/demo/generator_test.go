package demo

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakery-system/internal/common/logger"
	"bakery-system/internal/domain"
)

// memSinks collects everything the generator writes, assigning sequential
// identities the way the database would.
type memSinks struct {
	users     []domain.User
	products  []domain.Product
	locations []domain.PickupLocation
	orders    []domain.Order
	saves     int
}

func (m *memSinks) Save(ctx context.Context, u domain.User) (domain.User, error) {
	m.saves++
	u.ID = len(m.users) + 1
	m.users = append(m.users, u)
	return u, nil
}

func (m *memSinks) Count(ctx context.Context) (int, error) { return len(m.users), nil }

type productSink struct{ m *memSinks }

func (s productSink) Save(ctx context.Context, p domain.Product) (domain.Product, error) {
	s.m.saves++
	p.ID = len(s.m.products) + 1
	s.m.products = append(s.m.products, p)
	return p, nil
}

type locationSink struct{ m *memSinks }

func (s locationSink) Save(ctx context.Context, l domain.PickupLocation) (domain.PickupLocation, error) {
	s.m.saves++
	l.ID = len(s.m.locations) + 1
	s.m.locations = append(s.m.locations, l)
	return l, nil
}

type orderSink struct{ m *memSinks }

func (s orderSink) Save(ctx context.Context, o domain.Order) (domain.Order, error) {
	s.m.saves++
	o.ID = len(s.m.orders) + 1
	s.m.orders = append(s.m.orders, o)
	return o, nil
}

type failingProductSink struct{}

func (failingProductSink) Save(ctx context.Context, p domain.Product) (domain.Product, error) {
	return domain.Product{}, errors.New("boom")
}

// plainEncoder keeps test output deterministic; bcrypt salts would not be.
type plainEncoder struct{}

func (plainEncoder) Encode(pw string) (string, error) { return "hashed:" + pw, nil }
func (plainEncoder) Matches(pw, hash string) bool     { return "hashed:"+pw == hash }

var testToday = time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC)

func testLogger() *logger.Logger {
	return logger.NewWithOutput("demo-data", &bytes.Buffer{})
}

func newTestGenerator(today time.Time) (*Generator, *memSinks) {
	m := &memSinks{}
	g := New(m, productSink{m}, locationSink{m}, orderSink{m},
		plainEncoder{}, testLogger(), WithToday(today))
	return g, m
}

func seeded(t *testing.T) *memSinks {
	t.Helper()
	g, m := newTestGenerator(testToday)
	require.NoError(t, g.Run(context.Background()))
	return m
}

func TestRunSkipsNonEmptyDatabase(t *testing.T) {
	m := &memSinks{users: []domain.User{{ID: 1, Email: "existing@vaadin.com"}}}
	g := New(m, productSink{m}, locationSink{m}, orderSink{m},
		plainEncoder{}, testLogger(), WithToday(testToday))

	require.NoError(t, g.Run(context.Background()))

	assert.Zero(t, m.saves, "seeding a non-empty database must perform zero writes")
	assert.Empty(t, m.products)
	assert.Empty(t, m.orders)
}

func TestRunSeedsBaseEntities(t *testing.T) {
	m := seeded(t)

	require.Len(t, m.users, 5)
	byEmail := map[string]domain.User{}
	for _, u := range m.users {
		byEmail[u.Email] = u
	}
	baker := byEmail["baker@vaadin.com"]
	assert.Equal(t, "Heidi", baker.FirstName)
	assert.Equal(t, domain.RoleBaker, baker.Role)
	assert.False(t, baker.Locked)
	assert.Equal(t, "hashed:baker", baker.PasswordHash)

	barista := byEmail["barista@vaadin.com"]
	assert.Equal(t, domain.RoleBarista, barista.Role)
	assert.True(t, barista.Locked)

	assert.Equal(t, domain.RoleAdmin, byEmail["admin@vaadin.com"].Role)
	assert.Equal(t, domain.RoleBarista, byEmail["peter@vaadin.com"].Role)
	assert.Equal(t, domain.RoleBaker, byEmail["mary@vaadin.com"].Role)

	require.Len(t, m.products, 12)
	for _, p := range m.products {
		assert.GreaterOrEqual(t, p.Price, 200)
		assert.Less(t, p.Price, 10200)
		assert.NotEmpty(t, p.Name)
	}

	require.Len(t, m.locations, 2)
	assert.Equal(t, "Store", m.locations[0].Name)
	assert.Equal(t, "Bakery", m.locations[1].Name)

	assert.NotEmpty(t, m.orders)
}

func TestOrdersReferenceOnlyTheInUsePool(t *testing.T) {
	m := seeded(t)
	for _, o := range m.orders {
		for _, it := range o.Items {
			// only the first 8 products ever appear on orders
			assert.LessOrEqual(t, it.Product.ID, 8)
		}
	}
}

func TestGeneratedOrderInvariants(t *testing.T) {
	m := seeded(t)
	for _, o := range m.orders {
		require.NotEmpty(t, o.Items, "order %d has no items", o.ID)
		assert.LessOrEqual(t, len(o.Items), 3)

		seen := map[int]bool{}
		for _, it := range o.Items {
			assert.GreaterOrEqual(t, it.Quantity, 1)
			assert.LessOrEqual(t, it.Quantity, 10)
			assert.False(t, seen[it.Product.ID], "order %d repeats product %d", o.ID, it.Product.ID)
			seen[it.Product.ID] = true
			if it.Comment != "" {
				assert.Contains(t, []string{"Lactose free", "Gluten free"}, it.Comment)
			}
		}

		require.NotEmpty(t, o.History)
		assert.Equal(t, o.State, o.History[len(o.History)-1].NewState,
			"order %d: final history state must match order state", o.ID)
		assert.Contains(t, []int{8, 12, 16}, o.DueTime.Hour)
		assert.Zero(t, o.DueTime.Minute)
	}
}

func TestHistoryNarrativePerState(t *testing.T) {
	m := seeded(t)

	messages := func(o domain.Order) []string {
		out := make([]string, len(o.History))
		for i, h := range o.History {
			out[i] = h.Message
		}
		return out
	}

	// m.orders[0] is the truncated anchor; the narrative applies to the rest.
	for _, o := range m.orders[1:] {
		switch o.State {
		case domain.StateNew:
			assert.Equal(t, []string{"Order placed"}, messages(o))
		case domain.StateCancelled:
			assert.Equal(t, []string{"Order placed", "Order cancelled"}, messages(o))
		case domain.StateProblem:
			assert.Equal(t, []string{"Order placed", "Order confirmed",
				"Can't make it. Did not get any ingredients this morning"}, messages(o))
		case domain.StateReady:
			assert.Equal(t, []string{"Order placed", "Order confirmed", "Order ready for pickup"}, messages(o))
		case domain.StateDelivered:
			assert.Equal(t, []string{"Order placed", "Order confirmed",
				"Order ready for pickup", "Order delivered"}, messages(o))
		default:
			t.Fatalf("order %d has unexpected state %s", o.ID, o.State)
		}
	}
}

func TestPastDueOrdersAreClosed(t *testing.T) {
	m := seeded(t)
	for _, o := range m.orders {
		if o.DueDate.Before(testToday) {
			assert.Contains(t, []domain.OrderState{domain.StateDelivered, domain.StateCancelled}, o.State)
		}
	}
}

func TestAnchorOrderShape(t *testing.T) {
	m := seeded(t)
	anchor := m.orders[0]

	assert.True(t, anchor.DueDate.Equal(testToday))
	assert.Equal(t, domain.TimeOfDay{Hour: 8}, anchor.DueTime)
	assert.Len(t, anchor.Items, 1)
	require.Len(t, anchor.History, 1)
	assert.Equal(t, domain.StateNew, anchor.State)
	assert.Equal(t, "Order placed", anchor.History[0].Message)
}

func TestDeterministicAcrossRuns(t *testing.T) {
	g1, m1 := newTestGenerator(testToday)
	require.NoError(t, g1.Run(context.Background()))

	g2, m2 := newTestGenerator(testToday)
	require.NoError(t, g2.Run(context.Background()))

	assert.Equal(t, m1.users, m2.users)
	assert.Equal(t, m1.products, m2.products)
	assert.Equal(t, m1.locations, m2.locations)
	assert.Equal(t, m1.orders, m2.orders)
}

func TestRandomStateFarFutureIsAlwaysNew(t *testing.T) {
	g, _ := newTestGenerator(testToday)
	due := testToday.AddDate(0, 0, 10)
	for i := 0; i < 100; i++ {
		assert.Equal(t, domain.StateNew, g.randomState(due))
	}
}

func TestRandomStatePastDueDistribution(t *testing.T) {
	g, _ := newTestGenerator(testToday)
	due := testToday.AddDate(0, 0, -1)

	delivered := 0
	const trials = 1000
	for i := 0; i < trials; i++ {
		switch g.randomState(due) {
		case domain.StateDelivered:
			delivered++
		case domain.StateCancelled:
		default:
			t.Fatal("past-due orders must be DELIVERED or CANCELLED")
		}
	}
	fraction := float64(delivered) / trials
	assert.GreaterOrEqual(t, fraction, 0.85)
	assert.LessOrEqual(t, fraction, 0.95)
}

func TestPickProductFavorsTheMiddle(t *testing.T) {
	g, _ := newTestGenerator(testToday)
	pool := make([]domain.Product, 8)
	for i := range pool {
		pool[i].ID = i + 1
	}

	counts := make(map[int]int)
	for i := 0; i < 10000; i++ {
		counts[g.pickProduct(pool).ID]++
	}
	assert.Greater(t, counts[4], counts[1])
	assert.Greater(t, counts[4], counts[8])
}

func TestRunAbortsOnSinkFailure(t *testing.T) {
	m := &memSinks{}
	g := New(m, failingProductSink{}, locationSink{m}, orderSink{m},
		plainEncoder{}, testLogger(), WithToday(testToday))

	err := g.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save product")
	assert.Empty(t, m.orders, "no orders may be written after a failed dependency")
}
