// Package demo seeds an empty database with a deterministic, plausible
// bakery dataset: staff users, a product catalog, pickup locations and two
// years of order history with state trails.
package demo

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"bakery-system/internal/common/logger"
	"bakery-system/internal/domain"
	"bakery-system/internal/security"
)

// Seed is fixed so that every fresh database receives the same dataset.
const Seed int64 = 1

const yearsToInclude = 2

var fillings = []string{"Strawberry", "Chocolate", "Blueberry", "Raspberry", "Vanilla"}

var productTypes = []string{
	"Cake", "Pastry", "Tart", "Muffin", "Biscuit", "Bread",
	"Bagel", "Bun", "Brownie", "Cookie", "Cracker", "Cheese Cake",
}

var firstNames = []string{
	"Ori", "Amanda", "Octavia", "Laurel", "Lael", "Delilah", "Jason",
	"Skyler", "Arsenio", "Haley", "Lionel", "Sylvia", "Jessica", "Lester",
	"Ferdinand", "Elaine", "Griffin", "Kerry", "Dominique",
}

var lastNames = []string{
	"Carter", "Castro", "Rich", "Irwin", "Moore", "Hendricks", "Huber",
	"Patton", "Wilkinson", "Thornton", "Nunez", "Macias", "Gallegos",
	"Blevins", "Mejia", "Pickett", "Whitney", "Farmer", "Henry", "Chen",
	"Macias", "Rowland", "Pierce", "Cortez", "Noble", "Howard", "Nixon",
	"Mcbride", "Leblanc", "Russell", "Carver", "Benton", "Maldonado", "Lyons",
}

// Sinks are the persistence collaborators the generator writes through.
// Each Save assigns the entity's identity.
type UserSink interface {
	Save(ctx context.Context, u domain.User) (domain.User, error)
	Count(ctx context.Context) (int, error)
}

type ProductSink interface {
	Save(ctx context.Context, p domain.Product) (domain.Product, error)
}

type PickupLocationSink interface {
	Save(ctx context.Context, l domain.PickupLocation) (domain.PickupLocation, error)
}

type OrderSink interface {
	Save(ctx context.Context, o domain.Order) (domain.Order, error)
}

type Generator struct {
	rnd       *rand.Rand
	users     UserSink
	products  ProductSink
	locations PickupLocationSink
	orders    OrderSink
	encoder   security.Encoder
	lg        *logger.Logger
	today     time.Time
}

type Option func(*Generator)

// WithToday pins the generator's notion of "today" (date-truncated).
// Tests use it; production leaves the wall clock.
func WithToday(t time.Time) Option {
	return func(g *Generator) { g.today = midnight(t) }
}

func New(users UserSink, products ProductSink, locations PickupLocationSink,
	orders OrderSink, encoder security.Encoder, lg *logger.Logger, opts ...Option) *Generator {
	g := &Generator{
		rnd:       rand.New(rand.NewSource(Seed)),
		users:     users,
		products:  products,
		locations: locations,
		orders:    orders,
		encoder:   encoder,
		lg:        lg,
		today:     midnight(time.Now()),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Run seeds the database unless the user store already has records. Any
// sink failure aborts the run; there are no retries.
func (g *Generator) Run(ctx context.Context) error {
	n, err := g.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		g.lg.Info("using_existing_database", map[string]any{"users": n})
		return nil
	}

	g.lg.Info("generating_demo_data", nil)

	g.lg.Info("generating_users", nil)
	baker, err := g.createUser(ctx, "baker@vaadin.com", "Heidi", "Carter", "baker", domain.RoleBaker, false)
	if err != nil {
		return err
	}
	barista, err := g.createUser(ctx, "barista@vaadin.com", "Malin", "Castro", "barista", domain.RoleBarista, true)
	if err != nil {
		return err
	}
	if _, err := g.createUser(ctx, "admin@vaadin.com", "Göran", "Rich", "admin", domain.RoleAdmin, true); err != nil {
		return err
	}
	// Two users without orders, so the UI delete flow has something
	// safe to remove.
	if _, err := g.createUser(ctx, "peter@vaadin.com", "Peter", "Bush", "peter", domain.RoleBarista, false); err != nil {
		return err
	}
	if _, err := g.createUser(ctx, "mary@vaadin.com", "Mary", "Ocon", "mary", domain.RoleBaker, true); err != nil {
		return err
	}

	g.lg.Info("generating_products", nil)
	inUse, err := g.createProducts(ctx, 8)
	if err != nil {
		return err
	}
	// Orphan products, same deal as the deletable users.
	if _, err := g.createProducts(ctx, 4); err != nil {
		return err
	}

	g.lg.Info("generating_pickup_locations", nil)
	locations, err := g.createPickupLocations(ctx)
	if err != nil {
		return err
	}

	g.lg.Info("generating_orders", nil)
	if err := g.createOrders(ctx, inUse, locations, barista, baker); err != nil {
		return err
	}

	g.lg.Info("generated_demo_data", nil)
	return nil
}

func (g *Generator) createUser(ctx context.Context, email, first, last, password string, role domain.Role, locked bool) (domain.User, error) {
	hash, err := g.encoder.Encode(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password for %s: %w", email, err)
	}
	u, err := g.users.Save(ctx, domain.User{
		Email:        email,
		FirstName:    first,
		LastName:     last,
		PasswordHash: hash,
		Role:         role,
		Locked:       locked,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("save user %s: %w", email, err)
	}
	return u, nil
}

func (g *Generator) createProducts(ctx context.Context, count int) ([]domain.Product, error) {
	products := make([]domain.Product, 0, count)
	for i := 0; i < count; i++ {
		price := int((2.0 + g.rnd.Float64()*100.0) * 100.0)
		p, err := g.products.Save(ctx, domain.Product{
			Name:  g.randomProductName(),
			Price: price,
		})
		if err != nil {
			return nil, fmt.Errorf("save product: %w", err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (g *Generator) randomProductName() string {
	first := fillings[g.rnd.Intn(len(fillings))]
	name := first
	if g.rnd.Intn(2) == 0 {
		second := first
		for second == first {
			second = fillings[g.rnd.Intn(len(fillings))]
		}
		name = first + " " + second
	}
	return name + " " + productTypes[g.rnd.Intn(len(productTypes))]
}

// pickProduct draws from a clamped-normal distribution so products in the
// middle of the catalog come up more often than the ends.
func (g *Generator) pickProduct(products []domain.Product) domain.Product {
	const cutoff = 2.5
	v := g.rnd.NormFloat64()
	if v > cutoff {
		v = cutoff
	}
	if v < -cutoff {
		v = -cutoff
	}
	v = (v + cutoff) / (cutoff * 2.0)
	return products[int(v*float64(len(products)-1))]
}

func (g *Generator) createPickupLocations(ctx context.Context) ([]domain.PickupLocation, error) {
	var locations []domain.PickupLocation
	for _, name := range []string{"Store", "Bakery"} {
		l, err := g.locations.Save(ctx, domain.PickupLocation{Name: name})
		if err != nil {
			return nil, fmt.Errorf("save pickup location %s: %w", name, err)
		}
		locations = append(locations, l)
	}
	return locations, nil
}

func (g *Generator) createOrders(ctx context.Context, products []domain.Product,
	locations []domain.PickupLocation, barista, baker domain.User) error {
	now := g.today
	oldest := time.Date(now.Year()-yearsToInclude, time.January, 1, 0, 0, 0, 0, time.UTC)
	newest := now.AddDate(0, 1, 0)

	// A fixed anchor order for today: one item, only the "placed" entry,
	// due at 08:00. Makes the demo landing screen reproducible.
	anchor := g.createOrder(products, locations, barista, baker, now)
	anchor.DueTime = domain.TimeOfDay{Hour: 8}
	anchor.Items = anchor.Items[:1]
	anchor.History = anchor.History[:1]
	anchor.State = anchor.History[0].NewState
	if _, err := g.orders.Save(ctx, anchor); err != nil {
		return fmt.Errorf("save order: %w", err)
	}

	for due := oldest; due.Before(newest); due = due.AddDate(0, 0, 1) {
		// Slight upwards volume trend over the window. The multiplier
		// intentionally scales only the constant term; the shipped demo
		// data was produced with exactly this arithmetic.
		relativeMonth := (due.Year()-now.Year()+yearsToInclude)*12 + int(due.Month())
		multiplier := 1.0 + 0.03*float64(relativeMonth)
		ordersThisDay := int(float64(g.rnd.Intn(10)) + 1*multiplier)
		for i := 0; i < ordersThisDay; i++ {
			if _, err := g.orders.Save(ctx, g.createOrder(products, locations, barista, baker, due)); err != nil {
				return fmt.Errorf("save order: %w", err)
			}
		}
	}
	return nil
}

func (g *Generator) createOrder(products []domain.Product, locations []domain.PickupLocation,
	barista, baker domain.User, dueDate time.Time) domain.Order {
	order := domain.Order{Barista: barista, DueDate: dueDate}
	g.fillCustomer(&order.Customer)
	order.Location = locations[g.rnd.Intn(len(locations))]
	order.DueTime = domain.TimeOfDay{Hour: 8 + 4*g.rnd.Intn(3)}
	order.State = g.randomState(dueDate)

	itemCount := g.rnd.Intn(3)
	for i := 0; i <= itemCount; i++ {
		var product domain.Product
		for {
			product = g.pickProduct(products)
			if !containsProduct(order.Items, product) {
				break
			}
		}
		item := domain.OrderItem{Product: product, Quantity: g.rnd.Intn(10) + 1}
		if g.rnd.Intn(5) == 0 {
			if g.rnd.Intn(2) == 0 {
				item.Comment = "Lactose free"
			} else {
				item.Comment = "Gluten free"
			}
		}
		order.Items = append(order.Items, item)
	}

	order.History = g.createOrderHistory(&order, barista, baker)
	return order
}

func containsProduct(items []domain.OrderItem, p domain.Product) bool {
	for _, item := range items {
		if item.Product.ID == p.ID {
			return true
		}
	}
	return false
}

func (g *Generator) fillCustomer(c *domain.Customer) {
	first := firstNames[g.rnd.Intn(len(firstNames))]
	last := lastNames[g.rnd.Intn(len(lastNames))]
	c.FullName = first + " " + last
	c.PhoneNumber = fmt.Sprintf("+1-555-%04d", g.rnd.Intn(10000))
	if g.rnd.Intn(10) == 0 {
		c.Details = "Very important customer"
	}
}

// randomState picks the order's current state from its due date relative
// to today. Draw order matters for determinism: thresholds are compared
// against a single uniform variate per branch.
func (g *Generator) randomState(due time.Time) domain.OrderState {
	today := g.today
	tomorrow := today.AddDate(0, 0, 1)
	twoDays := today.AddDate(0, 0, 2)

	if due.Before(today) {
		if g.rnd.Float64() < 0.9 {
			return domain.StateDelivered
		}
		return domain.StateCancelled
	}
	if due.After(twoDays) {
		return domain.StateNew
	}
	if due.After(tomorrow) {
		// due in 1-2 days
		switch resolution := g.rnd.Float64(); {
		case resolution < 0.8:
			return domain.StateNew
		case resolution < 0.9:
			return domain.StateProblem
		default:
			return domain.StateCancelled
		}
	}
	switch resolution := g.rnd.Float64(); {
	case resolution < 0.6:
		return domain.StateReady
	case resolution < 0.8:
		return domain.StateDelivered
	case resolution < 0.9:
		return domain.StateProblem
	default:
		return domain.StateCancelled
	}
}

// createOrderHistory synthesizes a trail narrating how the order reached
// its assigned state. The barista places and cancels, the baker does the
// rest. Individual draws can produce entries slightly out of wall-clock
// order; that matches the shipped demo data and is left alone.
func (g *Generator) createOrderHistory(order *domain.Order, barista, baker domain.User) []domain.HistoryItem {
	placed := order.DueDate.AddDate(0, 0, -(g.rnd.Intn(5) + 2)).
		Add(time.Duration(g.rnd.Intn(10)+7) * time.Hour)

	history := []domain.HistoryItem{{
		ActorID:   barista.ID,
		ActorName: barista.FullName(),
		Message:   "Order placed",
		NewState:  domain.StateNew,
		Timestamp: placed,
	}}

	switch order.State {
	case domain.StateCancelled:
		// Cancelled somewhere between placement and the due time. A
		// non-positive span contributes a zero offset.
		span := int(order.DueAt().Sub(placed).Hours() / 24)
		var offset int
		if span > 0 {
			offset = g.rnd.Intn(span)
		}
		history = append(history, domain.HistoryItem{
			ActorID:   barista.ID,
			ActorName: barista.FullName(),
			Message:   "Order cancelled",
			NewState:  domain.StateCancelled,
			Timestamp: placed.AddDate(0, 0, offset),
		})

	case domain.StateConfirmed, domain.StateDelivered, domain.StateProblem, domain.StateReady:
		confirmed := placed.AddDate(0, 0, g.rnd.Intn(2)).Add(time.Duration(g.rnd.Intn(5)) * time.Hour)
		history = append(history, domain.HistoryItem{
			ActorID:   baker.ID,
			ActorName: baker.FullName(),
			Message:   "Order confirmed",
			NewState:  domain.StateConfirmed,
			Timestamp: confirmed,
		})

		switch order.State {
		case domain.StateProblem:
			history = append(history, domain.HistoryItem{
				ActorID:   baker.ID,
				ActorName: baker.FullName(),
				Message:   "Can't make it. Did not get any ingredients this morning",
				NewState:  domain.StateProblem,
				Timestamp: order.DueDate.Add(time.Duration(g.rnd.Intn(4)+4) * time.Hour),
			})
		case domain.StateReady, domain.StateDelivered:
			readyAt := domain.TimeOfDay{Hour: g.rnd.Intn(2) + 8}
			if g.rnd.Intn(2) != 0 {
				readyAt.Minute = 30
			}
			history = append(history, domain.HistoryItem{
				ActorID:   baker.ID,
				ActorName: baker.FullName(),
				Message:   "Order ready for pickup",
				NewState:  domain.StateReady,
				Timestamp: readyAt.On(order.DueDate),
			})
			if order.State == domain.StateDelivered {
				deliveredAt := order.DueTime.AddMinutes(-g.rnd.Intn(120))
				history = append(history, domain.HistoryItem{
					ActorID:   baker.ID,
					ActorName: baker.FullName(),
					Message:   "Order delivered",
					NewState:  domain.StateDelivered,
					Timestamp: deliveredAt.On(order.DueDate),
				})
			}
		}
	}

	return history
}
