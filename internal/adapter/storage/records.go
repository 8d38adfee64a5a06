package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rl1809/food-delivery/internal/core/domain"
)

const (
	usersCollection       = "users"
	restaurantsCollection = "restaurants"
	ordersCollection      = "orders"
	driversCollection     = "drivers"
)

// blobStore holds one JSON document per collection. read returns nil, nil
// when the collection has never been written.
type blobStore interface {
	read(ctx context.Context, name string) ([]byte, error)
	write(ctx context.Context, name string, data []byte) error
}

// collections implements port.RecordStore on top of a blobStore.
type collections struct {
	blobs  blobStore
	logger zerolog.Logger
}

type userRecord struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	CreatedAt string `json:"created_at"`
}

type restaurantRecord struct {
	Name         string      `json:"name"`
	Menus        domain.Menu `json:"menus"`
	Availability bool        `json:"availability"`
}

type orderRecord struct {
	ID             string            `json:"id"`
	UserEmail      string            `json:"user_email"`
	RestaurantName string            `json:"restaurant_name"`
	Items          domain.OrderLines `json:"items"`
	Status         string            `json:"status"`
	DriverEmail    *string           `json:"driver_email"`
	CreatedAt      string            `json:"created_at,omitempty"`
	OrderAt        string            `json:"orderAt,omitempty"` // older files
}

type driverRecord struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Orders    orderRefs `json:"orders"`
	Available bool      `json:"available"`
}

// orderRefs accepts plain order IDs or embedded order objects that carry an
// id. Embedded orders without one cannot be resolved and are dropped.
type orderRefs []string

func (r *orderRefs) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(orderRefs, 0, len(raws))
	for _, raw := range raws {
		var id string
		if err := json.Unmarshal(raw, &id); err == nil {
			out = append(out, id)
			continue
		}
		var embedded struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &embedded); err != nil {
			return fmt.Errorf("order reference: %w", err)
		}
		if embedded.ID != "" {
			out = append(out, embedded.ID)
		}
	}
	*r = out
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toUserRecord(u *domain.User) userRecord {
	return userRecord{
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.PasswordHash,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func fromUserRecord(r userRecord) (*domain.User, error) {
	if r.Email == "" {
		return nil, errors.New("user without email")
	}
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &domain.User{Name: r.Name, Email: r.Email, PasswordHash: r.Password, CreatedAt: createdAt}, nil
}

func toRestaurantRecord(r *domain.Restaurant) restaurantRecord {
	return restaurantRecord{Name: r.Name, Menus: r.Menus, Availability: r.Available}
}

func fromRestaurantRecord(r restaurantRecord) (*domain.Restaurant, error) {
	if r.Name == "" {
		return nil, errors.New("restaurant without name")
	}
	return &domain.Restaurant{Name: r.Name, Menus: r.Menus, Available: r.Availability}, nil
}

func toOrderRecord(o *domain.Order) orderRecord {
	rec := orderRecord{
		ID:             o.ID,
		UserEmail:      o.UserEmail,
		RestaurantName: o.RestaurantName,
		Items:          o.Items,
		Status:         string(o.Status),
		CreatedAt:      formatTime(o.CreatedAt),
	}
	if o.DriverEmail != "" {
		driver := o.DriverEmail
		rec.DriverEmail = &driver
	}
	return rec
}

func fromOrderRecord(r orderRecord) (*domain.Order, error) {
	status, err := domain.ParseOrderStatus(r.Status)
	if err != nil {
		return nil, err
	}
	stamp := r.CreatedAt
	if stamp == "" {
		stamp = r.OrderAt
	}
	createdAt, err := parseTime(stamp)
	if err != nil {
		return nil, err
	}
	id := r.ID
	if id == "" {
		id = uuid.New().String()
	}
	order := &domain.Order{
		ID:             id,
		UserEmail:      r.UserEmail,
		RestaurantName: r.RestaurantName,
		Items:          r.Items,
		Status:         status,
		CreatedAt:      createdAt,
	}
	if r.DriverEmail != nil {
		order.DriverEmail = *r.DriverEmail
	}
	return order, nil
}

func toDriverRecord(d *domain.Driver) driverRecord {
	return driverRecord{
		Name:      d.Name,
		Email:     d.Email,
		Orders:    append(make(orderRefs, 0, len(d.Orders)), d.Orders...),
		Available: d.Available,
	}
}

func fromDriverRecord(r driverRecord) (*domain.Driver, error) {
	if r.Email == "" {
		return nil, errors.New("driver without email")
	}
	return &domain.Driver{
		Name:      r.Name,
		Email:     r.Email,
		Orders:    append([]string(nil), r.Orders...),
		Available: r.Available,
	}, nil
}

// decodeCollection never fails: an unreadable document loads as empty and an
// unreadable record is skipped, both with a warning.
func decodeCollection[R, T any](logger zerolog.Logger, name string, data []byte, convert func(R) (T, error)) []T {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		logger.Warn().Err(err).Str("collection", name).Msg("malformed collection, loading empty")
		return nil
	}
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		var rec R
		if err := json.Unmarshal(raw, &rec); err != nil {
			logger.Warn().Err(err).Str("collection", name).Int("index", i).Msg("skipping malformed record")
			continue
		}
		v, err := convert(rec)
		if err != nil {
			logger.Warn().Err(err).Str("collection", name).Int("index", i).Msg("skipping invalid record")
			continue
		}
		out = append(out, v)
	}
	return out
}

func encodeCollection[T, R any](items []T, convert func(T) R) ([]byte, error) {
	recs := make([]R, 0, len(items))
	for _, it := range items {
		recs = append(recs, convert(it))
	}
	return json.MarshalIndent(recs, "", "    ")
}

func load[R, T any](ctx context.Context, c *collections, name string, convert func(R) (T, error)) ([]T, error) {
	data, err := c.blobs.read(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if data == nil {
		c.logger.Debug().Str("collection", name).Msg("no saved collection")
		return nil, nil
	}
	items := decodeCollection(c.logger, name, data, convert)
	c.logger.Info().Str("collection", name).Int("count", len(items)).Msg("loaded collection")
	return items, nil
}

func save[T, R any](ctx context.Context, c *collections, name string, items []T, convert func(T) R) error {
	data, err := encodeCollection(items, convert)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := c.blobs.write(ctx, name, data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (c *collections) LoadUsers(ctx context.Context) ([]*domain.User, error) {
	return load(ctx, c, usersCollection, fromUserRecord)
}

func (c *collections) SaveUsers(ctx context.Context, users []*domain.User) error {
	return save(ctx, c, usersCollection, users, toUserRecord)
}

func (c *collections) LoadRestaurants(ctx context.Context) ([]*domain.Restaurant, error) {
	return load(ctx, c, restaurantsCollection, fromRestaurantRecord)
}

func (c *collections) SaveRestaurants(ctx context.Context, restaurants []*domain.Restaurant) error {
	return save(ctx, c, restaurantsCollection, restaurants, toRestaurantRecord)
}

func (c *collections) LoadOrders(ctx context.Context) ([]*domain.Order, error) {
	return load(ctx, c, ordersCollection, fromOrderRecord)
}

func (c *collections) SaveOrders(ctx context.Context, orders []*domain.Order) error {
	return save(ctx, c, ordersCollection, orders, toOrderRecord)
}

func (c *collections) LoadDrivers(ctx context.Context) ([]*domain.Driver, error) {
	return load(ctx, c, driversCollection, fromDriverRecord)
}

func (c *collections) SaveDrivers(ctx context.Context, drivers []*domain.Driver) error {
	return save(ctx, c, driversCollection, drivers, toDriverRecord)
}
