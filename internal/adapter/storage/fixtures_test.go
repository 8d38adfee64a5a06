package storage

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/rl1809/food-delivery/internal/core/domain"
	"github.com/rl1809/food-delivery/internal/port"
)

var createdAt = time.Date(2026, 10, 14, 9, 30, 15, 0, time.UTC)

func sampleUsers() []*domain.User {
	return []*domain.User{
		{Name: "John Doe", Email: "john@example.com", PasswordHash: "$2a$10$abcdefghijklmnopqrstuv", CreatedAt: createdAt},
		{Name: "Jane Doe", Email: "jane@example.com", PasswordHash: "$2a$10$zyxwvutsrqponmlkjihgfe", CreatedAt: createdAt.Add(time.Hour)},
	}
}

func sampleRestaurants() []*domain.Restaurant {
	return []*domain.Restaurant{
		{
			Name: "Pizza Place",
			Menus: domain.Menu{
				{Name: "lunch", Items: domain.MenuItems{{Name: "Margherita", Price: 8.99}, {Name: "Pepperoni", Price: 9.99}}},
				{Name: "dinner", Items: domain.MenuItems{{Name: "Veggie", Price: 7.99}, {Name: "Meat Feast", Price: 12.99}}},
			},
			Available: true,
		},
		{Name: "Burger Joint", Available: false},
	}
}

func sampleOrders() []*domain.Order {
	return []*domain.Order{
		{
			ID:             "order-a",
			UserEmail:      "john@example.com",
			RestaurantName: "Pizza Place",
			Items:          domain.OrderLines{{Item: "Margherita", Quantity: 2}, {Item: "Pepperoni", Quantity: 1}},
			Status:         domain.OrderStatusAssigned,
			DriverEmail:    "driver@example.com",
			CreatedAt:      createdAt,
		},
		{
			ID:             "order-b",
			UserEmail:      "jane@example.com",
			RestaurantName: "Pizza Place",
			Items:          domain.OrderLines{{Item: "Veggie", Quantity: 1}},
			Status:         domain.OrderStatusPending,
			CreatedAt:      createdAt.Add(time.Minute),
		},
	}
}

func sampleDrivers() []*domain.Driver {
	return []*domain.Driver{
		{Name: "Dan", Email: "driver@example.com", Orders: []string{"order-a"}, Available: false},
		{Name: "Dora", Email: "dora@example.com", Available: true},
	}
}

// assertRoundTrip saves every sample collection and expects to load it back unchanged.
func assertRoundTrip(t *testing.T, store port.RecordStore) {
	t.Helper()
	ctx := context.Background()

	if err := store.SaveUsers(ctx, sampleUsers()); err != nil {
		t.Fatalf("save users: %v", err)
	}
	if err := store.SaveRestaurants(ctx, sampleRestaurants()); err != nil {
		t.Fatalf("save restaurants: %v", err)
	}
	if err := store.SaveOrders(ctx, sampleOrders()); err != nil {
		t.Fatalf("save orders: %v", err)
	}
	if err := store.SaveDrivers(ctx, sampleDrivers()); err != nil {
		t.Fatalf("save drivers: %v", err)
	}

	users, err := store.LoadUsers(ctx)
	if err != nil {
		t.Fatalf("load users: %v", err)
	}
	if !reflect.DeepEqual(users, sampleUsers()) {
		t.Errorf("users round trip mismatch:\n got %+v\nwant %+v", users, sampleUsers())
	}

	restaurants, err := store.LoadRestaurants(ctx)
	if err != nil {
		t.Fatalf("load restaurants: %v", err)
	}
	if !reflect.DeepEqual(restaurants, sampleRestaurants()) {
		t.Errorf("restaurants round trip mismatch:\n got %+v\nwant %+v", restaurants, sampleRestaurants())
	}

	orders, err := store.LoadOrders(ctx)
	if err != nil {
		t.Fatalf("load orders: %v", err)
	}
	if !reflect.DeepEqual(orders, sampleOrders()) {
		t.Errorf("orders round trip mismatch:\n got %+v\nwant %+v", orders, sampleOrders())
	}

	drivers, err := store.LoadDrivers(ctx)
	if err != nil {
		t.Fatalf("load drivers: %v", err)
	}
	if !reflect.DeepEqual(drivers, sampleDrivers()) {
		t.Errorf("drivers round trip mismatch:\n got %+v\nwant %+v", drivers, sampleDrivers())
	}
}
