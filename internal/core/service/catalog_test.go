package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/rl1809/food-delivery/internal/core/domain"
)

func TestRegister_HashesPassword(t *testing.T) {
	catalog := newTestCatalog()

	user, err := catalog.Register(Registration{Name: "John Doe", Email: "john@example.com", Password: "securepassword"})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if user.PasswordHash == "securepassword" || !strings.HasPrefix(user.PasswordHash, "$2") {
		t.Errorf("expected bcrypt hash, got %q", user.PasswordHash)
	}
	if user.CreatedAt.IsZero() {
		t.Error("expected creation timestamp")
	}
}

func TestRegister_Validation(t *testing.T) {
	catalog := newTestCatalog()

	for _, reg := range []Registration{
		{Name: "", Email: "john@example.com", Password: "securepassword"},
		{Name: "John", Email: "not-an-email", Password: "securepassword"},
		{Name: "John", Email: "john@example.com", Password: "short"},
	} {
		if _, err := catalog.Register(reg); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Register(%+v): expected ErrInvalidInput, got: %v", reg, err)
		}
	}
	if len(catalog.Users()) != 0 {
		t.Errorf("expected no users, got %d", len(catalog.Users()))
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	catalog := newTestCatalog()
	reg := Registration{Name: "John Doe", Email: "john@example.com", Password: "securepassword"}

	if _, err := catalog.Register(reg); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := catalog.Register(reg); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got: %v", err)
	}
}

func TestLogin(t *testing.T) {
	catalog := newTestCatalog()

	if _, err := catalog.Login("john@example.com", "securepassword"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput with no users, got: %v", err)
	}

	catalog.Register(Registration{Name: "John Doe", Email: "john@example.com", Password: "securepassword"})

	user, err := catalog.Login("john@example.com", "securepassword")
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if user.Name != "John Doe" {
		t.Errorf("expected John Doe, got %s", user.Name)
	}

	if _, err := catalog.Login("john@example.com", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got: %v", err)
	}
	if _, err := catalog.Login("jane@example.com", "securepassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got: %v", err)
	}
	if _, err := catalog.Login("", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty fields, got: %v", err)
	}
}

func TestLogin_UpgradesPlaintextPassword(t *testing.T) {
	catalog := newTestCatalog()
	catalog.Replace([]*domain.User{{Name: "Old Timer", Email: "old@example.com", PasswordHash: "hunter22"}}, nil)

	if _, err := catalog.Login("old@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got: %v", err)
	}

	user, err := catalog.Login("old@example.com", "hunter22")
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if !strings.HasPrefix(user.PasswordHash, "$2") {
		t.Errorf("expected password to be rehashed, got %q", user.PasswordHash)
	}

	if _, err := catalog.Login("old@example.com", "hunter22"); err != nil {
		t.Errorf("expected login with upgraded hash to succeed, got: %v", err)
	}
}

func TestRestaurantManagement(t *testing.T) {
	catalog := newTestCatalog()

	if _, err := catalog.AddRestaurant("Pizza Place", nil, true); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := catalog.AddRestaurant("Pizza Place", nil, true); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got: %v", err)
	}
	if _, err := catalog.AddRestaurant("", nil, true); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got: %v", err)
	}

	if err := catalog.UpdateMenu("Pizza Place", "lunch", domain.MenuItems{{Name: "Margherita", Price: 8.99}}); err != nil {
		t.Fatalf("update menu failed: %v", err)
	}
	if err := catalog.UpdateMenu("Pizza Place", "lunch", domain.MenuItems{{Name: "Free Lunch", Price: -1}}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for negative price, got: %v", err)
	}
	if err := catalog.UpdateMenu("Sushi Bar", "lunch", nil); !errors.Is(err, ErrRestaurantNotFound) {
		t.Errorf("expected ErrRestaurantNotFound, got: %v", err)
	}

	r, _ := catalog.Restaurant("Pizza Place")
	if price, ok := r.Menus.Price("Margherita"); !ok || price != 8.99 {
		t.Errorf("expected Margherita at 8.99, got %v (found=%v)", price, ok)
	}

	if err := catalog.RemoveMenu("Pizza Place", "breakfast"); !errors.Is(err, ErrMenuNotFound) {
		t.Errorf("expected ErrMenuNotFound, got: %v", err)
	}
	if err := catalog.RemoveMenu("Pizza Place", "lunch"); err != nil {
		t.Errorf("remove menu failed: %v", err)
	}

	if err := catalog.SetAvailability("Pizza Place", false); err != nil || r.Available {
		t.Errorf("expected restaurant closed, err %v", err)
	}

	if err := catalog.RemoveRestaurant("Pizza Place"); err != nil {
		t.Errorf("remove failed: %v", err)
	}
	if err := catalog.RemoveRestaurant("Pizza Place"); !errors.Is(err, ErrRestaurantNotFound) {
		t.Errorf("expected ErrRestaurantNotFound, got: %v", err)
	}
	if len(catalog.Restaurants()) != 0 {
		t.Errorf("expected no restaurants, got %d", len(catalog.Restaurants()))
	}
}
