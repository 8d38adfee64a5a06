package service

import (
	"crypto/subtle"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rl1809/food-delivery/internal/core/domain"
)

// Registration is the input of Catalog.Register.
type Registration struct {
	Name     string `validate:"required,min=2,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Catalog is the directory of users and restaurants. It is not safe for
// concurrent use; Marketplace serializes access.
type Catalog struct {
	users       []*domain.User
	restaurants []*domain.Restaurant
	validate    *validator.Validate
	hashCost    int
	logger      zerolog.Logger
}

func NewCatalog(logger zerolog.Logger) *Catalog {
	return &Catalog{
		validate: validator.New(),
		hashCost: bcrypt.DefaultCost,
		logger:   logger.With().Str("component", "catalog").Logger(),
	}
}

// Replace swaps in loaded collections.
func (c *Catalog) Replace(users []*domain.User, restaurants []*domain.Restaurant) {
	c.users = users
	c.restaurants = restaurants
}

func (c *Catalog) Register(reg Registration) (*domain.User, error) {
	if err := c.validate.Struct(reg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := c.User(reg.Email); err == nil {
		return nil, fmt.Errorf("user %s %w", reg.Email, ErrDuplicate)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), c.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: string(hash),
		CreatedAt:    domain.Now(),
	}
	c.users = append(c.users, user)
	c.logger.Info().Str("email", user.Email).Msg("user registered")
	return user, nil
}

// Login checks the password against the stored bcrypt hash. A stored value
// that is not a bcrypt hash comes from an older plaintext file; it is compared
// directly and upgraded to a hash on success.
func (c *Catalog) Login(email, password string) (*domain.User, error) {
	if len(c.users) == 0 {
		return nil, fmt.Errorf("%w: no users registered", ErrInvalidInput)
	}
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := c.User(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if _, err := bcrypt.Cost([]byte(user.PasswordHash)); err != nil {
		if subtle.ConstantTimeCompare([]byte(user.PasswordHash), []byte(password)) != 1 {
			return nil, ErrInvalidCredentials
		}
		if hash, err := bcrypt.GenerateFromPassword([]byte(password), c.hashCost); err == nil {
			user.PasswordHash = string(hash)
			c.logger.Info().Str("email", email).Msg("upgraded plaintext password")
		}
		return user, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (c *Catalog) User(email string) (*domain.User, error) {
	for _, u := range c.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUserNotFound, email)
}

func (c *Catalog) Users() []*domain.User {
	return c.users
}

func (c *Catalog) AddRestaurant(name string, menus domain.Menu, available bool) (*domain.Restaurant, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: restaurant name is required", ErrInvalidInput)
	}
	if _, err := c.Restaurant(name); err == nil {
		return nil, fmt.Errorf("restaurant %s %w", name, ErrDuplicate)
	}
	for _, cat := range menus {
		if err := checkMenu(cat.Name, cat.Items); err != nil {
			return nil, err
		}
	}

	r := (&domain.Restaurant{Name: name, Menus: menus, Available: available}).Clone()
	c.restaurants = append(c.restaurants, r)
	c.logger.Info().Str("restaurant", name).Int("menus", len(menus)).Msg("restaurant added")
	return r, nil
}

// UpdateMenu replaces or adds one menu category.
func (c *Catalog) UpdateMenu(name, category string, items domain.MenuItems) error {
	r, err := c.Restaurant(name)
	if err != nil {
		return err
	}
	if err := checkMenu(category, items); err != nil {
		return err
	}
	r.Menus.Set(category, append(domain.MenuItems(nil), items...))
	c.logger.Info().Str("restaurant", name).Str("menu", category).Msg("menu updated")
	return nil
}

func (c *Catalog) RemoveMenu(name, category string) error {
	r, err := c.Restaurant(name)
	if err != nil {
		return err
	}
	if !r.Menus.Remove(category) {
		return fmt.Errorf("%w: %s in %s", ErrMenuNotFound, category, name)
	}
	c.logger.Info().Str("restaurant", name).Str("menu", category).Msg("menu removed")
	return nil
}

func (c *Catalog) SetAvailability(name string, available bool) error {
	r, err := c.Restaurant(name)
	if err != nil {
		return err
	}
	r.Available = available
	c.logger.Info().Str("restaurant", name).Bool("available", available).Msg("availability updated")
	return nil
}

func (c *Catalog) RemoveRestaurant(name string) error {
	for i, r := range c.restaurants {
		if r.Name == name {
			c.restaurants = append(c.restaurants[:i], c.restaurants[i+1:]...)
			c.logger.Info().Str("restaurant", name).Msg("restaurant removed")
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrRestaurantNotFound, name)
}

func (c *Catalog) Restaurant(name string) (*domain.Restaurant, error) {
	for _, r := range c.restaurants {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRestaurantNotFound, name)
}

func (c *Catalog) Restaurants() []*domain.Restaurant {
	return c.restaurants
}

func checkMenu(category string, items domain.MenuItems) error {
	if category == "" {
		return fmt.Errorf("%w: menu name is required", ErrInvalidInput)
	}
	for _, it := range items {
		if it.Name == "" || it.Price < 0 {
			return fmt.Errorf("%w: bad item %q in menu %s", ErrInvalidInput, it.Name, category)
		}
	}
	return nil
}
