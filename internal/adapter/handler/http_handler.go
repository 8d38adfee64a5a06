package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rl1809/food-delivery/internal/core/domain"
	"github.com/rl1809/food-delivery/internal/core/service"
)

type HTTPHandler struct {
	market *service.Marketplace
	checks []healthCheck
	logger zerolog.Logger
}

type healthCheck struct {
	name  string
	check func() error
}

type RegisterHTTPRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginHTTPRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RestaurantHTTPRequest struct {
	Name      string      `json:"name" binding:"required"`
	Menus     domain.Menu `json:"menus"`
	Available *bool       `json:"available"`
}

type OrderHTTPRequest struct {
	UserEmail      string            `json:"user_email" binding:"required"`
	RestaurantName string            `json:"restaurant_name" binding:"required"`
	Items          domain.OrderLines `json:"items"`
}

type MenuHTTPRequest struct {
	Items domain.MenuItems `json:"items"`
}

type AvailabilityHTTPRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type DriverHTTPRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

type UserView struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type RestaurantView struct {
	Name      string      `json:"name"`
	Menus     domain.Menu `json:"menus"`
	Available bool        `json:"available"`
}

type OrderView struct {
	ID             string            `json:"id"`
	UserEmail      string            `json:"user_email"`
	RestaurantName string            `json:"restaurant_name"`
	Items          domain.OrderLines `json:"items"`
	Status         string            `json:"status"`
	DriverEmail    string            `json:"driver_email,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

type DriverView struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Orders    []string `json:"orders"`
	Available bool     `json:"available"`
}

type ReceiptView struct {
	OrderID    string            `json:"order_id"`
	Customer   string            `json:"customer"`
	Restaurant string            `json:"restaurant"`
	Lines      []ReceiptLineView `json:"lines"`
	Total      float64           `json:"total"`
	Status     string            `json:"status"`
	OrderedAt  time.Time         `json:"ordered_at"`
	Text       string            `json:"text"`
}

type ReceiptLineView struct {
	Item      string  `json:"item"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

type AssignmentView struct {
	OrderID     string `json:"order_id"`
	DriverEmail string `json:"driver_email"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewHTTPHandler(market *service.Marketplace, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		market: market,
		logger: logger.With().Str("component", "http").Logger(),
	}
}

// AddHealthCheck makes /health report 503 while check fails.
func (h *HTTPHandler) AddHealthCheck(name string, check func() error) {
	h.checks = append(h.checks, healthCheck{name: name, check: check})
}

// Routes registers every endpoint on r.
func (h *HTTPHandler) Routes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)

	api := r.Group("/api")
	api.POST("/users", h.Register)
	api.POST("/login", h.Login)
	api.GET("/restaurants", h.ListRestaurants)
	api.POST("/restaurants", h.AddRestaurant)
	api.DELETE("/restaurants/:name", h.RemoveRestaurant)
	api.PUT("/restaurants/:name/menus/:category", h.UpdateMenu)
	api.DELETE("/restaurants/:name/menus/:category", h.RemoveMenu)
	api.PATCH("/restaurants/:name/availability", h.SetAvailability)
	api.POST("/orders", h.PlaceOrder)
	api.GET("/orders", h.ListOrders)
	api.GET("/orders/:id/receipt", h.Receipt)
	api.GET("/drivers", h.ListDrivers)
	api.POST("/drivers", h.AddDriver)
	api.POST("/drivers/:email/complete", h.CompleteOrder)
	api.POST("/dispatch/assign", h.AssignNext)
	api.POST("/save", h.Save)
}

// NewRouter returns a gin engine with recovery and the routes installed.
func (h *HTTPHandler) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.accessLog())
	h.Routes(r)
	return r
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	failed := gin.H{}
	for _, hc := range h.checks {
		if err := hc.check(); err != nil {
			failed[hc.name] = err.Error()
		}
	}
	if len(failed) > 0 {
		h.logger.Warn().Interface("checks", failed).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HTTPHandler) Register(c *gin.Context) {
	var req RegisterHTTPRequest
	if !h.bind(c, &req) {
		return
	}
	user, err := h.market.Register(service.Registration{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserView(user))
}

func (h *HTTPHandler) Login(c *gin.Context) {
	var req LoginHTTPRequest
	if !h.bind(c, &req) {
		return
	}
	user, err := h.market.Login(req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserView(user))
}

func (h *HTTPHandler) ListRestaurants(c *gin.Context) {
	restaurants := h.market.Restaurants()
	out := make([]RestaurantView, 0, len(restaurants))
	for _, r := range restaurants {
		out = append(out, RestaurantView{Name: r.Name, Menus: r.Menus, Available: r.Available})
	}
	c.JSON(http.StatusOK, out)
}

func (h *HTTPHandler) AddRestaurant(c *gin.Context) {
	var req RestaurantHTTPRequest
	if !h.bind(c, &req) {
		return
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	r, err := h.market.AddRestaurant(req.Name, req.Menus, available)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, RestaurantView{Name: r.Name, Menus: r.Menus, Available: r.Available})
}

func (h *HTTPHandler) RemoveRestaurant(c *gin.Context) {
	if err := h.market.RemoveRestaurant(c.Param("name")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) UpdateMenu(c *gin.Context) {
	var req MenuHTTPRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.market.UpdateMenu(c.Param("name"), c.Param("category"), req.Items); err != nil {
		h.fail(c, err)
		return
	}
	h.restaurant(c, c.Param("name"))
}

func (h *HTTPHandler) RemoveMenu(c *gin.Context) {
	if err := h.market.RemoveMenu(c.Param("name"), c.Param("category")); err != nil {
		h.fail(c, err)
		return
	}
	h.restaurant(c, c.Param("name"))
}

func (h *HTTPHandler) SetAvailability(c *gin.Context) {
	var req AvailabilityHTTPRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.market.SetAvailability(c.Param("name"), *req.Available); err != nil {
		h.fail(c, err)
		return
	}
	h.restaurant(c, c.Param("name"))
}

// restaurant replies with the current state of the named restaurant.
func (h *HTTPHandler) restaurant(c *gin.Context, name string) {
	for _, r := range h.market.Restaurants() {
		if r.Name == name {
			c.JSON(http.StatusOK, RestaurantView{Name: r.Name, Menus: r.Menus, Available: r.Available})
			return
		}
	}
	h.fail(c, service.ErrRestaurantNotFound)
}

func (h *HTTPHandler) PlaceOrder(c *gin.Context) {
	var req OrderHTTPRequest
	if !h.bind(c, &req) {
		return
	}
	order, total, err := h.market.PlaceOrder(req.UserEmail, req.RestaurantName, req.Items)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": toOrderView(order), "total": total})
}

func (h *HTTPHandler) ListOrders(c *gin.Context) {
	var orders []*domain.Order
	if email := c.Query("user_email"); email != "" {
		orders = h.market.OrdersFor(email)
	} else {
		orders = h.market.Orders()
	}
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderView(o))
	}
	c.JSON(http.StatusOK, out)
}

func (h *HTTPHandler) Receipt(c *gin.Context) {
	receipt, err := h.market.Receipt(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	view := ReceiptView{
		OrderID:    receipt.OrderID,
		Customer:   receipt.Customer,
		Restaurant: receipt.Restaurant,
		Lines:      make([]ReceiptLineView, 0, len(receipt.Lines)),
		Total:      receipt.Total,
		Status:     string(receipt.Status),
		OrderedAt:  receipt.OrderedAt,
		Text:       receipt.String(),
	}
	for _, l := range receipt.Lines {
		view.Lines = append(view.Lines, ReceiptLineView{Item: l.Item, Quantity: l.Quantity, UnitPrice: l.UnitPrice, Subtotal: l.Subtotal})
	}
	c.JSON(http.StatusOK, view)
}

func (h *HTTPHandler) ListDrivers(c *gin.Context) {
	drivers := h.market.Drivers()
	out := make([]DriverView, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, toDriverView(d))
	}
	c.JSON(http.StatusOK, out)
}

func (h *HTTPHandler) AddDriver(c *gin.Context) {
	var req DriverHTTPRequest
	if !h.bind(c, &req) {
		return
	}
	d, err := h.market.AddDriver(req.Name, req.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDriverView(d))
}

func (h *HTTPHandler) AssignNext(c *gin.Context) {
	assignments, err := h.market.AssignNext(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]AssignmentView, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, AssignmentView{OrderID: a.Order.ID, DriverEmail: a.Driver.Email})
	}
	c.JSON(http.StatusOK, out)
}

func (h *HTTPHandler) CompleteOrder(c *gin.Context) {
	order, err := h.market.CompleteOrder(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderView(order))
}

func (h *HTTPHandler) Save(c *gin.Context) {
	if err := h.market.Save(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (h *HTTPHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (h *HTTPHandler) fail(c *gin.Context, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(status, ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnavailable), errors.Is(err, service.ErrNoCapacity), errors.Is(err, service.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (h *HTTPHandler) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func toUserView(u *domain.User) UserView {
	return UserView{Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toOrderView(o *domain.Order) OrderView {
	return OrderView{
		ID:             o.ID,
		UserEmail:      o.UserEmail,
		RestaurantName: o.RestaurantName,
		Items:          o.Items,
		Status:         string(o.Status),
		DriverEmail:    o.DriverEmail,
		CreatedAt:      o.CreatedAt,
	}
}

func toDriverView(d *domain.Driver) DriverView {
	orders := d.Orders
	if orders == nil {
		orders = []string{}
	}
	return DriverView{Name: d.Name, Email: d.Email, Orders: orders, Available: d.Available}
}
