package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/rl1809/food-delivery/internal/core/domain"
	"github.com/rl1809/food-delivery/internal/core/service"
)

// CLIHandler is the interactive numbered menu. Errors are printed and the
// loop continues; end of input behaves like Exit.
type CLIHandler struct {
	market *service.Marketplace
	in     *bufio.Scanner
	out    io.Writer
	logger zerolog.Logger
}

func NewCLIHandler(market *service.Marketplace, in io.Reader, out io.Writer, logger zerolog.Logger) *CLIHandler {
	return &CLIHandler{
		market: market,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger.With().Str("component", "cli").Logger(),
	}
}

const mainMenu = `
Menu:
1. Register User
2. User Login
3. List All Users (Admin Only)
4. Add Restaurant (Admin Only)
5. List Restaurants
6. Place Order
7. Assign Order to Driver (Admin Only)
8. Complete Order (Driver Only)
9. Add Driver (Admin Only)
10. List Drivers (Admin Only)
11. Save Data
12. Exit
`

const userMenu = `
User Menu:
1. Place Order
2. View Orders
3. Logout
`

func (h *CLIHandler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(h.out, mainMenu)
		choice, ok := h.prompt("Select an option (1-12): ")
		if !ok {
			fmt.Fprintln(h.out, "Exiting...")
			return h.in.Err()
		}

		switch choice {
		case "1":
			h.register()
		case "2":
			h.login(ctx)
		case "3":
			h.listUsers()
		case "4":
			h.addRestaurant()
		case "5":
			h.listRestaurants()
		case "6":
			h.placeOrderWithLogin()
		case "7":
			h.assign(ctx)
		case "8":
			h.complete(ctx)
		case "9":
			h.addDriver()
		case "10":
			h.listDrivers()
		case "11":
			h.save(ctx)
		case "12":
			fmt.Fprintln(h.out, "Exiting...")
			return nil
		default:
			fmt.Fprintln(h.out, "Invalid option. Please try again.")
		}
	}
}

func (h *CLIHandler) prompt(label string) (string, bool) {
	fmt.Fprint(h.out, label)
	if !h.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(h.in.Text()), true
}

// prompts reads several answers in order and stops at end of input.
func (h *CLIHandler) prompts(labels ...string) ([]string, bool) {
	answers := make([]string, 0, len(labels))
	for _, l := range labels {
		a, ok := h.prompt(l)
		if !ok {
			return nil, false
		}
		answers = append(answers, a)
	}
	return answers, true
}

func (h *CLIHandler) register() {
	a, ok := h.prompts("Enter your name: ", "Enter your email: ", "Enter your password: ")
	if !ok {
		return
	}
	user, err := h.market.Register(service.Registration{Name: a[0], Email: a[1], Password: a[2]})
	if err != nil {
		h.printErr(err)
		return
	}
	fmt.Fprintf(h.out, "User '%s' registered successfully!\n", user.Name)
}

func (h *CLIHandler) authenticate() (*domain.User, bool) {
	a, ok := h.prompts("Enter your email: ", "Enter your password: ")
	if !ok {
		return nil, false
	}
	user, err := h.market.Login(a[0], a[1])
	if err != nil {
		fmt.Fprintln(h.out, "Invalid email or password. Please try again.")
		return nil, false
	}
	return user, true
}

func (h *CLIHandler) login(ctx context.Context) {
	user, ok := h.authenticate()
	if !ok {
		return
	}
	fmt.Fprintf(h.out, "Welcome back, %s!\n", user.Name)

	for ctx.Err() == nil {
		fmt.Fprint(h.out, userMenu)
		choice, ok := h.prompt("Select an option (1-3): ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			h.placeOrder(user.Email)
		case "2":
			h.viewOrders(user.Email)
		case "3":
			fmt.Fprintln(h.out, "Logging out...")
			return
		default:
			fmt.Fprintln(h.out, "Invalid option. Please try again.")
		}
	}
}

func (h *CLIHandler) placeOrderWithLogin() {
	user, ok := h.authenticate()
	if !ok {
		return
	}
	h.placeOrder(user.Email)
}

func (h *CLIHandler) placeOrder(email string) {
	a, ok := h.prompts("Enter restaurant name: ", `Enter items as JSON (e.g., {"item": quantity}): `)
	if !ok {
		return
	}
	items, err := domain.ParseOrderLines(a[1])
	if err != nil {
		fmt.Fprintf(h.out, "Invalid items: %v\n", err)
		return
	}
	_, total, err := h.market.PlaceOrder(email, a[0], items)
	if err != nil {
		h.printErr(err)
		return
	}
	fmt.Fprintf(h.out, "Order placed successfully! Total: $%.2f\n", total)
}

func (h *CLIHandler) viewOrders(email string) {
	receipts := h.market.ReceiptsFor(email)
	if len(receipts) == 0 {
		fmt.Fprintln(h.out, "No orders found.")
		return
	}
	for _, r := range receipts {
		fmt.Fprintln(h.out)
		fmt.Fprint(h.out, r.String())
	}
}

func (h *CLIHandler) listUsers() {
	fmt.Fprintln(h.out, "\nRegistered Users:")
	users := h.market.Users()
	if len(users) == 0 {
		fmt.Fprintln(h.out, "No users registered.")
		return
	}
	for _, u := range users {
		fmt.Fprintf(h.out, "Name: %s, Email: %s, Registered At: %s\n", u.Name, u.Email, u.CreatedAt.Format(time.RFC3339))
	}
}

func (h *CLIHandler) addRestaurant() {
	a, ok := h.prompts("Enter restaurant name: ", `Enter restaurant menu as JSON (e.g., {"lunch": {"item": price}}): `)
	if !ok {
		return
	}
	var menu domain.Menu
	if err := json.Unmarshal([]byte(a[1]), &menu); err != nil {
		fmt.Fprintf(h.out, "Invalid menu: %v\n", err)
		return
	}
	r, err := h.market.AddRestaurant(a[0], menu, true)
	if err != nil {
		h.printErr(err)
		return
	}
	fmt.Fprintf(h.out, "Restaurant '%s' added successfully!\n", r.Name)
}

func (h *CLIHandler) listRestaurants() {
	restaurants := h.market.Restaurants()
	if len(restaurants) == 0 {
		fmt.Fprintln(h.out, "No available restaurants")
		return
	}
	for _, r := range restaurants {
		availability := "Closed"
		if r.Available {
			availability = "Open"
		}
		fmt.Fprintf(h.out, "Restaurant: %s\n", r.Name)
		fmt.Fprintf(h.out, "Availability: %s\n", availability)
		fmt.Fprintln(h.out, "Menus:")
		for _, cat := range r.Menus {
			fmt.Fprintf(h.out, " %s:\n", capitalize(cat.Name))
			for _, it := range cat.Items {
				fmt.Fprintf(h.out, "  - %s: $%.2f\n", it.Name, it.Price)
			}
		}
	}
}

func (h *CLIHandler) assign(ctx context.Context) {
	assignments, err := h.market.AssignNext(ctx)
	if err != nil {
		h.printErr(err)
		return
	}
	for _, a := range assignments {
		fmt.Fprintf(h.out, "Order for '%s' assigned to driver '%s'.\n", a.Order.RestaurantName, a.Driver.Name)
	}
}

func (h *CLIHandler) complete(ctx context.Context) {
	email, ok := h.prompt("Enter your email: ")
	if !ok {
		return
	}
	order, err := h.market.CompleteOrder(ctx, email)
	if err != nil {
		h.printErr(err)
		return
	}
	fmt.Fprintf(h.out, "Order for '%s' completed by driver '%s'.\n", order.RestaurantName, email)
}

func (h *CLIHandler) addDriver() {
	a, ok := h.prompts("Enter driver's name: ", "Enter driver's email: ")
	if !ok {
		return
	}
	d, err := h.market.AddDriver(a[0], a[1])
	if err != nil {
		h.printErr(err)
		return
	}
	fmt.Fprintf(h.out, "Driver '%s' added successfully!\n", d.Name)
}

func (h *CLIHandler) listDrivers() {
	for _, d := range h.market.Drivers() {
		status := "Delivering"
		if d.Available {
			status = "Available"
		}
		fmt.Fprintf(h.out, "Driver: %s, Email: %s, Status: %s\n", d.Name, d.Email, status)
	}
}

func (h *CLIHandler) save(ctx context.Context) {
	if err := h.market.Save(ctx); err != nil {
		fmt.Fprintf(h.out, "Save failed: %v\n", err)
		return
	}
	fmt.Fprintln(h.out, "Data saved successfully.")
}

func (h *CLIHandler) printErr(err error) {
	h.logger.Debug().Err(err).Msg("command failed")
	fmt.Fprintf(h.out, "Error: %v\n", err)
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
