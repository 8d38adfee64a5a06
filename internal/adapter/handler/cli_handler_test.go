package handler

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rl1809/food-delivery/internal/core/service"
)

func runCLI(t *testing.T, market *service.Marketplace, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	if err := NewCLIHandler(market, in, &out, zerolog.Nop()).Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return out.String()
}

func TestCLIHandler_PizzaPlaceSession(t *testing.T) {
	market := newTestMarketplace(t)

	out := runCLI(t, market,
		"1", "John Doe", "john@example.com", "securepassword",
		"4", "Pizza Place", `{"lunch": {"Margherita": 8.99, "Pepperoni": 9.99}}`,
		"9", "Dan", "dan@example.com",
		"6", "john@example.com", "securepassword", "Pizza Place", `{"Margherita": 2, "Pepperoni": 1}`,
		"7",
		"2", "john@example.com", "securepassword", "2", "3",
		"8", "dan@example.com",
		"10",
		"12",
	)

	for _, want := range []string{
		"User 'John Doe' registered successfully!",
		"Restaurant 'Pizza Place' added successfully!",
		"Driver 'Dan' added successfully!",
		"Order placed successfully! Total: $27.97",
		"Order for 'Pizza Place' assigned to driver 'Dan'.",
		"Welcome back, John Doe!",
		"  - Margherita: 2 x $8.99 = $17.98",
		"Status: assigned",
		"Logging out...",
		"Order for 'Pizza Place' completed by driver 'dan@example.com'.",
		"Driver: Dan, Email: dan@example.com, Status: Available",
		"Exiting...",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
}

func TestCLIHandler_ErrorsAreNotFatal(t *testing.T) {
	market := newTestMarketplace(t)

	out := runCLI(t, market,
		"2", "nobody@example.com", "password",
		"7",
		"4", "Broken", "{not json",
		"42",
		"5",
		"3",
	)

	for _, want := range []string{
		"Invalid email or password. Please try again.",
		"Error: no capacity: no pending orders",
		"Invalid menu:",
		"Invalid option. Please try again.",
		"No available restaurants",
		"No users registered.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
}

func TestCLIHandler_EOFExits(t *testing.T) {
	market := newTestMarketplace(t)

	out := runCLI(t, market, "1", "John Doe")
	if !strings.HasSuffix(strings.TrimSpace(out), "Exiting...") {
		t.Errorf("expected exit on end of input, got\n%s", out)
	}
	if len(market.Users()) != 0 {
		t.Error("expected no user from a truncated registration")
	}
}

func TestCLIHandler_Save(t *testing.T) {
	market := newTestMarketplace(t)

	out := runCLI(t, market, "9", "Dan", "dan@example.com", "11", "12")
	if !strings.Contains(out, "Data saved successfully.") {
		t.Errorf("expected save confirmation\n%s", out)
	}
}

func TestCapitalize(t *testing.T) {
	for in, want := range map[string]string{
		"lunch":      "Lunch",
		"LUNCH":      "Lunch",
		"late NIGHT": "Late night",
		"":           "",
	} {
		if got := capitalize(in); got != want {
			t.Errorf("capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCLIHandler_ListRestaurantsCapitalizesCategory(t *testing.T) {
	market := newTestMarketplace(t)

	out := runCLI(t, market, "4", "Pizza Place", `{"LUNCH": {"Margherita": 8.99}}`, "5", "12")
	if !strings.Contains(out, " Lunch:\n") || !strings.Contains(out, "  - Margherita: $8.99") {
		t.Errorf("expected capitalized category listing\n%s", out)
	}
}
