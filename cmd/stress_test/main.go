package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rl1809/food-delivery/internal/adapter/events"
	"github.com/rl1809/food-delivery/internal/adapter/storage"
	"github.com/rl1809/food-delivery/internal/core/domain"
	"github.com/rl1809/food-delivery/internal/core/service"
	"github.com/rl1809/food-delivery/internal/logger"
)

const (
	restaurantName = "Pizza Place"
	totalRequests  = 50
	invalidEvery   = 5
	driverCount    = 3
)

func main() {
	ctx := context.Background()
	log := logger.New("error", "console", os.Stderr)

	dir, err := os.MkdirTemp("", "delivery-stress-*")
	if err != nil {
		fmt.Printf("failed to create data dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(dir)

	market := service.NewMarketplace(storage.NewFileAdapter(dir, log), events.NewLogPublisher(log), log)
	market.AddRestaurant(restaurantName, domain.Menu{
		{Name: "lunch", Items: domain.MenuItems{{Name: "Margherita", Price: 8.99}, {Name: "Pepperoni", Price: 9.99}}},
	}, true)
	for i := 0; i < driverCount; i++ {
		market.AddDriver(fmt.Sprintf("Driver %d", i), fmt.Sprintf("driver-%d@example.com", i))
	}

	// Counters
	var successCount atomic.Int32
	var failCount atomic.Int32

	// Spawn concurrent requests. Every fifth request names only unknown items.
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()

			items := domain.OrderLines{{Item: "Margherita", Quantity: 1}}
			if userID%invalidEvery == 0 {
				items = domain.OrderLines{{Item: "Sushi", Quantity: 1}}
			}
			_, _, err := market.PlaceOrder(fmt.Sprintf("user-%d@example.com", userID), restaurantName, items)
			if err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	wantSuccess := int32(totalRequests - totalRequests/invalidEvery)
	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Drivers:          %d\n", driverCount)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == wantSuccess && fail == int32(totalRequests)-wantSuccess {
		fmt.Printf("PASS: %d orders placed, %d rejected\n", success, fail)
	} else {
		fmt.Printf("FAIL: Expected %d success/%d fail, got %d/%d\n",
			wantSuccess, int32(totalRequests)-wantSuccess, success, fail)
	}

	// Dispatch everything, then let each driver work through its queue.
	assignments, err := market.AssignNext(ctx)
	if err != nil {
		fmt.Printf("FAIL: assign: %v\n", err)
		os.Exit(1)
	}

	var wgDrivers sync.WaitGroup
	var deliveredCount atomic.Int32
	for _, d := range market.Drivers() {
		wgDrivers.Add(1)
		go func(email string, held int) {
			defer wgDrivers.Done()
			for j := 0; j < held; j++ {
				if _, err := market.CompleteOrder(ctx, email); err == nil {
					deliveredCount.Add(1)
				}
			}
		}(d.Email, len(d.Orders))
	}
	wgDrivers.Wait()
	delivered := int(deliveredCount.Load())

	if len(assignments) == int(success) && delivered == int(success) {
		fmt.Printf("PASS: %d orders assigned and delivered\n", delivered)
	} else {
		fmt.Printf("FAIL: Expected %d assigned/delivered, got %d/%d\n", success, len(assignments), delivered)
	}

	pending := 0
	for _, o := range market.Orders() {
		if o.Status != domain.OrderStatusDelivered {
			pending++
		}
	}
	if pending == 0 {
		fmt.Println("PASS: No undelivered orders")
	} else {
		fmt.Printf("FAIL: Expected 0 undelivered orders, got %d\n", pending)
	}

	if err := market.Save(ctx); err != nil {
		fmt.Printf("FAIL: save: %v\n", err)
	} else {
		fmt.Println("PASS: Data saved")
	}
}
