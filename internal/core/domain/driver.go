package domain

type Driver struct {
	Name      string
	Email     string
	Orders    []string // held order IDs, oldest first
	Available bool
}

func NewDriver(name, email string) *Driver {
	return &Driver{Name: name, Email: email, Available: true}
}

// Assign hands order to the driver. The driver becomes unavailable even if it
// already holds other orders.
func (d *Driver) Assign(order *Order) error {
	if _, err := order.UpdateStatus(OrderStatusAssigned); err != nil {
		return err
	}
	order.DriverEmail = d.Email
	d.Orders = append(d.Orders, order.ID)
	d.Available = false
	return nil
}

// Oldest returns the first held order ID.
func (d *Driver) Oldest() (string, bool) {
	if len(d.Orders) == 0 {
		return "", false
	}
	return d.Orders[0], true
}

// Release drops the oldest held order and marks the driver available,
// regardless of how many orders remain.
func (d *Driver) Release() {
	if len(d.Orders) > 0 {
		d.Orders = d.Orders[1:]
	}
	if len(d.Orders) == 0 {
		d.Orders = nil
	}
	d.Available = true
}

func (d *Driver) Clone() *Driver {
	c := *d
	c.Orders = append([]string(nil), d.Orders...)
	return &c
}
