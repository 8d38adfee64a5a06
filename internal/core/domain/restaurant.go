package domain

import "fmt"

type MenuItem struct {
	Name  string
	Price float64
}

// MenuItems encodes as a JSON object {"item": price} in insertion order.
type MenuItems []MenuItem

func (m MenuItems) MarshalJSON() ([]byte, error) {
	return marshalOrdered(len(m), func(i int) (string, float64) {
		return m[i].Name, m[i].Price
	})
}

func (m *MenuItems) UnmarshalJSON(data []byte) error {
	var out MenuItems
	err := unmarshalOrdered(data, func(name string, price float64) {
		out = append(out, MenuItem{Name: name, Price: price})
	})
	if err != nil {
		return fmt.Errorf("menu items: %w", err)
	}
	*m = out
	return nil
}

type MenuCategory struct {
	Name  string
	Items MenuItems
}

// Menu is the ordered list of categories of a restaurant. It encodes as
// {"category": {"item": price}}.
type Menu []MenuCategory

// Price returns the price of the first item named item, scanning categories
// and then items in insertion order. Duplicate names in later categories are
// shadowed.
func (m Menu) Price(item string) (float64, bool) {
	for _, c := range m {
		for _, it := range c.Items {
			if it.Name == item {
				return it.Price, true
			}
		}
	}
	return 0, false
}

// Set replaces the items of category, or appends the category if it is new.
func (m *Menu) Set(category string, items MenuItems) {
	for i := range *m {
		if (*m)[i].Name == category {
			(*m)[i].Items = items
			return
		}
	}
	*m = append(*m, MenuCategory{Name: category, Items: items})
}

func (m *Menu) Remove(category string) bool {
	for i := range *m {
		if (*m)[i].Name == category {
			*m = append((*m)[:i], (*m)[i+1:]...)
			return true
		}
	}
	return false
}

func (m Menu) MarshalJSON() ([]byte, error) {
	return marshalOrdered(len(m), func(i int) (string, MenuItems) {
		return m[i].Name, m[i].Items
	})
}

func (m *Menu) UnmarshalJSON(data []byte) error {
	var out Menu
	err := unmarshalOrdered(data, func(category string, items MenuItems) {
		out = append(out, MenuCategory{Name: category, Items: items})
	})
	if err != nil {
		return fmt.Errorf("menu: %w", err)
	}
	*m = out
	return nil
}

type Restaurant struct {
	Name      string
	Menus     Menu
	Available bool
}

func (r *Restaurant) Clone() *Restaurant {
	c := *r
	c.Menus = nil
	for _, cat := range r.Menus {
		c.Menus = append(c.Menus, MenuCategory{Name: cat.Name, Items: append(MenuItems(nil), cat.Items...)})
	}
	return &c
}
