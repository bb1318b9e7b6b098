package cart

import (
	"time"
)

type Cart struct {
	ShopperUID   string
	CreatedAt    time.Time
	LastModified *time.Time
	Currency     string
	Items        []LineItem
}

type LineItem struct {
	UID          string
	ProductUID   string
	Name         string
	PriceInCents int64
	Quantity     int
	Size         string
	ImageURL     string
}

func (li LineItem) TotalInCents() int64 {
	return li.PriceInCents * int64(li.Quantity)
}

func (c Cart) TotalInCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.TotalInCents()
	}

	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}

	return count
}
