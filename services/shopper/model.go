package shopper

import (
	"fmt"
	"strings"
	"time"
)

type Shopper struct {
	UID            string
	FirstName      string
	LastName       string
	EmailAddress   string
	Locale         string
	Country        string
	CreatedAt      time.Time
	LastModified   *time.Time
	Addresses      []Address
	PaymentMethods []PaymentMethod
	OrderCount     int
	LastOrderUID   string
}

func (s Shopper) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

func (s Shopper) AddressByUID(uid string) (Address, bool) {
	for _, a := range s.Addresses {
		if a.UID == uid {
			return a, true
		}
	}

	return Address{}, false
}

func (s Shopper) PaymentMethodByUID(uid string) (PaymentMethod, bool) {
	for _, pm := range s.PaymentMethods {
		if pm.UID == uid {
			return pm, true
		}
	}

	return PaymentMethod{}, false
}

type Address struct {
	UID         string
	Label       string
	Street      string
	HouseNumber string
	PostalCode  string
	City        string
	Country     string
}

func (a Address) Summary() string {
	return fmt.Sprintf("%s %s, %s %s, %s", a.Street, a.HouseNumber, a.PostalCode, a.City, a.Country)
}

type PaymentMethod struct {
	UID         string
	Kind        string
	DisplayName string
}
