package shopper

import (
	"github.com/lok57/storefront/lib/myuuid"
)

// Every new shopper gets a couple of saved addresses and payment-methods,
// standing in for a real address-book and wallet.

func sampleAddresses(uuider myuuid.UUIDer) []Address {
	return []Address{
		{
			UID:         uuider.Create(),
			Label:       "Home",
			Street:      "Maple Street",
			HouseNumber: "12",
			PostalCode:  "90210",
			City:        "Beverly Hills",
			Country:     "US",
		},
		{
			UID:         uuider.Create(),
			Label:       "Office",
			Street:      "5th Avenue",
			HouseNumber: "725",
			PostalCode:  "10022",
			City:        "New York",
			Country:     "US",
		},
	}
}

func samplePaymentMethods(uuider myuuid.UUIDer) []PaymentMethod {
	return []PaymentMethod{
		{
			UID:         uuider.Create(),
			Kind:        "card",
			DisplayName: "VISA ending in 4242",
		},
		{
			UID:         uuider.Create(),
			Kind:        "ideal",
			DisplayName: "iDEAL",
		},
		{
			UID:         uuider.Create(),
			Kind:        "paypal",
			DisplayName: "PayPal",
		},
	}
}
