package shopper

import (
	"context"
)

// ShopperService is the contract the other services consume: presence
// and profile-data of the currently logged-in shopper.
//
//go:generate mockgen -source=api.go -package shopper -destination shopper_mock.go ShopperService
type ShopperService interface {
	Get(c context.Context, shopperUID string) (Shopper, bool, error)
}
