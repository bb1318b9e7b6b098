package cart

import (
	"github.com/lok57/storefront/lib/mylog"
	"github.com/lok57/storefront/lib/mypublisher"
	"github.com/lok57/storefront/lib/mystore"
	"github.com/lok57/storefront/lib/mytime"
	"github.com/lok57/storefront/lib/myuuid"
)

type service struct {
	cartStore mystore.Store[Cart]
	publisher mypublisher.Publisher
	nower     mytime.Nower
	uuider    myuuid.UUIDer
	logger    mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(store mystore.Store[Cart], nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger, pub mypublisher.Publisher) *service {
	return &service{
		cartStore: store,
		publisher: pub,
		nower:     nower,
		uuider:    uuider,
		logger:    logger,
	}
}
