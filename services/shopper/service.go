package shopper

import (
	"github.com/lok57/storefront/lib/mylog"
	"github.com/lok57/storefront/lib/mypubsub"
	"github.com/lok57/storefront/lib/mystore"
	"github.com/lok57/storefront/lib/mytime"
	"github.com/lok57/storefront/lib/myuuid"
)

type service struct {
	shopperStore mystore.Store[Shopper]
	pubsub       mypubsub.PubSub
	nower        mytime.Nower
	uuider       myuuid.UUIDer
	logger       mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(store mystore.Store[Shopper], nower mytime.Nower, uuider myuuid.UUIDer, subscriber mypubsub.PubSub, logger mylog.Logger) *service {
	return &service{
		shopperStore: store,
		pubsub:       subscriber,
		nower:        nower,
		uuider:       uuider,
		logger:       logger,
	}
}
