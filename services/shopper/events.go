package shopper

import (
	"context"
	"fmt"

	"github.com/lok57/storefront/lib/myhttp"
	"github.com/lok57/storefront/services/order/orderevents"
)

func (s *service) Subscribe(c context.Context) error {
	err := s.pubsub.Subscribe(c, orderevents.TopicName, myhttp.GuessHostnameWithScheme()+"/api/shopper/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", orderevents.TopicName, err)
	}

	return nil
}

func (s *service) OnOrderPlaced(c context.Context, topic string, event orderevents.OrderPlaced) error {
	return s.recordOrderPlaced(c, event.ShopperUID, event.OrderUID)
}
