package order

import (
	"context"
	"fmt"
	"sort"

	"github.com/lok57/storefront/lib/myerrors"
	"github.com/lok57/storefront/lib/mylog"
	"github.com/lok57/storefront/lib/mystore"
	"github.com/lok57/storefront/services/order/orderevents"
)

func (s *service) placeOrder(c context.Context, order Order) (Order, error) {
	if order.ShopperUID == "" {
		return Order{}, myerrors.NewInvalidInputErrorf("order without shopper")
	}
	if len(order.Items) == 0 {
		return Order{}, myerrors.NewInvalidInputErrorf("order without items")
	}

	order.UID = s.uuider.Create()
	order.CreatedAt = s.nower.Now()
	order.Status = OrderStatusPlaced

	s.logger.Log(c, order.UID, mylog.SeverityInfo, "Submitting order %s for shopper %s", order.UID, order.ShopperUID)

	// The submit happens outside the transaction: it is slow and must
	// not hold the store lock.
	err := s.submitter.Submit(c, order)
	if err != nil {
		return Order{}, myerrors.NewUnavailableError(fmt.Errorf("error submitting order %s: %s", order.UID, err))
	}

	err = s.orderStore.RunInTransaction(c, func(c context.Context) error {
		err := s.orderStore.Put(c, order.UID, order)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, orderevents.TopicName, orderevents.OrderPlaced{
			OrderUID:     order.UID,
			ShopperUID:   order.ShopperUID,
			TotalInCents: order.TotalInCents,
			Currency:     order.Currency,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

func (s *service) listOrders(c context.Context, shopperUID string) ([]Order, error) {
	orders, err := s.orderStore.Query(c, []mystore.Filter{{Field: "ShopperUID", Compare: "=", Value: shopperUID}}, "CreatedAt")
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	// the in-memory store ignores filters and ordering
	filtered := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.ShopperUID == shopperUID {
			filtered = append(filtered, o)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	return filtered, nil
}

func (s *service) getOrder(c context.Context, shopperUID string, orderUID string) (Order, error) {
	order, found, err := s.orderStore.Get(c, orderUID)
	if err != nil {
		return Order{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Order{}, myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
	}
	if order.ShopperUID != shopperUID {
		// do not leak the existence of other shoppers orders
		return Order{}, myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
	}

	return order, nil
}
