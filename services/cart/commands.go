package cart

import (
	"context"
	"fmt"

	"github.com/lok57/storefront/lib/myerrors"
	"github.com/lok57/storefront/lib/mylog"
	"github.com/lok57/storefront/services/cart/cartevents"
)

const defaultCurrency = "USD"

func (s *service) getCart(c context.Context, shopperUID string) (Cart, error) {
	cart, found, err := s.cartStore.Get(c, shopperUID)
	if err != nil {
		return Cart{}, myerrors.NewInternalError(err)
	}
	if !found {
		// an absent cart reads as an empty one
		return Cart{
			ShopperUID: shopperUID,
			Currency:   defaultCurrency,
		}, nil
	}

	return cart, nil
}

func (s *service) addProduct(c context.Context, shopperUID string, productUID string, size string) (Cart, error) {
	s.logger.Log(c, shopperUID, mylog.SeverityInfo, "Adding product %s (size %q) to cart of shopper %s", productUID, size, shopperUID)

	prod, found := findProduct(productUID)
	if !found {
		return Cart{}, myerrors.NewNotFoundError(fmt.Errorf("product with uid %s not found", productUID))
	}

	now := s.nower.Now()

	var cart Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		cart, err = s.getCart(c, shopperUID)
		if err != nil {
			return err
		}
		if cart.CreatedAt.IsZero() {
			cart.CreatedAt = now
		}

		// same product in the same size bumps the quantity
		merged := false
		for i, item := range cart.Items {
			if item.ProductUID == productUID && item.Size == size {
				cart.Items[i].Quantity++
				merged = true
				break
			}
		}
		if !merged {
			cart.Items = append(cart.Items, LineItem{
				UID:          s.uuider.Create(),
				ProductUID:   prod.UID,
				Name:         prod.Name,
				PriceInCents: prod.PriceInCents,
				Quantity:     1,
				Size:         size,
				ImageURL:     prod.ImageURL,
			})
		}
		cart.LastModified = &now

		err = s.cartStore.Put(c, shopperUID, cart)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	return cart, nil
}

func (s *service) updateQuantity(c context.Context, shopperUID string, itemUID string, quantity int) (Cart, error) {
	s.logger.Log(c, shopperUID, mylog.SeverityInfo, "Setting quantity of item %s to %d for shopper %s", itemUID, quantity, shopperUID)

	now := s.nower.Now()

	var cart Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		cart, found, err = s.cartStore.Get(c, shopperUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("cart of shopper %s not found", shopperUID))
		}

		idx := -1
		for i, item := range cart.Items {
			if item.UID == itemUID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return myerrors.NewNotFoundError(fmt.Errorf("item with uid %s not found in cart", itemUID))
		}

		if quantity <= 0 {
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		} else {
			cart.Items[idx].Quantity = quantity
		}
		cart.LastModified = &now

		err = s.cartStore.Put(c, shopperUID, cart)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	return cart, nil
}

func (s *service) removeItem(c context.Context, shopperUID string, itemUID string) (Cart, error) {
	return s.updateQuantity(c, shopperUID, itemUID, 0)
}

func (s *service) clearCart(c context.Context, shopperUID string) error {
	s.logger.Log(c, shopperUID, mylog.SeverityInfo, "Clearing cart of shopper %s", shopperUID)

	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		cart, found, err := s.cartStore.Get(c, shopperUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			// clearing an absent cart is a no-op
			return nil
		}

		err = s.cartStore.Delete(c, shopperUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, cartevents.TopicName, cartevents.CartCleared{
			ShopperUID: shopperUID,
			ItemCount:  cart.ItemCount(),
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}
