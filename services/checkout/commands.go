package checkout

import (
	"context"
	"fmt"

	"github.com/lok57/storefront/lib/myerrors"
	"github.com/lok57/storefront/lib/mylog"
	"github.com/lok57/storefront/services/checkout/checkoutevents"
	"github.com/lok57/storefront/services/order"
)

var (
	errNoAddressSelected       = fmt.Errorf("Select a delivery address to continue")
	errNoPaymentMethodSelected = fmt.Errorf("Select a payment method to continue")
)

// currentSession returns the checkout-session of the shopper, starting a
// fresh one at the address-step when none exists yet.
func (s *service) currentSession(c context.Context, shopperUID string) (CheckoutSession, error) {
	var session CheckoutSession
	err := s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		session, found, err = s.checkoutStore.Get(c, shopperUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if found {
			return nil
		}

		session = CheckoutSession{
			ShopperUID: shopperUID,
			Step:       StepAddress,
			CreatedAt:  s.nower.Now(),
		}
		err = s.checkoutStore.Put(c, shopperUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutStarted{
			ShopperUID: shopperUID,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		s.logger.Log(c, shopperUID, mylog.SeverityInfo, "Started checkout for shopper %s", shopperUID)

		return nil
	})
	if err != nil {
		return CheckoutSession{}, err
	}

	return session, nil
}

func (s *service) completeAddressStep(c context.Context, shopperUID string, addressUID string) (CheckoutSession, error) {
	s.logger.Log(c, shopperUID, mylog.SeverityInfo, "Completing address-step for shopper %s with address %s", shopperUID, addressUID)

	if addressUID == "" {
		return CheckoutSession{}, myerrors.NewInvalidInputError(errNoAddressSelected)
	}

	shpr, found, err := s.shoppers.Get(c, shopperUID)
	if err != nil {
		return CheckoutSession{}, myerrors.NewInternalError(err)
	}
	if !found {
		return CheckoutSession{}, myerrors.NewNotFoundError(fmt.Errorf("shopper with uid %s not found", shopperUID))
	}
	if _, ok := shpr.AddressByUID(addressUID); !ok {
		return CheckoutSession{}, myerrors.NewInvalidInputError(errNoAddressSelected)
	}

	return s.advance(c, shopperUID, StepAddress, StepPayment, func(session *CheckoutSession) {
		session.SelectedAddressUID = addressUID
	})
}

func (s *service) completePaymentStep(c context.Context, shopperUID string, paymentMethodUID string) (CheckoutSession, error) {
	s.logger.Log(c, shopperUID, mylog.SeverityInfo, "Completing payment-step for shopper %s with payment-method %s", shopperUID, paymentMethodUID)

	if paymentMethodUID == "" {
		return CheckoutSession{}, myerrors.NewInvalidInputError(errNoPaymentMethodSelected)
	}

	shpr, found, err := s.shoppers.Get(c, shopperUID)
	if err != nil {
		return CheckoutSession{}, myerrors.NewInternalError(err)
	}
	if !found {
		return CheckoutSession{}, myerrors.NewNotFoundError(fmt.Errorf("shopper with uid %s not found", shopperUID))
	}
	if _, ok := shpr.PaymentMethodByUID(paymentMethodUID); !ok {
		return CheckoutSession{}, myerrors.NewInvalidInputError(errNoPaymentMethodSelected)
	}

	return s.advance(c, shopperUID, StepPayment, StepReview, func(session *CheckoutSession) {
		session.SelectedPaymentMethodUID = paymentMethodUID
	})
}

// advance moves the session of the shopper from the expected step to the
// next one, after applying the step-specific mutation.
func (s *service) advance(c context.Context, shopperUID string, from Step, to Step, mutate func(session *CheckoutSession)) (CheckoutSession, error) {
	now := s.nower.Now()

	var session CheckoutSession
	err := s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		session, found, err = s.checkoutStore.Get(c, shopperUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("no active checkout for shopper %s", shopperUID))
		}
		if session.Step != from {
			return myerrors.NewInvalidInputError(fmt.Errorf("checkout of shopper %s is at step %s, not %s", shopperUID, session.Step, from))
		}

		mutate(&session)
		session.Step = to
		session.LastModified = &now

		err = s.checkoutStore.Put(c, shopperUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutStepCompleted{
			ShopperUID: shopperUID,
			Step:       from.String(),
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return CheckoutSession{}, err
	}

	return session, nil
}

// placeOrder turns the reviewed checkout into an order: the selected
// address and payment-method are snapshotted onto the order, the cart is
// cleared and the checkout-session is torn down.
func (s *service) placeOrder(c context.Context, shopperUID string) (order.Order, error) {
	s.logger.Log(c, shopperUID, mylog.SeverityInfo, "Placing order for shopper %s", shopperUID)

	session, found, err := s.checkoutStore.Get(c, shopperUID)
	if err != nil {
		return order.Order{}, myerrors.NewInternalError(err)
	}
	if !found {
		return order.Order{}, myerrors.NewNotFoundError(fmt.Errorf("no active checkout for shopper %s", shopperUID))
	}
	if session.Step != StepReview {
		return order.Order{}, myerrors.NewInvalidInputError(fmt.Errorf("checkout of shopper %s is at step %s, not %s", shopperUID, session.Step, StepReview))
	}

	shpr, found, err := s.shoppers.Get(c, shopperUID)
	if err != nil {
		return order.Order{}, myerrors.NewInternalError(err)
	}
	if !found {
		return order.Order{}, myerrors.NewNotFoundError(fmt.Errorf("shopper with uid %s not found", shopperUID))
	}
	address, ok := shpr.AddressByUID(session.SelectedAddressUID)
	if !ok {
		return order.Order{}, myerrors.NewInvalidInputError(errNoAddressSelected)
	}
	paymentMethod, ok := shpr.PaymentMethodByUID(session.SelectedPaymentMethodUID)
	if !ok {
		return order.Order{}, myerrors.NewInvalidInputError(errNoPaymentMethodSelected)
	}

	crt, err := s.carts.Get(c, shopperUID)
	if err != nil {
		return order.Order{}, err
	}
	if crt.IsEmpty() {
		return order.Order{}, myerrors.NewInvalidInputError(fmt.Errorf("cart of shopper %s is empty", shopperUID))
	}

	placed, err := s.orders.Place(c, order.Order{
		ShopperUID:      shopperUID,
		DeliveryAddress: address,
		PaymentMethod:   paymentMethod,
		Items:           crt.Items,
		TotalInCents:    crt.TotalInCents(),
		Currency:        crt.Currency,
	})
	if err != nil {
		return order.Order{}, err
	}

	err = s.carts.Clear(c, shopperUID)
	if err != nil {
		return order.Order{}, err
	}

	err = s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		err := s.checkoutStore.Delete(c, shopperUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
			ShopperUID: shopperUID,
			OrderUID:   placed.UID,
			Success:    true,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return order.Order{}, err
	}

	s.logger.Log(c, shopperUID, mylog.SeverityInfo, "Checkout of shopper %s completed with order %s", shopperUID, placed.UID)

	return placed, nil
}
