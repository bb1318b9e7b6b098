package shopper

import (
	"context"
	"fmt"
	"strings"

	"github.com/lok57/storefront/lib/myerrors"
	"github.com/lok57/storefront/lib/mylog"
)

const defaultLocale = "en"

func (s *service) createShopper(c context.Context, firstName string, lastName string, email string, locale string) (Shopper, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(email) == "" {
		return Shopper{}, myerrors.NewInvalidInputErrorf("first-name and email are required to login")
	}
	if locale == "" {
		locale = defaultLocale
	}

	shopperUID := s.uuider.Create()
	createdAt := s.nower.Now()

	shopper := Shopper{
		UID:            shopperUID,
		FirstName:      firstName,
		LastName:       lastName,
		EmailAddress:   email,
		Locale:         locale,
		Country:        "US",
		CreatedAt:      createdAt,
		Addresses:      sampleAddresses(s.uuider),
		PaymentMethods: samplePaymentMethods(s.uuider),
	}

	s.logger.Log(c, shopperUID, mylog.SeverityInfo, "Creating new shopper %s (%s)", shopper.FullName(), shopperUID)

	err := s.shopperStore.Put(c, shopperUID, shopper)
	if err != nil {
		return Shopper{}, myerrors.NewInternalError(err)
	}

	return shopper, nil
}

func (s *service) getShopper(c context.Context, shopperUID string) (Shopper, bool, error) {
	shopper, found, err := s.shopperStore.Get(c, shopperUID)
	if err != nil {
		return Shopper{}, false, myerrors.NewInternalError(err)
	}

	return shopper, found, nil
}

func (s *service) recordOrderPlaced(c context.Context, shopperUID string, orderUID string) error {
	s.logger.Log(c, shopperUID, mylog.SeverityInfo, "Recording order %s on shopper %s", orderUID, shopperUID)

	err := s.shopperStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent
		shopper, found, err := s.shopperStore.Get(c, shopperUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("shopper with uid %s not found", shopperUID))
		}

		if shopper.LastOrderUID == orderUID {
			return nil
		}

		now := s.nower.Now()
		shopper.OrderCount++
		shopper.LastOrderUID = orderUID
		shopper.LastModified = &now

		err = s.shopperStore.Put(c, shopperUID, shopper)
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
