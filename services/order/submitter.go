package order

import (
	"context"
	"time"
)

// Submitter hands a placed order over to the fulfilment backend.
//
//go:generate mockgen -source=submitter.go -package order -destination submitter_mock.go Submitter
type Submitter interface {
	Submit(c context.Context, order Order) error
}

// delayedSubmitter stands in for a real fulfilment backend: it just
// takes a while and never fails.
type delayedSubmitter struct {
	delay time.Duration
}

func NewSubmitter(delay time.Duration) Submitter {
	return &delayedSubmitter{
		delay: delay,
	}
}

func (s *delayedSubmitter) Submit(c context.Context, order Order) error {
	select {
	case <-time.After(s.delay):
		return nil
	case <-c.Done():
		return c.Err()
	}
}
