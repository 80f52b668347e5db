package payments

import (
	"context"
	"os"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/example/ride-sim/internal/monitor"
)

// FareSchedule prices a run: a flat base plus a per-distance-unit rate,
// both in cents.
type FareSchedule struct {
	BaseCents    int64
	PerUnitCents int64
	Currency     string
}

// Amount returns the fare for a report, priced off the average ride
// distance.
func (f FareSchedule) Amount(r monitor.Report) int64 {
	return f.BaseCents + f.PerUnitCents*int64(r.DriverRideDistance)
}

// StripeClient is a thin wrapper around stripe-go for PaymentIntent
// hold/capture/cancel flows.
type StripeClient struct {
	Schedule FareSchedule
}

// NewStripeClient initializes the stripe client with the STRIPE_API_KEY
// env var. Enabled reports whether a key was present.
func NewStripeClient(schedule FareSchedule) *StripeClient {
	stripe.Key = os.Getenv("STRIPE_API_KEY")
	return &StripeClient{Schedule: schedule}
}

func (s *StripeClient) Enabled() bool { return stripe.Key != "" }

// SettleFare holds and immediately captures the fare for a completed run.
// It returns the PaymentIntent ID on success.
func (s *StripeClient) SettleFare(ctx context.Context, report monitor.Report, customerID string) (string, error) {
	id, err := s.Hold(ctx, s.Schedule.Amount(report), s.Schedule.Currency, customerID)
	if err != nil {
		return "", err
	}
	if err := s.Capture(ctx, id); err != nil {
		return id, err
	}
	return id, nil
}

// Hold creates a PaymentIntent with capture_method=manual to hold funds.
func (s *StripeClient) Hold(ctx context.Context, amount int64, currency, customerID string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	if customerID != "" {
		params.Customer = stripe.String(customerID)
	}
	params.CaptureMethod = stripe.String(string(stripe.PaymentIntentCaptureMethodManual))
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ID, nil
}

// Capture finalizes a previously-held PaymentIntent.
func (s *StripeClient) Capture(ctx context.Context, paymentIntentID string) error {
	_, err := paymentintent.Capture(paymentIntentID, nil)
	return err
}

// Cancel releases the hold on a PaymentIntent.
func (s *StripeClient) Cancel(ctx context.Context, paymentIntentID string) error {
	_, err := paymentintent.Cancel(paymentIntentID, nil)
	return err
}
