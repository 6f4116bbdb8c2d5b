package retry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/logger"
)

func fastPolicy(tries uint) Policy {
	return Policy{
		MaxTries:        tries,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      1,
		Logger:          logger.Discard().WithComponent("retry"),
	}
}

func TestDo_RetriesNetworkKinds(t *testing.T) {
	for _, kind := range []errs.Kind{errs.NetworkError, errs.DDoSProtection, errs.ExchangeNotAvailable} {
		t.Run(string(kind), func(t *testing.T) {
			var calls atomic.Int32
			got, err := Do(context.Background(), fastPolicy(5), func(ctx context.Context) (string, error) {
				if calls.Add(1) < 3 {
					return "", errs.New("test", kind)
				}
				return "ok", nil
			})
			if err != nil {
				t.Fatalf("Do: %v", err)
			}
			if got != "ok" {
				t.Errorf("result = %q, want ok", got)
			}
			if n := calls.Load(); n != 3 {
				t.Errorf("calls = %d, want 3", n)
			}
		})
	}
}

func TestDo_StopsOnPermanentKinds(t *testing.T) {
	for _, kind := range []errs.Kind{errs.InsufficientFunds, errs.AuthenticationError, errs.OrderNotFound, errs.ExchangeError} {
		t.Run(string(kind), func(t *testing.T) {
			var calls atomic.Int32
			_, err := Do(context.Background(), fastPolicy(5), func(ctx context.Context) (int, error) {
				calls.Add(1)
				return 0, errs.New("test", kind, errs.WithMessage("nope"))
			})
			if !errors.Is(err, kind) {
				t.Fatalf("err = %v, want %s", err, kind)
			}
			var e *errs.Error
			if !errors.As(err, &e) || e.Message != "nope" {
				t.Errorf("original error not returned: %v", err)
			}
			if n := calls.Load(); n != 1 {
				t.Errorf("calls = %d, want 1", n)
			}
		})
	}
}

func TestDo_MaxTries(t *testing.T) {
	var calls atomic.Int32
	err := Run(context.Background(), fastPolicy(3), func(ctx context.Context) error {
		calls.Add(1)
		return errs.New("test", errs.DDoSProtection)
	})
	if !errors.Is(err, errs.DDoSProtection) {
		t.Fatalf("err = %v, want DDoSProtection", err)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := fastPolicy(0)
	p.InitialInterval = time.Hour
	p.MaxInterval = time.Hour

	var calls atomic.Int32
	err := Run(ctx, p, func(ctx context.Context) error {
		calls.Add(1)
		cancel()
		return errs.New("test", errs.NetworkError)
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.MaxTries != 3 {
		t.Errorf("MaxTries = %d, want 3", p.MaxTries)
	}
	b := p.backOff()
	if b.InitialInterval != 500*time.Millisecond || b.MaxInterval != 5*time.Second {
		t.Errorf("backoff = %v/%v", b.InitialInterval, b.MaxInterval)
	}
}
