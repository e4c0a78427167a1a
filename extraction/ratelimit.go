package extraction

import (
	"context"
	"net/http"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	decreaseFactor = 0.8 // Reduce aggressively on failure
	increaseFactor = 0.2 // Increase conservatively on success
	minLimit       = 1   // Minimum requests per second
)

// AdaptiveRateLimiter backs off hard when the remote API starts refusing
// requests and creeps back up while calls keep succeeding.
type AdaptiveRateLimiter struct {
	mu          sync.Mutex
	limit       rate.Limit
	burst       int
	limiter     *rate.Limiter
	maxIncrease rate.Limit
}

func NewAdaptiveRateLimiter(startingLimit rate.Limit, startingBurst int, maxIncrease rate.Limit) *AdaptiveRateLimiter {
	return &AdaptiveRateLimiter{
		limit:       startingLimit,
		burst:       startingBurst,
		limiter:     rate.NewLimiter(startingLimit, startingBurst),
		maxIncrease: maxIncrease,
	}
}

func (a *AdaptiveRateLimiter) Fail() {
	a.mu.Lock()
	defer a.mu.Unlock()

	newLimit := max(rate.Limit(float64(a.limit)*(1-decreaseFactor)), minLimit)
	a.setLimit(newLimit)
}

func (a *AdaptiveRateLimiter) Succeed() {
	a.mu.Lock()
	defer a.mu.Unlock()

	newLimit := min(rate.Limit(float64(a.limit)*(1+increaseFactor)), a.limit+a.maxIncrease)
	a.setLimit(newLimit)
}

func (a *AdaptiveRateLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

func (a *AdaptiveRateLimiter) setLimit(newLimit rate.Limit) {
	a.limit = newLimit
	a.limiter.SetLimit(a.limit)
}

type rateLimitedRoundTripper struct {
	transport http.RoundTripper
	limiter   *AdaptiveRateLimiter
}

func (rt *rateLimitedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := rt.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	resp, err := rt.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		rt.limiter.Fail()
	} else {
		rt.limiter.Succeed()
	}

	return resp, nil
}

type loggingRoundTripper struct {
	transport http.RoundTripper
}

func (rt *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	log.WithFields(log.Fields{
		"method": req.Method,
		"url":    req.URL.Redacted(),
	}).Debug("outgoing request")

	resp, err := rt.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"status": resp.Status,
		"url":    req.URL.Redacted(),
	}).Debug("response received")

	return resp, nil
}

// wrapTransport layers the rate limiter and request logging onto a client.
func wrapTransport(client *http.Client, limiter *AdaptiveRateLimiter) {
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	client.Transport = &loggingRoundTripper{
		transport: &rateLimitedRoundTripper{transport: base, limiter: limiter},
	}
}
