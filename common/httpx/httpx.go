// Package httpx provides the outbound HTTP client used for collaborator
// calls (geocoding). It layers retries with jittered backoff and a simple
// consecutive-failure circuit breaker over net/http.
package httpx

import (
	"crypto/tls"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nourishdc/siteseeker/common/logger"
	"github.com/nourishdc/siteseeker/config"
)

// ErrCircuitOpen is returned while the breaker is open after repeated
// collaborator failures.
var ErrCircuitOpen = errors.New("httpx: circuit open")

// ErrHostNotAllowed is returned when a request targets a host outside the
// configured allowlist.
var ErrHostNotAllowed = errors.New("httpx: host not allowed")

// Options holds the resolved client tuning.
type Options struct {
	Timeout            time.Duration
	Retry              int
	BackoffMin         time.Duration
	BackoffMax         time.Duration
	HostAllowlist      []string
	MaxConsecutiveFail int
	CircuitOpen        time.Duration
}

// Client is a retrying HTTP client safe for concurrent use.
type Client struct {
	hc        *http.Client
	opt       Options
	failures  int32
	openUntil int64 // unix nanos until which the circuit stays open
}

// NewFromConfig builds a Client from configuration, applying defaults for
// unset fields.
func NewFromConfig(cfg *config.HTTPClientConfig) *Client {
	opt := Options{
		Timeout:            3 * time.Second,
		Retry:              1,
		BackoffMin:         100 * time.Millisecond,
		BackoffMax:         800 * time.Millisecond,
		MaxConsecutiveFail: 5,
		CircuitOpen:        5 * time.Second,
	}
	if cfg != nil {
		if cfg.TimeoutMs > 0 {
			opt.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
		}
		if cfg.Retry > 0 {
			opt.Retry = cfg.Retry
		}
		if cfg.BackoffMinMs > 0 {
			opt.BackoffMin = time.Duration(cfg.BackoffMinMs) * time.Millisecond
		}
		if cfg.BackoffMaxMs > 0 {
			opt.BackoffMax = time.Duration(cfg.BackoffMaxMs) * time.Millisecond
		}
		if cfg.MaxConsecutiveFailures > 0 {
			opt.MaxConsecutiveFail = cfg.MaxConsecutiveFailures
		}
		if cfg.CircuitOpenSeconds > 0 {
			opt.CircuitOpen = time.Duration(cfg.CircuitOpenSeconds) * time.Second
		}
		opt.HostAllowlist = cfg.HostAllowlist
	}

	transport := &http.Transport{
		DialContext:     (&net.Dialer{Timeout: opt.Timeout}).DialContext,
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		MaxIdleConns:    100,
		IdleConnTimeout: 30 * time.Second,
	}
	return &Client{
		hc:  &http.Client{Timeout: opt.Timeout, Transport: transport},
		opt: opt,
	}
}

// Do executes the request with retries. Responses with status < 500 count
// as delivered; transport errors and 5xx are retried and, past the
// consecutive-failure limit, open the circuit.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if !c.allowed(req.URL) {
		logger.Warnf("httpx: blocked outbound host %s", req.URL.Hostname())
		return nil, ErrHostNotAllowed
	}
	if atomic.LoadInt64(&c.openUntil) > time.Now().UnixNano() {
		return nil, ErrCircuitOpen
	}

	var resp *http.Response
	var err error
	for attempt := 0; attempt <= c.opt.Retry; attempt++ {
		resp, err = c.hc.Do(req)
		if err == nil && resp.StatusCode < 500 {
			atomic.StoreInt32(&c.failures, 0)
			return resp, nil
		}
		logger.Warnf("httpx: request to %s failed (attempt %d/%d): %v",
			req.URL.Hostname(), attempt+1, c.opt.Retry+1, err)
		if attempt < c.opt.Retry {
			if resp != nil && resp.Body != nil {
				_ = resp.Body.Close()
			}
			time.Sleep(jitter(c.opt.BackoffMin, c.opt.BackoffMax))
		}
	}

	if atomic.AddInt32(&c.failures, 1) >= int32(c.opt.MaxConsecutiveFail) {
		atomic.StoreInt64(&c.openUntil, time.Now().Add(c.opt.CircuitOpen).UnixNano())
		atomic.StoreInt32(&c.failures, 0)
		logger.Warnf("httpx: circuit opened for %v", c.opt.CircuitOpen)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) allowed(u *url.URL) bool {
	if len(c.opt.HostAllowlist) == 0 {
		return true
	}
	host := u.Hostname()
	for _, pattern := range c.opt.HostAllowlist {
		if matchHost(pattern, host) {
			return true
		}
	}
	return false
}

func matchHost(pattern, host string) bool {
	if pattern == "*" || strings.EqualFold(pattern, host) {
		return true
	}
	if suffix, ok := strings.CutPrefix(pattern, "*."); ok {
		return strings.EqualFold(host, suffix) ||
			strings.HasSuffix(strings.ToLower(host), "."+strings.ToLower(suffix))
	}
	return false
}

func jitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
