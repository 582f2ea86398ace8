package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const (
	orderPath = "/order"
	pizzaID   = "1"
)

// SetFlag places an order with flag as the delivery address and a fresh flag
// ID as the customer name, and returns the token the service issued for it.
func (c *Checker) SetFlag(ctx context.Context, flag string) SetFlagResult {
	result := SetFlagResult{
		FlagID: NewFlagID(),
		Status: Down,
	}

	logger := c.logger.With(zap.String("flag_id", result.FlagID))
	logger.Debug("placing order")

	token, err := c.placeOrder(ctx, flag, result.FlagID)
	if err != nil {
		failure := Classify(err)
		logger.Info("set flag failed", zap.Stringer("kind", failure.Kind), zap.Error(err))
		return result.withFailure(failure)
	}

	result.Token = token
	if !ValidTokenShape(token) {
		logger.Info("service returned malformed token", zap.String("token", token))
		return result.withFailure(newFailure(KindMalformedToken, msgMalformedToken, ErrMalformedToken))
	}

	result.Status = Functional
	result.Kind = KindNone
	logger.Debug("flag stored")

	return result
}

func (c *Checker) placeOrder(ctx context.Context, flag, flagID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.setFlagTimeout)
	defer cancel()

	form := url.Values{
		"address":  {flag},
		"name":     {flagID},
		"pizza_id": {pizzaID},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(orderPath, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(body)), nil
}

// SetFlag runs a single set-flag check against host:port.
func SetFlag(ctx context.Context, host string, port int, flag string, opts ...Option) SetFlagResult {
	c, err := NewChecker(Config{Target: Target{Host: host, Port: port}}, opts...)
	if err != nil {
		return SetFlagResult{Status: Down, Kind: KindUnknown, Message: err.Error()}
	}
	return c.SetFlag(ctx, flag)
}
