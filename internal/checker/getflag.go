package checker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const receiptPath = "/receipt"

var errMissingAddress = errors.New("receipt has no address")

// Receipt is the order receipt served by the pizza service. Only Address is
// required; the other fields are decoded when they have the expected type.
type Receipt struct {
	Address   string
	Name      string
	Timestamp string
	Items     []ReceiptItem
}

type ReceiptItem struct {
	ID          string `json:"id"`
	Price       string `json:"price"`
	Count       string `json:"count"`
	Description string `json:"description"`
}

// ParseReceipt decodes a receipt body and requires a string address field.
func ParseReceipt(data []byte) (Receipt, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return Receipt{}, fmt.Errorf("failed to parse receipt: %w", err)
	}

	raw, ok := doc["address"]
	if !ok || string(raw) == "null" {
		return Receipt{}, errMissingAddress
	}

	var receipt Receipt
	if err := json.Unmarshal(raw, &receipt.Address); err != nil {
		return Receipt{}, fmt.Errorf("failed to parse receipt address: %w", err)
	}

	optional := map[string]any{
		"name":        &receipt.Name,
		"timestamp":   &receipt.Timestamp,
		"order_items": &receipt.Items,
	}
	for key, dst := range optional {
		if value, ok := doc[key]; ok {
			_ = json.Unmarshal(value, dst)
		}
	}

	return receipt, nil
}

// GetFlag recovers the order from token and reads the flag back from its
// receipt. flagID is accepted for symmetry with SetFlag but the order is
// identified by the token's aud claim.
func (c *Checker) GetFlag(ctx context.Context, flagID, token string) GetFlagResult {
	result := GetFlagResult{Status: Down}

	orderID, err := OrderID(token)
	if err != nil {
		c.logger.Info("refusing malformed token", zap.Error(err))
		return result.withFailure(newFailure(KindMalformedToken, msgMalformedToken, err))
	}

	logger := c.logger.With(zap.String("order_id", orderID))
	logger.Debug("fetching receipt")

	body, err := c.fetchReceipt(ctx, orderID, token)
	if err != nil {
		failure := Classify(err)
		logger.Info("get flag failed", zap.Stringer("kind", failure.Kind), zap.Error(err))
		return result.withFailure(failure)
	}

	receipt, err := ParseReceipt(body)
	if err != nil {
		logger.Warn("failed to deserialize receipt", zap.Error(err))
		return result.withFailure(newFailure(KindDeserialize, msgDeserialize, err))
	}

	result.Flag = receipt.Address
	result.Status = Functional
	result.Kind = KindNone
	logger.Debug("flag retrieved",
		zap.String("name", receipt.Name),
		zap.String("timestamp", receipt.Timestamp),
		zap.Int("items", len(receipt.Items)),
	)

	return result
}

func (c *Checker) fetchReceipt(ctx context.Context, orderID, token string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.getFlagTimeout)
	defer cancel()

	query := url.Values{"order_id": {orderID}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(receiptPath, query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	return io.ReadAll(resp.Body)
}

// GetFlag runs a single get-flag check against host:port.
func GetFlag(ctx context.Context, host string, port int, flagID, token string, opts ...Option) GetFlagResult {
	c, err := NewChecker(Config{Target: Target{Host: host, Port: port}}, opts...)
	if err != nil {
		return GetFlagResult{Status: Down, Kind: KindUnknown, Message: err.Error()}
	}
	return c.GetFlag(ctx, flagID, token)
}
