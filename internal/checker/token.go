package checker

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const tokenSegments = 3

var (
	ErrMalformedToken = errors.New(msgMalformedToken)
	ErrMissingOrderID = errors.New("token has no aud claim")
)

// tokenParser only decodes segments; signatures are checked by the service.
// Padding is allowed so payloads are normalized to a multiple of 4 characters.
var tokenParser = jwt.NewParser(jwt.WithPaddingAllowed())

// ValidTokenShape reports whether token has the header.payload.signature layout.
func ValidTokenShape(token string) bool {
	return len(strings.Split(token, ".")) == tokenSegments
}

// DecodeClaims decodes the payload segment of token without verifying it.
// Claim values are left raw so a claim the checker does not read can never
// make the token unusable.
func DecodeClaims(token string) (map[string]json.RawMessage, error) {
	segments := strings.Split(token, ".")
	if len(segments) != tokenSegments {
		return nil, fmt.Errorf("%w: expected %d segments, got %d", ErrMalformedToken, tokenSegments, len(segments))
	}

	payload, err := tokenParser.DecodeSegment(segments[1])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode payload: %w", ErrMalformedToken, err)
	}

	var claims map[string]json.RawMessage
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: failed to parse claims: %w", ErrMalformedToken, err)
	}

	return claims, nil
}

// OrderID returns the order identifier carried in the aud claim of token.
// The claim may be a string, an array whose first entry is used, or a number.
func OrderID(token string) (string, error) {
	claims, err := DecodeClaims(token)
	if err != nil {
		return "", err
	}

	raw, ok := claims["aud"]
	if !ok || string(raw) == "null" {
		return "", fmt.Errorf("%w: %w", ErrMalformedToken, ErrMissingOrderID)
	}

	orderID, err := audience(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	return orderID, nil
}

func audience(raw json.RawMessage) (string, error) {
	var aud jwt.ClaimStrings
	if err := json.Unmarshal(raw, &aud); err == nil {
		if len(aud) == 0 || aud[0] == "" {
			return "", ErrMissingOrderID
		}
		return aud[0], nil
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return "", fmt.Errorf("unsupported aud claim %s", raw)
	}
	return number.String(), nil
}
