// Package webhook receives change notifications from the country data
// provider and keeps the local catalog in step.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ohip/ohip/pkg/country"
)

// Event types sent in the X-Event header.
const (
	EventCountryUpdated = "country.updated"
	EventCountryDeleted = "country.deleted"
)

// VerifySignature validates the X-Signature-256 header against the payload.
func VerifySignature(payload []byte, signature string, secret []byte) error {
	if !strings.HasPrefix(signature, "sha256=") {
		return fmt.Errorf("invalid signature format")
	}
	sig, err := hex.DecodeString(signature[7:])
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := mac.Sum(nil)

	if !hmac.Equal(sig, expected) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

// CountryEvent is the payload of both event types. Record is optional on
// updates: without it the country is re-fetched from the provider.
type CountryEvent struct {
	ISOCode string          `json:"iso_code"`
	Record  *country.Record `json:"record,omitempty"`
}

// ParseEvent decodes a webhook payload for the given event type.
func ParseEvent(eventType string, payload []byte) (*CountryEvent, error) {
	switch eventType {
	case EventCountryUpdated, EventCountryDeleted:
	default:
		return nil, fmt.Errorf("unsupported event type: %s", eventType)
	}

	var e CountryEvent
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, fmt.Errorf("parse %s event: %w", eventType, err)
	}
	e.ISOCode = strings.ToUpper(e.ISOCode)
	if e.ISOCode == "" && e.Record != nil {
		e.ISOCode = e.Record.ISOCode
	}
	if e.ISOCode == "" {
		return nil, fmt.Errorf("parse %s event: missing iso_code", eventType)
	}
	if e.Record != nil && e.Record.ISOCode != e.ISOCode {
		return nil, fmt.Errorf("parse %s event: record %q does not match iso_code %q", eventType, e.Record.ISOCode, e.ISOCode)
	}
	return &e, nil
}
