// Package scan turns raw scanner/keyboard input into a typed lookup token.
// A token is either a bare Daana ID or a QR-embedded JSON payload carrying
// one; malformed JSON is not an error, it just means the token is plain.
package scan

import (
	"encoding/json"
	"strings"
)

// Kind distinguishes the two token variants
type Kind int

const (
	KindPlain Kind = iota
	KindPayload
)

// QRPayload is the compact JSON printed on unit labels. Only the "u"
// field is authoritative for lookup; the rest are display hints and are
// not re-validated against the stored record.
type QRPayload struct {
	DaanaID      string `json:"u"`
	LotPrefix    string `json:"l,omitempty"`
	Generic      string `json:"g,omitempty"`
	Strength     string `json:"s,omitempty"`
	Form         string `json:"f,omitempty"`
	ExpDate      string `json:"x,omitempty"`
	LocationName string `json:"loc,omitempty"`
}

// Encode serializes the payload for label printing and storage on the unit
func (p *QRPayload) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Token is the parsed form of one scanner/keyboard input
type Token struct {
	Kind    Kind
	ID      string     // Lookup key: payload's "u" field, or the trimmed raw input
	Payload *QRPayload // Non-nil only for KindPayload
	Raw     string     // Trimmed original input
}

// Parse classifies raw input. The second return is false for
// empty/whitespace-only input, which callers treat as a no-op.
func Parse(raw string) (*Token, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, false
	}

	var payload QRPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil && payload.DaanaID != "" {
		return &Token{
			Kind:    KindPayload,
			ID:      payload.DaanaID,
			Payload: &payload,
			Raw:     trimmed,
		}, true
	}

	return &Token{Kind: KindPlain, ID: trimmed, Raw: trimmed}, true
}
