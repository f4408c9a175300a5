package chain

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// =============================================================================
// Result Parsers
// =============================================================================
//
// The node encodes contract return values as JSON: integers as base-10
// strings (uint256 does not fit a JSON number), booleans natively, tuples as
// arrays in declaration order.

// ParseBigInt parses an integer result.
func ParseBigInt(raw json.RawMessage) (*big.Int, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// Small integers may arrive as plain numbers.
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("unexpected integer encoding: %s", raw)
		}
		s = n.String()
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("parse integer %q", s)
	}
	return v, nil
}

// ParseInt64 parses an integer result that fits in 64 bits.
func ParseInt64(raw json.RawMessage) (int64, error) {
	v, err := ParseBigInt(raw)
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() {
		return 0, fmt.Errorf("integer %s overflows int64", v)
	}
	return v.Int64(), nil
}

// ParseBool parses a boolean result.
func ParseBool(raw json.RawMessage) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, fmt.Errorf("unexpected boolean encoding: %s", raw)
	}
	return b, nil
}

// ParseString parses a string result.
func ParseString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("unexpected string encoding: %s", raw)
	}
	return s, nil
}

// ParseTuple parses a tuple result into its fields and verifies arity.
func ParseTuple(raw json.RawMessage, want int) ([]json.RawMessage, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("unexpected tuple encoding: %s", raw)
	}
	if len(fields) != want {
		return nil, fmt.Errorf("tuple has %d fields, want %d", len(fields), want)
	}
	return fields, nil
}
