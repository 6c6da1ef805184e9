package state

import (
	"fmt"
	"strings"
)

// Policy is the rule that combines a new contribution with the existing value
// of a key.
type Policy int

const (
	// Replace keeps the last written value.
	Replace Policy = iota
	// Append concatenates contributions in execution order.
	Append
)

func (p Policy) String() string {
	switch p {
	case Replace:
		return "replace"
	case Append:
		return "append"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy parses "replace" or "append" (case-insensitive). An empty string
// yields Replace.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replace":
		return Replace, nil
	case "append":
		return Append, nil
	default:
		return Replace, fmt.Errorf("unknown merge policy %q: must be 'replace' or 'append'", s)
	}
}

// MetricsKey is the reserved key that collects one metric record per node.
const MetricsKey = "metrics"

// IsReserved reports whether key may only be written through MergeReserved.
func IsReserved(key string) bool {
	return key == MetricsKey
}

// Schema declares the merge policy of individual keys. Undeclared keys use
// Replace; reserved keys always use Append.
type Schema map[string]Policy

// PolicyOf returns the effective policy for key.
func (s Schema) PolicyOf(key string) Policy {
	if IsReserved(key) {
		return Append
	}
	if p, ok := s[key]; ok {
		return p
	}
	return Replace
}
