package chain

import (
	"context"
	"fmt"
)

// =============================================================================
// Access Control Contract
// =============================================================================

// Role names recognized by the access controller.
const (
	RoleUnderwriter = "underwriter"
	RoleAdmin       = "admin"
)

// HasRole reports whether an address holds a named role.
func (g *Gateway) HasRole(ctx context.Context, address, role string) (bool, error) {
	switch role {
	case RoleUnderwriter:
		return g.IsUnderwriter(ctx, address)
	case RoleAdmin:
		return g.IsAdmin(ctx, address)
	default:
		return false, fmt.Errorf("unknown role %q", role)
	}
}

// IsUnderwriter reports whether an address holds the underwriter role.
func (g *Gateway) IsUnderwriter(ctx context.Context, address string) (bool, error) {
	return g.readBool(ctx, "isUnderwriter", address)
}

// IsAdmin reports whether an address holds the admin role.
func (g *Gateway) IsAdmin(ctx context.Context, address string) (bool, error) {
	return g.readBool(ctx, "isAdmin", address)
}

func (g *Gateway) readBool(ctx context.Context, method string, args ...any) (bool, error) {
	raw, err := g.read(ctx, g.access, method, args...)
	if err != nil {
		return false, err
	}
	return ParseBool(raw)
}
