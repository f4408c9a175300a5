package chain

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nutcas3/tokenized-credit/internal/credit"
	"github.com/nutcas3/tokenized-credit/internal/units"
)

// =============================================================================
// Stable Token Contract
// =============================================================================

// GetBalance returns an address's stable-token balance.
func (g *Gateway) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	return g.readStableAmount(ctx, g.stable, "balanceOf", address)
}

// GetAllowance returns the stable-token amount owner has authorized the
// spender contract to move on its behalf.
func (g *Gateway) GetAllowance(ctx context.Context, owner string, spender credit.Spender) (decimal.Decimal, error) {
	return g.readStableAmount(ctx, g.stable, "allowance", owner, g.spenderAddress(spender))
}

// ApproveSpender authorizes the spender contract to move amount of the
// relay's stable tokens. This is the first half of every approve-then-act
// sequence; the acting call must follow separately.
func (g *Gateway) ApproveSpender(ctx context.Context, spender credit.Spender, amount decimal.Decimal) (string, error) {
	amountUnits, err := units.ToChainUnits(amount, units.StableTokenDecimals)
	if err != nil {
		return "", err
	}
	return g.write(ctx, g.stable, "approve", g.spenderAddress(spender), amountUnits.String())
}
