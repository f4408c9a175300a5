package chain

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nutcas3/tokenized-credit/internal/credit"
	"github.com/nutcas3/tokenized-credit/internal/units"
)

// =============================================================================
// Tranche Accounting Contract
// =============================================================================
//
// The contract exposes a separate method per tranche rather than a kind
// argument; the kind is resolved to a method name here.

// DepositToTranche invests amount (stable units) into a tranche.
func (g *Gateway) DepositToTranche(ctx context.Context, kind credit.TrancheKind, amount decimal.Decimal) (string, error) {
	amountUnits, err := units.ToChainUnits(amount, units.StableTokenDecimals)
	if err != nil {
		return "", err
	}

	method := "depositToJunior"
	if kind.IsSenior() {
		method = "depositToSenior"
	}
	return g.write(ctx, g.tranche, method, amountUnits.String())
}

// WithdrawFromTranche redeems shares (share units) from a tranche.
func (g *Gateway) WithdrawFromTranche(ctx context.Context, kind credit.TrancheKind, shares decimal.Decimal) (string, error) {
	shareUnits, err := units.ToChainUnits(shares, units.ShareTokenDecimals)
	if err != nil {
		return "", err
	}

	method := "withdrawFromJunior"
	if kind.IsSenior() {
		method = "withdrawFromSenior"
	}
	return g.write(ctx, g.tranche, method, shareUnits.String())
}

// GetTrancheSnapshot returns a read-only projection of one tranche.
func (g *Gateway) GetTrancheSnapshot(ctx context.Context, kind credit.TrancheKind) (*credit.TrancheSnapshot, error) {
	method := "getJuniorTrancheInfo"
	if kind.IsSenior() {
		method = "getSeniorTrancheInfo"
	}

	raw, err := g.read(ctx, g.tranche, method)
	if err != nil {
		return nil, err
	}

	// (totalInvested, totalShares, yieldRate)
	fields, err := ParseTuple(raw, 3)
	if err != nil {
		return nil, err
	}

	totalInvested, err := ParseBigInt(fields[0])
	if err != nil {
		return nil, err
	}
	totalShares, err := ParseBigInt(fields[1])
	if err != nil {
		return nil, err
	}
	yieldRate, err := ParseInt64(fields[2])
	if err != nil {
		return nil, err
	}

	return &credit.TrancheSnapshot{
		Kind:          kind,
		TotalInvested: units.ToDecimal(totalInvested, units.StableTokenDecimals),
		TotalShares:   units.ToDecimal(totalShares, units.ShareTokenDecimals),
		YieldRate:     yieldRate,
		// Yield rate is basis points; APY is the percentage view.
		APY: decimal.NewFromInt(yieldRate).Div(decimal.NewFromInt(100)),
	}, nil
}

// GetTotalValueLocked returns the combined stable-token value of both
// tranches.
func (g *Gateway) GetTotalValueLocked(ctx context.Context) (decimal.Decimal, error) {
	return g.readStableAmount(ctx, g.tranche, "getTotalValueLocked")
}

// GetShareEstimate quotes the shares minted for a deposit of amount.
func (g *Gateway) GetShareEstimate(ctx context.Context, kind credit.TrancheKind, amount decimal.Decimal) (decimal.Decimal, error) {
	amountUnits, err := units.ToChainUnits(amount, units.StableTokenDecimals)
	if err != nil {
		return decimal.Zero, err
	}

	method := "calculateJuniorShares"
	if kind.IsSenior() {
		method = "calculateSeniorShares"
	}
	return g.readShareAmount(ctx, method, amountUnits.String())
}

// GetShareBalance returns an address's share balance in one tranche.
func (g *Gateway) GetShareBalance(ctx context.Context, kind credit.TrancheKind, address string) (decimal.Decimal, error) {
	method := "getJuniorShareBalance"
	if kind.IsSenior() {
		method = "getSeniorShareBalance"
	}
	return g.readShareAmount(ctx, method, address)
}

func (g *Gateway) readShareAmount(ctx context.Context, method string, args ...any) (decimal.Decimal, error) {
	raw, err := g.read(ctx, g.tranche, method, args...)
	if err != nil {
		return decimal.Zero, err
	}
	v, err := ParseBigInt(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return units.ToDecimal(v, units.ShareTokenDecimals), nil
}
