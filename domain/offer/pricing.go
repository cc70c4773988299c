package offer

import (
	"strconv"
	"strings"

	"golang.org/x/xerrors"

	"github.com/tokenfront/goapi/base/money"
	"github.com/tokenfront/goapi/domain"
)

// FeeDenominator scales fee rates, a rate of 250 is 2.5%
const FeeDenominator = 10000

// FeeRate is the marketplace fee in parts per ten thousand
type FeeRate struct {
	ValuePerTenThousand int64 `json:"valuePerTenThousand"`
}

// PricingContext is everything the fee endpoint prices an offer by.
// Two contexts with equal Key() must produce the same rate, which is
// what the debounced fetcher memoizes on.
type PricingContext struct {
	ChainId         domain.ChainId `json:"chainId"`
	ContractAddress domain.Address `json:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId"`
	Currency        domain.Address `json:"currency"`
	UnitPrice       money.Money    `json:"-"`
	Quantity        int64          `json:"quantity"`
}

// HasCurrency reports whether the form has picked a currency yet. No
// currency means nothing to price.
func (p PricingContext) HasCurrency() bool {
	return !p.Currency.IsEmpty()
}

// Key is the memoization identity of the context
func (p PricingContext) Key() string {
	return strings.Join([]string{
		strconv.FormatInt(int64(p.ChainId), 10),
		p.ContractAddress.ToLowerStr(),
		p.TokenId.String(),
		p.Currency.ToLowerStr(),
		p.UnitPrice.RawString(),
		strconv.FormatInt(p.Quantity, 10),
	}, ":")
}

func (p PricingContext) Equal(o PricingContext) bool {
	return p.ChainId == o.ChainId &&
		p.ContractAddress.Equals(o.ContractAddress) &&
		p.TokenId == o.TokenId &&
		p.Currency.Equals(o.Currency) &&
		p.UnitPrice.Cmp(o.UnitPrice) == 0 &&
		p.UnitPrice.Decimals() == o.UnitPrice.Decimals() &&
		p.Quantity == o.Quantity
}

// Quote is the priced form state shown next to the submit button
type Quote struct {
	TotalPrice   money.Money `json:"-"`
	TotalFee     money.Money `json:"-"`
	TotalPayable money.Money `json:"-"`
}

// ComputeFees prices an offer. A zero quantity yields an all-zero quote
// without error, that is just an untouched form. The fee floors toward
// zero, never charging a fraction of the smallest unit up.
func ComputeFees(unitPrice money.Money, quantity int64, feePerTenThousand int64) (*Quote, error) {
	if quantity < 0 {
		return nil, xerrors.Errorf("quantity %d: %w", quantity, money.ErrInvalidAmount)
	}
	if feePerTenThousand < 0 {
		return nil, xerrors.Errorf("fee rate %d: %w", feePerTenThousand, money.ErrInvalidAmount)
	}

	totalPrice, err := unitPrice.MulInt(quantity)
	if err != nil {
		return nil, err
	}
	totalFee, err := totalPrice.MulDivFloor(feePerTenThousand, FeeDenominator)
	if err != nil {
		return nil, err
	}
	totalPayable, err := totalPrice.Add(totalFee)
	if err != nil {
		return nil, err
	}

	return &Quote{
		TotalPrice:   totalPrice,
		TotalFee:     totalFee,
		TotalPayable: totalPayable,
	}, nil
}

// CanAfford reports whether balance covers the payable amount. An
// unknown balance is never affordable. A zero payable is, see
// allowsIncompleteForm.
func CanAfford(balance *money.Money, totalPayable money.Money) bool {
	if balance == nil {
		return false
	}
	if allowsIncompleteForm(totalPayable) {
		return true
	}
	return balance.GTE(totalPayable)
}

// allowsIncompleteForm: a zero payable means the user has not priced
// the form yet, and an untouched form must not be flagged unaffordable
func allowsIncompleteForm(totalPayable money.Money) bool {
	return totalPayable.IsZero()
}
