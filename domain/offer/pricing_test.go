package offer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenfront/goapi/base/money"
	"github.com/tokenfront/goapi/domain"
)

func TestComputeFees(t *testing.T) {
	cases := []struct {
		name             string
		unitPrice        string
		decimals         int32
		quantity         int64
		rate             int64
		wantTotalPrice   string
		wantTotalFee     string
		wantTotalPayable string
		wantErr          bool
	}{
		{
			name:      "ten times three at 2.5%",
			unitPrice: "10.00", decimals: 2, quantity: 3, rate: 250,
			wantTotalPrice: "30", wantTotalFee: "0.75", wantTotalPayable: "30.75",
		},
		{
			name:      "zero quantity is an untouched form",
			unitPrice: "10.00", decimals: 2, quantity: 0, rate: 250,
			wantTotalPrice: "0", wantTotalFee: "0", wantTotalPayable: "0",
		},
		{
			name:      "zero rate",
			unitPrice: "5", decimals: 18, quantity: 2, rate: 0,
			wantTotalPrice: "10", wantTotalFee: "0", wantTotalPayable: "10",
		},
		{
			name:      "fee floors toward zero",
			unitPrice: "0.0001", decimals: 4, quantity: 1, rate: 250,
			wantTotalPrice: "0.0001", wantTotalFee: "0", wantTotalPayable: "0.0001",
		},
		{
			name:      "negative quantity",
			unitPrice: "1", decimals: 2, quantity: -1, rate: 250,
			wantErr: true,
		},
		{
			name:      "negative rate",
			unitPrice: "1", decimals: 2, quantity: 1, rate: -5,
			wantErr: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			unitPrice := money.MustParse(c.unitPrice, c.decimals)
			quote, err := ComputeFees(unitPrice, c.quantity, c.rate)
			if c.wantErr {
				require.ErrorIs(t, err, money.ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.wantTotalPrice, quote.TotalPrice.Display())
			assert.Equal(t, c.wantTotalFee, quote.TotalFee.Display())
			assert.Equal(t, c.wantTotalPayable, quote.TotalPayable.Display())
		})
	}
}

func TestComputeFeesExactSum(t *testing.T) {
	unitPrice := money.MustParse("3.33", 2)
	quote, err := ComputeFees(unitPrice, 7, 123)
	require.NoError(t, err)

	sum, err := quote.TotalPrice.Add(quote.TotalFee)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Cmp(quote.TotalPayable))
}

func TestCanAfford(t *testing.T) {
	five := money.MustParse("5", 2)
	zero := money.Zero(2)

	// unknown balance is never affordable
	assert.False(t, CanAfford(nil, zero))
	assert.False(t, CanAfford(nil, five))

	// zero payable with a known balance always is
	assert.True(t, CanAfford(&zero, zero))
	assert.True(t, CanAfford(&five, zero))

	// otherwise plain comparison
	ten := money.MustParse("10", 2)
	assert.True(t, CanAfford(&ten, five))
	assert.True(t, CanAfford(&five, five))
	assert.False(t, CanAfford(&zero, five))
}

func TestPricingContextEqual(t *testing.T) {
	base := PricingContext{
		ChainId:         1,
		ContractAddress: "0x00000000000000000000000000000000000000AA",
		TokenId:         "1",
		Currency:        "0x00000000000000000000000000000000000000bb",
		UnitPrice:       money.MustParse("1.5", 18),
		Quantity:        2,
	}

	same := base
	same.ContractAddress = base.ContractAddress.ToLower()
	assert.True(t, base.Equal(same))
	assert.Equal(t, base.Key(), same.Key())

	diff := base
	diff.Quantity = 3
	assert.False(t, base.Equal(diff))
	assert.NotEqual(t, base.Key(), diff.Key())
}

func TestPricingContextHasCurrency(t *testing.T) {
	p := PricingContext{}
	assert.False(t, p.HasCurrency())
	p.Currency = domain.Address("0x00000000000000000000000000000000000000bb")
	assert.True(t, p.HasCurrency())
}
