package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenfront/goapi/domain"
)

func TestEdition(t *testing.T) {
	single := &Asset{
		TokenType: domain.TokenType721,
		Owner:     domain.Address("0x00000000000000000000000000000000000000aa"),
		Supply:    1,
	}
	ed, err := single.Edition()
	require.NoError(t, err)
	se, ok := ed.(SingleEdition)
	require.True(t, ok)
	assert.Equal(t, single.Owner, se.Owner)
	assert.Equal(t, int64(1), ed.MaxQuantity())

	multi := &Asset{
		TokenType: domain.TokenType1155,
		Supply:    500,
	}
	ed, err = multi.Edition()
	require.NoError(t, err)
	me, ok := ed.(MultiEdition)
	require.True(t, ok)
	assert.Equal(t, int64(500), me.Supply)
	assert.Equal(t, int64(500), ed.MaxQuantity())

	unknown := &Asset{TokenType: domain.TokenType(42)}
	_, err = unknown.Edition()
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
}
