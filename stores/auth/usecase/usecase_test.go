package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bCtx "github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/domain"
)

func TestSignAndParseToken(t *testing.T) {
	uc := New("test-secret")
	c := bCtx.Background()

	token, err := uc.SignToken(c, domain.Address("0x00000000000000000000000000000000000000AA"))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	address, err := uc.ParseToken(c, token)
	require.NoError(t, err)
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", address)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	c := bCtx.Background()

	token, err := New("secret-a").SignToken(c, domain.Address("0x00000000000000000000000000000000000000aa"))
	require.NoError(t, err)

	_, err = New("secret-b").ParseToken(c, token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := New("test-secret").ParseToken(bCtx.Background(), "not-a-token")
	assert.Error(t, err)
}
