package mongoclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tokenfront/goapi/base/ptr"
)

func TestMakeBsonM(t *testing.T) {
	type PatchableQuote struct {
		PriceUnit *string `bson:"priceUnit,omitempty"`
		Quantity  *int    `bson:"quantity,omitempty"`
		Currency  string  `bson:"currency"`
		Note      string  `bson:"note"`
	}

	patchable := &PatchableQuote{}
	patchable.PriceUnit = ptr.String("")
	patchable.Quantity = ptr.Int(3)
	patchable.Note = "resubmitted"

	updater, err := MakeBsonM(patchable)

	assert.NoError(t, err)
	assert.Equal(
		t,
		bson.M{
			"priceUnit": "",
			"quantity":  3,
			// currency is empty, so ignore
			"note": "resubmitted",
		},
		updater,
	)
}
