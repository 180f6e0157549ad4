package models

import (
	"errors"
	"testing"

	"github.com/makerledger/inventory_backend/utils"
	"github.com/shopspring/decimal"
)

func TestValidateRecipeLineRejectsBadInput(t *testing.T) {
	product := &Product{ID: 1, OrgId: "org"}

	cases := []struct {
		name  string
		input *NewRecipeLine
	}{
		{"missing part", &NewRecipeLine{Quantity: decimal.NewFromInt(1)}},
		{"zero quantity", &NewRecipeLine{PartId: 2, Quantity: decimal.Zero}},
		{"negative quantity", &NewRecipeLine{PartId: 2, Quantity: decimal.NewFromInt(-3)}},
	}
	for _, tc := range cases {
		// Validation fails before any lookup, so no transaction is needed.
		err := ValidateRecipeLine(nil, product, tc.input)
		if !errors.Is(err, utils.ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", tc.name, err)
		}
	}
}
