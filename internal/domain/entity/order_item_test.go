package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveQuantity(t *testing.T) {
	tests := []struct {
		name       string
		item       RawOrderItem
		want       float64
		wantSource QuantitySource
	}{
		{name: "primary_number", item: RawOrderItem{"quantity": 3.0}, want: 3, wantSource: QuantityPrimary},
		{name: "legacy_only", item: RawOrderItem{"qty": 4.0}, want: 4, wantSource: QuantityLegacy},
		{name: "legacy_numeric_string", item: RawOrderItem{"qty": "7"}, want: 7, wantSource: QuantityLegacy},
		{name: "primary_wins", item: RawOrderItem{"quantity": 2.0, "qty": 9.0}, want: 2, wantSource: QuantityPrimary},
		{name: "primary_non_numeric_falls_back", item: RawOrderItem{"quantity": "viele", "qty": 5.0}, want: 5, wantSource: QuantityLegacy},
		{name: "primary_numeric_string", item: RawOrderItem{"quantity": " 1.5 "}, want: 1.5, wantSource: QuantityPrimary},
		{name: "both_garbage", item: RawOrderItem{"quantity": "x", "qty": true}, want: 0, wantSource: QuantityDefault},
		{name: "blank_string", item: RawOrderItem{"quantity": "  "}, want: 0, wantSource: QuantityDefault},
		{name: "missing", item: RawOrderItem{}, want: 0, wantSource: QuantityDefault},
		{name: "nil_item", item: nil, want: 0, wantSource: QuantityDefault},
		{name: "zero_is_a_value", item: RawOrderItem{"quantity": 0.0, "qty": 3.0}, want: 0, wantSource: QuantityPrimary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveQuantity(tt.item))
			_, source := resolveQuantity(tt.item)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestNormalizeItems(t *testing.T) {
	t.Run("keeps_order_and_resolves_fields", func(t *testing.T) {
		raw := []byte(`[
			{"name": "Widget", "unit": "pc", "price": 10, "quantity": 2},
			{"name": "Gurken", "unit": "kg", "price": "2.5", "qty": 3},
			{"name": 42, "unit": null, "price": "gratis"}
		]`)

		items := NormalizeItems(raw)
		require.Len(t, items, 3)

		assert.Equal(t, OrderItem{Name: "Widget", Unit: "pc", Price: 10, Quantity: 2, QuantitySource: QuantityPrimary}, items[0])
		assert.Equal(t, OrderItem{Name: "Gurken", Unit: "kg", Price: 2.5, Quantity: 3, QuantitySource: QuantityLegacy}, items[1])
		assert.Equal(t, OrderItem{Name: "42", Unit: "", Price: 0, Quantity: 0, QuantitySource: QuantityDefault}, items[2])
	})

	t.Run("not_an_array", func(t *testing.T) {
		for _, raw := range []string{`{"name": "x"}`, `"items"`, `null`, ``, `{broken`} {
			items := NormalizeItems([]byte(raw))
			assert.NotNil(t, items, raw)
			assert.Empty(t, items, raw)
		}
	})

	t.Run("non_object_elements_keep_positions", func(t *testing.T) {
		items := NormalizeItems([]byte(`[1, {"name": "Salz", "quantity": 1}]`))
		require.Len(t, items, 2)
		assert.Equal(t, OrderItem{}, items[0])
		assert.Equal(t, "Salz", items[1].Name)
	})
}

func TestOrderDeliveryInstructions(t *testing.T) {
	blank := "   "
	note := "Hintereingang benutzen"

	_, ok := (&Order{}).DeliveryInstructions()
	assert.False(t, ok)

	_, ok = (&Order{DeliveryNote: &blank}).DeliveryInstructions()
	assert.False(t, ok)

	got, ok := (&Order{DeliveryNote: &note}).DeliveryInstructions()
	assert.True(t, ok)
	assert.Equal(t, note, got)
}
