package format

import (
	"math"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrency(t *testing.T) {
	nan := math.NaN()
	price := 12.3

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "fraction", value: 9.5, want: "9,50 €"},
		{name: "nil", value: nil, want: "0,00 €"},
		{name: "nil_pointer", value: (*float64)(nil), want: "0,00 €"},
		{name: "pointer", value: &price, want: "12,30 €"},
		{name: "integer", value: 20, want: "20,00 €"},
		{name: "string_is_not_numeric", value: "10", want: "0,00 €"},
		{name: "nan", value: nan, want: "0,00 €"},
		{name: "infinity", value: math.Inf(1), want: "0,00 €"},
		{name: "rounds_to_two_places", value: 2.0 / 3.0, want: "0,67 €"},
		{name: "negative", value: -4.2, want: "-4,20 €"},
		{name: "no_thousands_separator", value: 1234.5, want: "1234,50 €"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(tt.value))
		})
	}
}

func TestDate(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	assert.Equal(t, "5.3.2024", Date("2024-03-05T10:00:00Z", berlin))
	assert.Equal(t, "5.3.2024", Date("2024-03-05T10:00:00Z", nil))
	assert.Equal(t, "6.3.2024", Date("2024-03-05T23:30:00Z", berlin))
	assert.Equal(t, "5.3.2024", Date("2024-03-05 10:00:00.123456+00", berlin))
	assert.Equal(t, "not-a-date", Date("not-a-date", berlin))
	assert.Equal(t, Placeholder, Date("", berlin))
	assert.Equal(t, Placeholder, Date("   ", berlin))
}

func TestDateTime(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	assert.Equal(t, "05.03.24, 11:00", DateTime("2024-03-05T10:00:00Z", berlin))
	assert.Equal(t, "05.07.24, 12:15", DateTime("2024-07-05T10:15:00.5+00:00", berlin))
	assert.Equal(t, "gestern", DateTime("gestern", berlin))
	assert.Equal(t, Placeholder, DateTime("", berlin))
}

func TestPaymentLabel(t *testing.T) {
	assert.Equal(t, "Barzahlung", PaymentLabel("bar"))
	assert.Equal(t, "Auf Rechnung", PaymentLabel("rechnung"))
	assert.Equal(t, Placeholder, PaymentLabel(""))
	assert.Equal(t, Placeholder, PaymentLabel("paypal"))
}
