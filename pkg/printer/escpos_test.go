package printer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{name: "fits", in: "Widget", width: 10, want: []string{"Widget"}},
		{name: "breaks_on_space", in: "Gurken aus Spanien", width: 10, want: []string{"Gurken aus", "Spanien"}},
		{name: "long_word_is_split", in: "Donaudampfschiff", width: 8, want: []string{"Donaudam", "pfschiff"}},
		{name: "keeps_newlines", in: "a\nb", width: 10, want: []string{"a", "b"}},
		{name: "empty", in: "", width: 10, want: []string{""}},
		{name: "counts_runes", in: "Größe Öl", width: 8, want: []string{"Größe Öl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.in, tt.width))
		})
	}
}

func TestDocument_EncodesCodePage858(t *testing.T) {
	doc := NewDocument(32)
	doc.Text("Summe 9,50 €")

	out := doc.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte{ESC, '@', ESC, 't', codePagePC858}))
	assert.Contains(t, string(out), "Summe 9,50 \xd5")
}

func TestDocument_KeyValuePadsToWidth(t *testing.T) {
	doc := NewDocument(20)
	doc.Reset()
	before := len(doc.Bytes())
	doc.KeyValue("Summe", "1,00 €")

	line := doc.Bytes()[before:]
	// 20 columns plus the line feed; the euro sign is a single byte in CP858.
	assert.Len(t, line, 21)
	assert.True(t, strings.HasPrefix(string(line), "Summe "))
}

func TestNewPrinterFromConfig(t *testing.T) {
	p, err := NewPrinterFromConfig("none", "", "")
	require.NoError(t, err)
	assert.False(t, p.IsConnected())
	assert.NoError(t, p.Print(context.Background(), strings.NewReader("job")))

	_, err = NewPrinterFromConfig("usb", "", "")
	assert.Error(t, err)

	_, err = NewPrinterFromConfig("network", "", "")
	assert.Error(t, err)

	_, err = NewPrinterFromConfig("fax", "", "")
	assert.Error(t, err)
}
