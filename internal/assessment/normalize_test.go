package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "accents and punctuation", in: "Évènement!", want: "evenement"},
		{name: "spacing", in: "  l' or  des   rois ", want: "lordesrois"},
		{name: "case", in: "OTTOMANS", want: "ottomans"},
		{name: "digits kept", in: "An 1492.", want: "an1492"},
		{name: "cedilla", in: "François Ier", want: "francoisier"},
		{name: "empty", in: "", want: ""},
		{name: "only punctuation", in: "?!;,", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeEquality(t *testing.T) {
	// The property the blank/free-response validators rely on.
	assert.Equal(t, Normalize("Évènement!"), Normalize("evenement"))
	assert.Equal(t, Normalize("Méditerranée"), Normalize(" mediterranee "))
	assert.NotEqual(t, Normalize("epices"), Normalize("epees"))
}
