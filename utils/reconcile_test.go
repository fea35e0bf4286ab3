package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcileLastName(t *testing.T) {
	tests := []struct {
		name     string
		lastName string
		text     string
		want     string
	}{
		{
			name:     "unchanged when line equals MRZ value",
			lastName: "DOE",
			text:     "PASSPORT\nDOE\nJOHN",
			want:     "DOE",
		},
		{
			name:     "later matching line wins",
			lastName: "DOE",
			text:     "SURNAME DOE\nJOHN\nDOE-SMITH\nP<UTODOE<<JOHN",
			want:     "P<UTODOE<<JOHN",
		},
		{
			name:     "second of two matches",
			lastName: "ERIKSSON",
			text:     "ERIKSSON\nANNA\nERIKSSON MARIA",
			want:     "ERIKSSON MARIA",
		},
		{
			name:     "no match keeps MRZ value",
			lastName: "DOE",
			text:     "SOMETHING ELSE\nENTIRELY",
			want:     "DOE",
		},
		{
			name:     "empty surname is left alone",
			lastName: "",
			text:     "A\nB\n",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReconcileLastName(tt.lastName, tt.text))
		})
	}
}

func TestReconcileFirstName(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		text      string
		want      string
	}{
		{
			name:      "idempotent on exact line",
			firstName: "JOHN",
			text:      "DOE\nJOHN\n",
			want:      "JOHN",
		},
		{
			name:      "uses first token and strips punctuation",
			firstName: "J0HN PAUL",
			text:      "DOE\n  J0HN~DOE!!  \n",
			want:      "J0HNDOE",
		},
		{
			name:      "last matching line wins",
			firstName: "ANNA MARIA",
			text:      "ANNA\nGIVEN NAMES: ANNA MARIA\n",
			want:      "GIVEN NAMES ANNA MARIA",
		},
		{
			name:      "underscores are removed",
			firstName: "ANNA",
			text:      "__ANNA__",
			want:      "ANNA",
		},
		{
			name:      "no match keeps full MRZ value",
			firstName: "ANNA MARIA",
			text:      "NOTHING HERE",
			want:      "ANNA MARIA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReconcileFirstName(tt.firstName, tt.text))
		})
	}
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "J0HNDOE", CleanName("J0HN~DOE!!"))
	assert.Equal(t, "MARIECLAIRE", CleanName(" MARIE-CLAIRE "))
	assert.Equal(t, "ÉLODIE", CleanName("«ÉLODIE»"))
}
