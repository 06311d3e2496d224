package reconcile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitPossession(t *testing.T) {
	cases := []struct {
		input       string
		possession  Possession
		description string
	}{
		{"(H) Referred to Committee", PossessionHouse, "Referred to Committee"},
		{"(S) 3rd Reading Passed", PossessionSenate, "3rd Reading Passed"},
		{"(C) Bill Draft Text Available", PossessionStaff, "Bill Draft Text Available"},
		{"(LC) Draft Request Received", PossessionStaff, "Draft Request Received"},
		{"Chapter Number Assigned", PossessionOther, "Chapter Number Assigned"},
		{"(H)Introduced", PossessionHouse, "Introduced"},
		{"", PossessionOther, ""},
	}

	for _, c := range cases {
		possession, description := SplitPossession(c.input)
		require.Equal(t, c.possession, possession, c.input)
		require.Equal(t, c.description, description, c.input)
	}
}
