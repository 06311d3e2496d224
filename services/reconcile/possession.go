package reconcile

import "strings"

// Possession is which body holds procedural control of a bill, derived
// from the chamber token the source prefixes onto status descriptions.
type Possession string

const (
	PossessionHouse  Possession = "house"
	PossessionSenate Possession = "senate"
	PossessionStaff  Possession = "staff"
	PossessionOther  Possession = "other"
)

var possessionTokens = map[string]Possession{
	"(H)":  PossessionHouse,
	"(S)":  PossessionSenate,
	"(C)":  PossessionStaff,
	"(LC)": PossessionStaff,
}

// SplitPossession parses a leading "(H)"/"(S)"/"(C)"/"(LC)" token off a
// raw status description, returning the possession it maps to and the
// description with the token (and one following space) stripped.
// Descriptions without a recognized token map to PossessionOther and
// are returned unchanged. This string-prefix dispatch is the single
// place the convention is interpreted.
func SplitPossession(description string) (Possession, string) {
	for token, possession := range possessionTokens {
		if !strings.HasPrefix(description, token) {
			continue
		}
		rest := strings.TrimPrefix(description, token)
		rest = strings.TrimPrefix(rest, " ")
		return possession, rest
	}
	return PossessionOther, description
}
