package category

import "github.com/davidhoeppner/LernApp2-sub000/internal/domain"

// DefaultRules is the bundled rule table for the IHK category scheme.
// BP-* categories are specialization-specific exam parts, FUE-* are the
// shared "Fachrichtungsübergreifende" areas. Order of evaluation is by
// priority; the slice itself may be listed in any order.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          "bp-dpa-prefix",
			Priority:    10,
			Pattern:     "BP-DPA",
			TargetTrack: domain.TrackDPA,
			Description: "Berufsprofilgebende Kompetenzen der Daten- und Prozessanalyse",
		},
		{
			ID:          "bp-ae-prefix",
			Priority:    20,
			Pattern:     "BP-AE",
			TargetTrack: domain.TrackAE,
			Description: "Berufsprofilgebende Kompetenzen der Anwendungsentwicklung",
		},
		{
			ID:          "bp-generic-prefix",
			Priority:    30,
			Pattern:     "BP",
			TargetTrack: domain.TrackAE,
			Description: "Unspezifische BP-Kategorien laufen im AE-Katalog",
		},
		{
			ID:          "fue-prefix",
			Priority:    40,
			Pattern:     "FUE",
			TargetTrack: domain.TrackGeneral,
			Description: "Fachrichtungsübergreifende berufsprofilgebende Kompetenzen",
		},
	}
}
