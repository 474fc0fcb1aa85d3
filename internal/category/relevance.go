package category

import "github.com/davidhoeppner/LernApp2-sub000/internal/domain"

// relevanceTable fixes how relevant each track's content is to a given
// specialization. Consumers call Relevance instead of hard-coding
// pattern logic.
var relevanceTable = map[domain.Track]map[domain.Track]domain.Relevance{
	domain.TrackDPA: {
		domain.TrackDPA: domain.RelevanceHigh,
		domain.TrackAE:  domain.RelevanceLow,
	},
	domain.TrackAE: {
		domain.TrackAE:  domain.RelevanceHigh,
		domain.TrackDPA: domain.RelevanceLow,
	},
	domain.TrackGeneral: {
		domain.TrackDPA: domain.RelevanceMedium,
		domain.TrackAE:  domain.RelevanceMedium,
	},
}

// Relevance reports how useful content of the given track is to the
// given specialization. A GENERAL specialization reads every track as
// medium; anything outside the closed sets is none.
func Relevance(track, specialization domain.Track) domain.Relevance {
	if specialization == domain.TrackGeneral {
		if track.Valid() {
			return domain.RelevanceMedium
		}
		return domain.RelevanceNone
	}
	row, ok := relevanceTable[track]
	if !ok {
		return domain.RelevanceNone
	}
	if r, ok := row[specialization]; ok {
		return r
	}
	return domain.RelevanceNone
}
