package content

import (
	"sort"
	"strings"

	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
)

// RelatedOptions steer the related-content lookup.
type RelatedOptions struct {
	// MaxPerTrack caps results per track; zero means 3.
	MaxPerTrack int
}

// RelatedContent finds modules sharing tags with the given module across
// all tracks, ranked by the size of the symmetric tag intersection.
// Returns nil when the id is unknown.
func (r *Registry) RelatedContent(id string, opts RelatedOptions) map[domain.Track][]EnrichedModule {
	base := r.GetModule(id)
	if base == nil {
		return nil
	}
	max := opts.MaxPerTrack
	if max <= 0 {
		max = 3
	}

	baseTags := tagSet(base.Tags)
	type scored struct {
		module  domain.Module
		overlap int
	}
	byTrack := make(map[domain.Track][]scored)
	for _, candidate := range r.AllModules() {
		if candidate.ID == id {
			continue
		}
		overlap := 0
		for tag := range tagSet(candidate.Tags) {
			if baseTags[tag] {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		byTrack[candidate.Track] = append(byTrack[candidate.Track], scored{module: candidate, overlap: overlap})
	}

	out := make(map[domain.Track][]EnrichedModule, len(byTrack))
	for track, candidates := range byTrack {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].overlap > candidates[j].overlap
		})
		if len(candidates) > max {
			candidates = candidates[:max]
		}
		enriched := make([]EnrichedModule, 0, len(candidates))
		for _, c := range candidates {
			enriched = append(enriched, r.Enrich(c.module))
		}
		out[track] = enriched
	}
	return out
}

func tagSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized != "" {
			set[normalized] = true
		}
	}
	return set
}
