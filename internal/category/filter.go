package category

import "github.com/davidhoeppner/LernApp2-sub000/internal/domain"

// FilterOptions steer the specialization filter.
type FilterOptions struct {
	// MinRelevance is the inclusive threshold; zero value means keep all.
	MinRelevance domain.Relevance
	// IncludeGeneral gates GENERAL-track items: when true they are kept
	// regardless of the relevance threshold, when false they are dropped.
	IncludeGeneral bool
}

func keep(track, specialization domain.Track, opts FilterOptions) bool {
	if track == domain.TrackGeneral {
		return opts.IncludeGeneral
	}
	return Relevance(track, specialization).Rank() >= opts.MinRelevance.Rank()
}

// FilterModules keeps the modules relevant to a specialization,
// preserving input order.
func FilterModules(modules []domain.Module, specialization domain.Track, opts FilterOptions) []domain.Module {
	out := make([]domain.Module, 0, len(modules))
	for _, m := range modules {
		if keep(m.Track, specialization, opts) {
			out = append(out, m)
		}
	}
	return out
}

// FilterQuizzes keeps the quizzes relevant to a specialization,
// preserving input order.
func FilterQuizzes(quizzes []domain.Quiz, specialization domain.Track, opts FilterOptions) []domain.Quiz {
	out := make([]domain.Quiz, 0, len(quizzes))
	for _, q := range quizzes {
		if keep(q.Track, specialization, opts) {
			out = append(out, q)
		}
	}
	return out
}
