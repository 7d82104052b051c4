package layout

import (
	"slices"

	"github.com/matzehuels/argmap/pkg/argument"
)

// MaxPasses bounds the number of layering passes after layer 0. Statements
// still unplaced afterwards form one final fallback layer.
const MaxPasses = 20

// Strata assigns the statements of t to bottom-up layers.
//
// Layer 0 holds every statement that is not the conclusion of any inference.
// A later statement joins the next layer once every inference concluding it
// has all of its premises placed in earlier layers. Statements that never
// become eligible (cycles, self-support) are appended as a fallback layer.
//
// Members of each layer are sorted by id, so the result depends only on the
// set of statements and inferences, not on their order. Premise and
// conclusion ids that do not name a statement are ignored.
//
// Time complexity is O(P × (S + I)) where P ≤ [MaxPasses].
func Strata(t argument.Tree) [][]string {
	statements := make(map[string]bool, len(t.Statements))
	for _, s := range t.Statements {
		if s.ID != "" {
			statements[s.ID] = true
		}
	}
	if len(statements) == 0 {
		return nil
	}

	// premisesFor[c] lists the premise sets of every inference concluding c.
	premisesFor := make(map[string][][]string)
	for _, inf := range t.Inferences {
		if !statements[inf.ConclusionID] {
			continue
		}
		var ps []string
		for _, p := range inf.PremiseIDs {
			if statements[p] {
				ps = append(ps, p)
			}
		}
		premisesFor[inf.ConclusionID] = append(premisesFor[inf.ConclusionID], ps)
	}

	placed := make(map[string]bool, len(statements))
	var layers [][]string

	var first []string
	for id := range statements {
		if len(premisesFor[id]) == 0 {
			first = append(first, id)
		}
	}
	if len(first) > 0 {
		slices.Sort(first)
		layers = append(layers, first)
		for _, id := range first {
			placed[id] = true
		}
	}

	for pass := 0; pass < MaxPasses && len(placed) < len(statements); pass++ {
		var next []string
		for id := range statements {
			if placed[id] {
				continue
			}
			if eligible(premisesFor[id], placed) {
				next = append(next, id)
			}
		}
		if len(next) == 0 {
			break
		}
		slices.Sort(next)
		// Mark only after the scan so a layer never depends on itself.
		for _, id := range next {
			placed[id] = true
		}
		layers = append(layers, next)
	}

	if len(placed) < len(statements) {
		var rest []string
		for id := range statements {
			if !placed[id] {
				rest = append(rest, id)
			}
		}
		slices.Sort(rest)
		layers = append(layers, rest)
	}

	return layers
}

func eligible(premiseSets [][]string, placed map[string]bool) bool {
	for _, ps := range premiseSets {
		for _, p := range ps {
			if !placed[p] {
				return false
			}
		}
	}
	return true
}
