package goal

import "sort"

// Link is a directed, visualization-only edge between two days. It records
// chronological adjacency at creation time and is never recomputed; a
// duplicate or missing link must never block a setter.
type Link struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// NewLink builds the edge from source day to target day using the same id
// scheme the canvas expects.
func NewLink(source, target string) Link {
	return Link{
		ID:     "e" + source + "-" + target,
		Source: source,
		Target: target,
	}
}

// NearestEarlier returns the day that a freshly created node at date should
// link from: the candidate with a date strictly earlier than the new one.
// When several candidates exist the winner is the one with the greatest id
// under plain string comparison. Day ids are date keys, so this picks the
// chronologically closest earlier day; the string tie-break is kept
// deliberately (see DESIGN.md).
func NearestEarlier(days []Day, date string) (Day, bool) {
	candidates := make([]Day, 0, len(days))
	for _, d := range days {
		if d.Date < date {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return Day{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID() > candidates[j].ID()
	})
	return candidates[0], true
}

// ChainLinks builds the session-bootstrap edge set: one link from each day
// to its chronological successor. The input order does not matter.
func ChainLinks(days []Day) []Link {
	if len(days) < 2 {
		return nil
	}
	ordered := make([]Day, len(days))
	copy(ordered, days)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Date < ordered[j].Date
	})

	links := make([]Link, 0, len(ordered)-1)
	for i := 1; i < len(ordered); i++ {
		links = append(links, NewLink(ordered[i-1].ID(), ordered[i].ID()))
	}
	return links
}
