package goal

// Graph is the set of all current days plus the set of all current links.
// It is a plain value: setters receive a graph and return a new one, so
// callers can treat mutation as replacement.
type Graph struct {
	Days  []Day
	Links []Link
}

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	out := Graph{}
	if g.Days != nil {
		out.Days = make([]Day, len(g.Days))
		for i, d := range g.Days {
			out.Days[i] = d.Clone()
		}
	}
	if g.Links != nil {
		out.Links = make([]Link, len(g.Links))
		copy(out.Links, g.Links)
	}
	return out
}

// FindDay returns the index of the day with the given id, or -1.
// Day identity is the date key, so lookups by id and by date coincide.
func (g Graph) FindDay(id string) int {
	for i, d := range g.Days {
		if d.ID() == id {
			return i
		}
	}
	return -1
}

// AddLink appends a link edge. Links are informational; no uniqueness
// check is performed here.
func (g Graph) AddLink(link Link) Graph {
	out := g
	out.Links = append(append([]Link{}, g.Links...), link)
	return out
}
