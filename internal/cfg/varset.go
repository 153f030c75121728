package cfg

import "slices"

// VarSet is an unordered set of variable names.
type VarSet map[string]struct{}

func (s *VarSet) Add(name string) {
	if *s == nil {
		*s = VarSet{}
	}
	(*s)[name] = struct{}{}
}

func (s *VarSet) AddAll(names []string) {
	for _, n := range names {
		s.Add(n)
	}
}

func (s VarSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the names in ascending byte order.
func (s VarSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
