package liveness

import "cfa/internal/cfg"

// cloneSet creates a copy of a VarSet.
func cloneSet(s cfg.VarSet) cfg.VarSet {
	out := make(cfg.VarSet, len(s))
	for name := range s {
		out[name] = struct{}{}
	}
	return out
}

// unionSet merges src into dst and returns dst.
func unionSet(dst, src cfg.VarSet) cfg.VarSet {
	if dst == nil {
		dst = cfg.VarSet{}
	}
	for name := range src {
		dst[name] = struct{}{}
	}
	return dst
}

// subtractSet returns src minus sub.
func subtractSet(src, sub cfg.VarSet) cfg.VarSet {
	out := cfg.VarSet{}
	for name := range src {
		if sub.Has(name) {
			continue
		}
		out[name] = struct{}{}
	}
	return out
}

// setEqual checks if two VarSets contain the same names.
func setEqual(a, b cfg.VarSet) bool {
	if len(a) != len(b) {
		return false
	}
	for name := range a {
		if !b.Has(name) {
			return false
		}
	}
	return true
}
