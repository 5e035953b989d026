package repair

// chainState is the automaton state while validating a chain: the run is
// on the baseline, inside a subscript, or inside a superscript.
type chainState int

const (
	stateNormal chainState = iota
	stateSub
	stateSuper
)

// Chain is a validated sequence of merges into one head chunk.
type Chain struct {
	Head  ChunkRef
	Links []Candidate
}

// ResolveChains links candidates transitively into chains and validates
// each with the three-state automaton. One invalid transition drops the
// whole chain; partial merges would leave text that reads differently from
// how it renders.
func ResolveChains(cands []Candidate) []Chain {
	byAnchor := make(map[ChunkRef]Candidate, len(cands))
	isCand := make(map[ChunkRef]bool, len(cands))
	for _, c := range cands {
		byAnchor[c.Anchor] = c
		isCand[c.Cand] = true
	}

	var out []Chain
	for _, c := range cands {
		if isCand[c.Anchor] {
			continue
		}
		chain := Chain{Head: c.Anchor}
		seen := map[ChunkRef]bool{c.Anchor: true}
		cur := c.Anchor
		for {
			link, ok := byAnchor[cur]
			if !ok || seen[link.Cand] {
				break
			}
			seen[link.Cand] = true
			chain.Links = append(chain.Links, link)
			cur = link.Cand
		}
		if len(chain.Links) > 0 && validChain(chain.Links) {
			out = append(out, chain)
		}
	}
	return out
}

// validChain runs the automaton over the chain's relation sequence.
func validChain(links []Candidate) bool {
	state := stateNormal
	for _, l := range links {
		switch l.Rel {
		case RelSame:
			// Stays in whatever run is open.
		case RelSub:
			if state != stateNormal {
				return false
			}
			state = stateSub
		case RelSuper:
			if state != stateNormal {
				return false
			}
			state = stateSuper
		case RelSubReturn:
			if state != stateSub {
				return false
			}
			state = stateNormal
		case RelSuperReturn:
			if state != stateSuper {
				return false
			}
			state = stateNormal
		default:
			return false
		}
	}
	return true
}
