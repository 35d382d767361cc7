package aig

// Rewriter takes a circuit and returns a functionally equivalent one,
// typically smaller, together with a map from every one of the input
// circuit's CI literals to its corresponding literal in the new one. A
// caller that numbered CIs by a pre-existing variable id (as the
// interpolant synthesizer does, for shared variables) needs that map to
// carry its numbering across the rewrite. definitions.GetDefinition applies
// a Rewriter after building the raw interpolant circuit and before Tseitin
// encoding.
type Rewriter interface {
	Rewrite(c *Circuit) (*Circuit, map[Lit]Lit)
}

// NopRewriter returns its input unchanged, with the identity CI map. It is
// the zero-value default: building the interpolant circuit and encoding it
// to CNF never requires a rewrite pass, it only benefits from one.
type NopRewriter struct{}

func (NopRewriter) Rewrite(c *Circuit) (*Circuit, map[Lit]Lit) {
	identity := make(map[Lit]Lit, len(c.cis))
	for _, l := range c.cis {
		identity[l] = l
	}
	return c, identity
}
