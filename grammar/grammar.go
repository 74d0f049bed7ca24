/*
Package grammar holds the productions of a context-free grammar.

Grammars are immutable once built. Productions are numbered in the order they have
been added; reduce actions of a parse table refer to them by this number.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Grammars may
contain epsilon-productions.

    b := grammar.NewBuilder("G")
    b.LHS("S").N("A").T("a").T("#eof").End()  // S  ->  A a #eof
    b.LHS("A").N("B").N("D").End()            // A  ->  B D
    b.LHS("B").T("b").End()                   // B  ->  b
    b.LHS("B").Epsilon()                      // B  ->
    b.LHS("D").T("d").End()                   // D  ->  d
    b.LHS("D").Epsilon()                      // D  ->
    g, err := b.Grammar()

This results in the following trivial grammar:

   g.Dump()

   0: S ➞ A a #eof
   1: A ➞ B D
   2: B ➞ b
   3: B ➞ ε
   4: D ➞ d
   5: D ➞ ε

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/lrdrive"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrdrive.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrdrive.lr")
}

// ErrProductionIndex is returned for production numbers outside of a grammar.
var ErrProductionIndex = errors.New("production index out of range")

// Production is a grammar rule LHS ➞ RHS. RHS may be empty (epsilon production).
type Production struct {
	Index int
	LHS   lrdrive.Symbol
	rhs   []lrdrive.Symbol
}

// RHS returns the right hand side of a production. Clients must not modify it.
func (p *Production) RHS() []lrdrive.Symbol {
	return p.rhs
}

// Len returns the number of symbols on the right hand side.
func (p *Production) Len() int {
	return len(p.rhs)
}

// IsEpsilon is true for productions with an empty right hand side.
func (p *Production) IsEpsilon() bool {
	return len(p.rhs) == 0
}

func (p *Production) String() string {
	var b strings.Builder
	b.WriteString(p.LHS.Name)
	b.WriteString(" ➞")
	if p.IsEpsilon() {
		b.WriteString(" ε")
	}
	for _, sym := range p.rhs {
		b.WriteByte(' ')
		b.WriteString(sym.Name)
	}
	return b.String()
}

// Grammar is an ordered collection of productions. It is read-only after
// construction and may be shared between parsers.
type Grammar struct {
	Name         string
	productions  []*Production
	terminals    []lrdrive.Symbol
	nonterminals []lrdrive.Symbol
	ordinals     map[lrdrive.Symbol]int
}

// Production returns the production with number i.
// It fails with ErrProductionIndex if i is not a production number of g.
func (g *Grammar) Production(i int) (*Production, error) {
	if i < 0 || i >= len(g.productions) {
		return nil, fmt.Errorf("%w: %d not in [0…%d)", ErrProductionIndex, i, len(g.productions))
	}
	return g.productions[i], nil
}

// Size returns the number of productions.
func (g *Grammar) Size() int {
	return len(g.productions)
}

// Productions returns all productions in order. Clients must not modify the slice.
func (g *Grammar) Productions() []*Production {
	return g.productions
}

// Terminals returns all terminals in order of first appearance.
func (g *Grammar) Terminals() []lrdrive.Symbol {
	return g.terminals
}

// NonTerminals returns all non-terminals in order of first appearance.
func (g *Grammar) NonTerminals() []lrdrive.Symbol {
	return g.nonterminals
}

// Ordinal returns a symbol's position within Terminals() or NonTerminals(),
// depending on the kind of symbol.
func (g *Grammar) Ordinal(sym lrdrive.Symbol) (int, bool) {
	n, ok := g.ordinals[sym]
	return n, ok
}

// Symbol looks up a symbol by name.
func (g *Grammar) Symbol(name string) (lrdrive.Symbol, bool) {
	if _, ok := g.ordinals[lrdrive.N(name)]; ok {
		return lrdrive.N(name), true
	}
	if _, ok := g.ordinals[lrdrive.T(name)]; ok {
		return lrdrive.T(name), true
	}
	return lrdrive.Symbol{}, false
}

// EachSymbol iterates over all symbols of the grammar, ordered by name.
func (g *Grammar) EachSymbol(f func(sym lrdrive.Symbol)) {
	S := treeset.NewWith(symbolComparator)
	for _, A := range g.nonterminals {
		S.Add(A)
	}
	for _, a := range g.terminals {
		S.Add(a)
	}
	for _, x := range S.Values() {
		f(x.(lrdrive.Symbol))
	}
}

// Dump is a debugging helper, tracing all productions at level Debug.
func (g *Grammar) Dump() {
	tracer().Debugf("--- grammar %s ------------------------", g.Name)
	for _, p := range g.productions {
		tracer().Debugf("%3d: %s", p.Index, p)
	}
	tracer().Debugf("---------------------------------------")
}

// Non-terminals sort before terminals, then by name.
func symbolComparator(s1, s2 interface{}) int {
	a := s1.(lrdrive.Symbol)
	b := s2.(lrdrive.Symbol)
	if a.Kind != b.Kind {
		return utils.IntComparator(-int(a.Kind), -int(b.Kind))
	}
	return utils.StringComparator(a.Name, b.Name)
}

// === Builder ===============================================================

// Builder is a helper type to construct a grammar. Use as
//
//    b := NewBuilder("G")
//    b.LHS("print_stmt").T("PRINT").T("(").N("args").T(")").End()
//    b.LHS("statements").Epsilon()
//    g, err := b.Grammar()
//
type Builder struct {
	name  string
	rules []*Production
}

// NewBuilder creates a builder for a grammar called name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// RuleBuilder appends symbols to the right hand side of a single production.
type RuleBuilder struct {
	b    *Builder
	rule *Production
}

// LHS starts a new production for non-terminal lhs.
func (b *Builder) LHS(lhs string) *RuleBuilder {
	return &RuleBuilder{
		b:    b,
		rule: &Production{LHS: lrdrive.N(lhs)},
	}
}

// N appends a non-terminal.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rule.rhs = append(rb.rule.rhs, lrdrive.N(name))
	return rb
}

// T appends a terminal.
func (rb *RuleBuilder) T(name string) *RuleBuilder {
	rb.rule.rhs = append(rb.rule.rhs, lrdrive.T(name))
	return rb
}

// End closes the production and adds it to the grammar.
func (rb *RuleBuilder) End() *Production {
	rb.rule.Index = len(rb.b.rules)
	rb.b.rules = append(rb.b.rules, rb.rule)
	return rb.rule
}

// Epsilon closes an epsilon production. Symbols appended before are dropped.
func (rb *RuleBuilder) Epsilon() *Production {
	rb.rule.rhs = nil
	return rb.End()
}

// Grammar returns the grammar built so far. It checks that no symbol name is used
// as both a terminal and a non-terminal, and that every non-terminal used on a
// right hand side has at least one production.
func (b *Builder) Grammar() (*Grammar, error) {
	if len(b.rules) == 0 {
		return nil, fmt.Errorf("grammar %q has no productions", b.name)
	}
	g := &Grammar{
		Name:        b.name,
		productions: make([]*Production, len(b.rules)),
		ordinals:    make(map[lrdrive.Symbol]int),
	}
	for i, r := range b.rules {
		g.productions[i] = &Production{
			Index: i,
			LHS:   r.LHS,
			rhs:   append([]lrdrive.Symbol(nil), r.rhs...),
		}
		g.add(r.LHS)
	}
	for _, r := range g.productions {
		for _, sym := range r.rhs {
			if sym.IsTerminal() {
				if _, isN := g.ordinals[lrdrive.N(sym.Name)]; isN {
					return nil, fmt.Errorf("symbol %q used as terminal and non-terminal", sym.Name)
				}
			} else if _, ok := g.ordinals[sym]; !ok {
				return nil, fmt.Errorf("non-terminal %q has no production", sym.Name)
			}
			g.add(sym)
		}
	}
	tracer().Debugf("grammar %q: %d productions, %d terminals, %d non-terminals",
		g.Name, len(g.productions), len(g.terminals), len(g.nonterminals))
	return g, nil
}

func (g *Grammar) add(sym lrdrive.Symbol) {
	if _, ok := g.ordinals[sym]; ok {
		return
	}
	if sym.IsTerminal() {
		g.ordinals[sym] = len(g.terminals)
		g.terminals = append(g.terminals, sym)
		return
	}
	g.ordinals[sym] = len(g.nonterminals)
	g.nonterminals = append(g.nonterminals, sym)
}
