package matcher

import "unicode"

// node is one state of the automaton: the case-folded prefix spelled by the path from the root.
type node struct {
	children map[rune]*node
	fail     *node
	terminal bool // some pattern ends here or at a state reachable through failure links
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Automaton is a trie over case-folded patterns with failure links (Aho-Corasick).
// With the single pattern of a run every child of the root fails back to the root
// and it behaves like the classic single-pattern automaton, while the scan loop
// stays unchanged for more patterns. It is immutable after construction and safe
// for concurrent use; scanning state lives in a Cursor.
type Automaton struct {
	root *node
}

// NewAutomaton builds the trie for the given patterns and links failure transitions.
func NewAutomaton(patterns ...string) *Automaton {
	root := newNode()
	for _, pattern := range patterns {
		current := root
		for _, r := range pattern {
			r = unicode.ToLower(r)
			next, exists := current.children[r]
			if !exists {
				next = newNode()
				current.children[r] = next
			}
			current = next
		}
		current.terminal = true
	}

	a := &Automaton{root: root}
	a.buildFailureLinks()
	return a
}

// buildFailureLinks assigns failure links breadth-first so a node's link is resolved before its children's.
func (a *Automaton) buildFailureLinks() {
	queue := make([]*node, 0, len(a.root.children))
	for _, child := range a.root.children {
		child.fail = a.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for r, child := range current.children {
			fallback := current.fail
			for fallback != nil && fallback.children[r] == nil {
				fallback = fallback.fail
			}
			if fallback == nil {
				child.fail = a.root
			} else {
				child.fail = fallback.children[r]
			}
			if child.fail.terminal {
				child.terminal = true
			}
			queue = append(queue, child)
		}
	}
}

// MatchesEmpty reports whether the empty pattern is part of the automaton, in which case every input matches.
func (a *Automaton) MatchesEmpty() bool {
	return a.root.terminal
}

// NewCursor returns a fresh scanning position at the root.
func (a *Automaton) NewCursor() *Cursor {
	return &Cursor{root: a.root, current: a.root}
}

// Cursor is the scanning position of one pass over a text. It is not safe for concurrent use.
type Cursor struct {
	root    *node
	current *node
}

// Step consumes one rune and reports whether a pattern ends at it.
func (c *Cursor) Step(r rune) bool {
	r = unicode.ToLower(r)
	for c.current != c.root && c.current.children[r] == nil {
		c.current = c.current.fail
	}
	if next, exists := c.current.children[r]; exists {
		c.current = next
	}
	return c.current.terminal
}

// Reset moves the cursor back to the root, e.g. at a line boundary.
func (c *Cursor) Reset() {
	c.current = c.root
}
