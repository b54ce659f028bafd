// Package automaton implements a rooted labelled trie, addressed by
// integer node index rather than reference-counted pointers, that
// consumes a stream of Char/Reset instructions and emits matching
// rule IDs.
package automaton

import "horsetab/model"

const rootNode = 0

// node is one trie node: outgoing edges keyed by '.'/'-' and the
// rule IDs that terminate here, in insertion order.
type node struct {
	edges   map[byte]int
	results []int
}

func newNode() *node {
	return &node{edges: make(map[byte]int)}
}

// Automaton is the runtime trie plus its traversal cursor.
type Automaton struct {
	nodes   []*node
	current int
	failed  bool
}

// New creates an automaton with only the root node.
func New() *Automaton {
	return &Automaton{nodes: []*node{newNode()}}
}

// Insert adds sequence as a path from the root, appending ruleID to
// the terminal node's result list. It is idempotent for repeated
// (sequence, ruleID) pairs and tolerates sequences shared by several
// rule IDs: all of them end up at the same node and fire together.
func (a *Automaton) Insert(sequence string, ruleID int) {
	cur := rootNode
	for i := 0; i < len(sequence); i++ {
		c := sequence[i]
		next, ok := a.nodes[cur].edges[c]
		if !ok {
			next = len(a.nodes)
			a.nodes = append(a.nodes, newNode())
			a.nodes[cur].edges[c] = next
		}
		cur = next
	}
	for _, id := range a.nodes[cur].results {
		if id == ruleID {
			return
		}
	}
	a.nodes[cur].results = append(a.nodes[cur].results, ruleID)
}

// Put feeds one instruction into the automaton and returns the list of
// matched rule IDs, or nil if nothing matched (including every Reset
// instruction, which never matches).
//
// On a match the cursor resets to the root immediately, so the same
// sequence may start matching again on the very next Char.
func (a *Automaton) Put(instr model.Instruction) []int {
	if instr.Kind == model.Reset {
		a.current = rootNode
		a.failed = false
		return nil
	}

	if a.failed {
		return nil
	}

	next, ok := a.nodes[a.current].edges[instr.Char]
	if !ok {
		a.failed = true
		return nil
	}
	a.current = next

	results := a.nodes[a.current].results
	if len(results) == 0 {
		return nil
	}

	out := make([]int, len(results))
	copy(out, results)
	a.current = rootNode
	a.failed = false
	return out
}

// Reset returns the cursor to the root and clears the failed flag,
// equivalent to Put(model.ResetInstruction()) but without the
// model.Instruction wrapping, handy for tests and the config compiler's
// unreachability scan.
func (a *Automaton) Reset() {
	a.current = rootNode
	a.failed = false
}

// Failed reports whether the cursor is currently in the failure sink.
func (a *Automaton) Failed() bool {
	return a.failed
}
