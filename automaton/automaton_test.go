package automaton

import (
	"reflect"
	"testing"

	"horsetab/model"
)

func feed(a *Automaton, seq string) []int {
	var last []int
	for i := 0; i < len(seq); i++ {
		last = a.Put(model.CharInstruction(seq[i]))
	}
	return last
}

func TestInsertAndMatch(t *testing.T) {
	a := New()
	a.Insert(".-", 0)

	got := feed(a, ".-")
	if !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("got %v, want [0]", got)
	}
}

func TestResetOnMatchAllowsImmediateRematch(t *testing.T) {
	a := New()
	a.Insert(".-", 0)

	// Feeding s.s (".-.-") should match rule 0 twice: once at position
	// 2 and again at position 4, because a match resets the cursor.
	matches := 0
	seq := ".-.-"
	for i := 0; i < len(seq); i++ {
		if res := a.Put(model.CharInstruction(seq[i])); len(res) > 0 {
			matches++
			if res[0] != 0 {
				t.Errorf("match %d got rule %v, want [0]", matches, res)
			}
		}
	}
	if matches != 2 {
		t.Errorf("got %d matches, want 2", matches)
	}
}

func TestFailureSinkPersistsUntilReset(t *testing.T) {
	a := New()
	a.Insert(".-", 0)

	if res := a.Put(model.CharInstruction('-')); res != nil {
		t.Fatalf("unexpected match: %v", res)
	}
	if !a.Failed() {
		t.Fatal("expected failed flag set")
	}

	// Further chars return nil while failed.
	if res := a.Put(model.CharInstruction('.')); res != nil {
		t.Fatalf("unexpected match while failed: %v", res)
	}

	a.Put(model.ResetInstruction())
	if a.Failed() {
		t.Fatal("expected failed flag cleared after reset")
	}

	// Matching resumes on the next Char.
	got := feed(a, ".-")
	if !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("got %v, want [0] after reset", got)
	}
}

func TestSharedSequenceFiresAllRulesInInsertionOrder(t *testing.T) {
	a := New()
	a.Insert(".-.-", 5)
	a.Insert(".-.-", 2)

	got := feed(a, ".-.-")
	if !reflect.DeepEqual(got, []int{5, 2}) {
		t.Fatalf("got %v, want [5 2] in insertion order", got)
	}
}

func TestCharAgainstEmptyTreeFails(t *testing.T) {
	a := New()
	if res := a.Put(model.CharInstruction('.')); res != nil {
		t.Fatalf("unexpected match on empty tree: %v", res)
	}
	if !a.Failed() {
		t.Fatal("expected failed flag set on empty tree")
	}
}

func TestPrefixSequenceResolvesAtShorterMatch(t *testing.T) {
	// Per spec scenario 3: [".-", ".-.-"] inserted in order; feeding
	// ".-.-" matches rule 0 at step 2 and resets, then matches rule 0
	// again at step 4, so rule 1 never fires from this single feed (it
	// is unreachable, verified by the config compiler's reachability
	// scan).
	a := New()
	a.Insert(".-", 0)
	a.Insert(".-.-", 1)

	var results [][]int
	seq := ".-.-"
	for i := 0; i < len(seq); i++ {
		if res := a.Put(model.CharInstruction(seq[i])); res != nil {
			results = append(results, res)
		}
	}
	if !reflect.DeepEqual(results, [][]int{{0}, {0}}) {
		t.Fatalf("got %v, want two matches of rule 0 and none of rule 1", results)
	}
}
