package sim

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ezrec/asmsim/expr"
)

// BranchInfo records one branch decision taken on a path.
type BranchInfo struct {
	Cond   expr.Bool // Branch condition, true when the branch is taken.
	Taken  bool      // Direction of the path.
	LineNo int       // Line of the branch, or -1 for a merge placeholder.
}

// Key identifies the branch condition independent of direction.
func (bi BranchInfo) Key() expr.Handle {
	return bi.Cond.Handle()
}

// Constraint returns the condition as seen by the path.
func (bi BranchInfo) Constraint() expr.Bool {
	if bi.Taken {
		return bi.Cond
	}
	return bi.Cond.Not()
}

// Negate returns the decision of the other direction.
func (bi BranchInfo) Negate() BranchInfo {
	bi.Taken = !bi.Taken
	return bi
}

func (bi BranchInfo) String() string {
	dir := "taken"
	if !bi.Taken {
		dir = "not taken"
	}
	return fmt.Sprintf("%d: %v %s", bi.LineNo, bi.Cond, dir)
}

// BranchInfoStore is the ordered list of decisions taken by a path.
// A condition appears at most once.
type BranchInfoStore struct {
	entries []BranchInfo
}

// Len returns the number of decisions.
func (bis *BranchInfoStore) Len() int {
	return len(bis.entries)
}

// Entries returns the decisions in order.
func (bis *BranchInfoStore) Entries() []BranchInfo {
	return slices.Clone(bis.entries)
}

// Find returns the decision made on a condition.
func (bis *BranchInfoStore) Find(key expr.Handle) (bi BranchInfo, ok bool) {
	for _, entry := range bis.entries {
		if entry.Key() == key {
			return entry, true
		}
	}
	return
}

// Add appends a decision. A repeated decision is ignored; a repeated
// condition with the opposite direction makes the path infeasible, and is
// kept so the store reports it.
func (bis *BranchInfoStore) Add(bi BranchInfo) {
	for _, entry := range bis.entries {
		if entry.Key() == bi.Key() && entry.Taken == bi.Taken {
			return
		}
	}
	bis.entries = append(bis.entries, bi)
}

// Clone returns an independent copy.
func (bis *BranchInfoStore) Clone() *BranchInfoStore {
	return &BranchInfoStore{entries: slices.Clone(bis.entries)}
}

// Constraints returns the constraint of every decision.
func (bis *BranchInfoStore) Constraints() (list []expr.Bool) {
	for _, entry := range bis.entries {
		list = append(list, entry.Constraint())
	}
	return
}

func (bis *BranchInfoStore) String() string {
	var sb strings.Builder
	for _, entry := range bis.entries {
		sb.WriteString(entry.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// SharedBranchInfo is the comparison of two stores.
type SharedBranchInfo struct {
	Prefix         []BranchInfo // Longest identical leading run.
	Common         []BranchInfo // Every decision present in both, in the order of the first store.
	OnlyA          []BranchInfo // Decisions of the first store on conditions the second never saw.
	OnlyB          []BranchInfo // Decisions of the second store on conditions the first never saw.
	Discriminators []BranchInfo // Conditions decided both ways, with the first store's direction.
}

// RetrieveSharedBranchInfo compares the decisions of two paths.
func RetrieveSharedBranchInfo(a, b *BranchInfoStore) (shared SharedBranchInfo) {
	n := 0
	for n < len(a.entries) && n < len(b.entries) {
		ea, eb := a.entries[n], b.entries[n]
		if ea.Key() != eb.Key() || ea.Taken != eb.Taken {
			break
		}
		n++
	}
	shared.Prefix = slices.Clone(a.entries[:n])

	for _, ea := range a.entries {
		eb, ok := b.Find(ea.Key())
		switch {
		case !ok:
			shared.OnlyA = append(shared.OnlyA, ea)
		case eb.Taken == ea.Taken:
			shared.Common = append(shared.Common, ea)
		default:
			shared.Discriminators = append(shared.Discriminators, ea)
		}
	}

	for _, eb := range b.entries {
		if _, ok := a.Find(eb.Key()); !ok {
			shared.OnlyB = append(shared.OnlyB, eb)
		}
	}

	return
}
