// Package recommend derives "bought together" recommendations from purchase history.
//
// Every call rebuilds the pipeline from the full transaction table:
//
//	transactions -> Basket -> Matrix -> frequent itemsets (Apriori) -> association rules -> matches
//
// Nothing is cached between calls. Ordering is deterministic at every stage so the same history and
// thresholds always produce the same recommendations in the same order.
package recommend

import (
	"sort"
	"strings"
)

// ItemSet is a sorted, de-duplicated set of product ids.
type ItemSet []string

// NewItemSet builds an ItemSet from ids in any order, dropping duplicates and empty ids.
func NewItemSet(ids ...string) ItemSet {
	seen := make(map[string]struct{}, len(ids))
	out := make(ItemSet, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether id is a member.
func (s ItemSet) Contains(id string) bool {
	i := sort.SearchStrings(s, id)
	return i < len(s) && s[i] == id
}

// SubsetOf reports whether every member of s is in other. The empty set is a subset of anything.
func (s ItemSet) SubsetOf(other ItemSet) bool {
	if len(s) > len(other) {
		return false
	}
	for _, id := range s {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

func (s ItemSet) key() string {
	return strings.Join(s, "\x00")
}

// Basket is one ItemSet per transaction, in transaction order.
type Basket []ItemSet

// Matrix is the one-hot encoding of a Basket: Rows[t][c] is true when transaction t contains Columns[c].
type Matrix struct {
	Columns []string
	Rows    [][]bool
}

// FrequentItemset is an itemset whose support met the miner's threshold.
type FrequentItemset struct {
	Items   ItemSet `json:"items"`
	Support float64 `json:"support"`
}

// Rule is an association rule Antecedent -> Consequent.
type Rule struct {
	Antecedent ItemSet `json:"antecedent"`
	Consequent ItemSet `json:"consequent"`
	Support    float64 `json:"support"`
	Confidence float64 `json:"confidence"`
	Lift       float64 `json:"lift"`
	Leverage   float64 `json:"leverage"`
}

// Config holds the mining thresholds and result limits.
type Config struct {
	MinSupport    float64
	MinLift       float64
	MaxLen        int
	MaxResults    int
	FallbackLimit int
}

// DefaultConfig returns the thresholds the shop has always used.
func DefaultConfig() Config {
	return Config{
		MinSupport:    0.01,
		MinLift:       1.0,
		MaxResults:    5,
		FallbackLimit: 4,
	}
}
