package recommend

import (
	"context"
	"math/bits"

	"anonshop/api/logger"
	"anonshop/api/metrics"
)

// maxSplitItems is the widest itemset whose splits fit a uint64 antecedent mask.
const maxSplitItems = 63

// checkEvery is how many inner-loop steps run between context checks.
const checkEvery = 1 << 10

// GenerateRules derives association rules from frequent itemsets, keeping those with lift >= minLift.
//
// For an itemset X split into antecedent A and consequent C:
//
//	confidence = s(X) / s(A)
//	lift       = confidence / s(C)
//	leverage   = s(X) - s(A)*s(C)
//
// Splits where either side has zero or unknown support are skipped. Rules come out in itemset order and,
// within an itemset, in antecedent bitmask order. Enumeration stops with ctx's error once ctx is done.
func GenerateRules(ctx context.Context, itemsets []FrequentItemset, minLift float64) ([]Rule, error) {
	return generate(ctx, itemsets, minLift, nil)
}

// MatchingRules is GenerateRules restricted to rules whose antecedent is contained in history.
// Only those splits are enumerated, so the cost follows the overlap with history rather than 2^|X|.
func MatchingRules(ctx context.Context, itemsets []FrequentItemset, minLift float64, history ItemSet) ([]Rule, error) {
	if history == nil {
		history = ItemSet{}
	}
	return generate(ctx, itemsets, minLift, history)
}

func generate(ctx context.Context, itemsets []FrequentItemset, minLift float64, history ItemSet) ([]Rule, error) {
	support := make(map[string]float64, len(itemsets))
	for _, fi := range itemsets {
		support[fi.Items.key()] = fi.Support
	}

	var inHistory map[string]struct{}
	if history != nil {
		inHistory = make(map[string]struct{}, len(history))
		for _, id := range history {
			inHistory[id] = struct{}{}
		}
	}

	var rules []Rule
	var steps int
	for _, fi := range itemsets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := len(fi.Items)
		if n < 2 {
			continue
		}
		if n > maxSplitItems {
			metrics.SkippedItemsets.Inc()
			logger.Warn(ctx).Int("items", n).Msg("Itemset too wide to split into rules, skipping")
			continue
		}

		full := uint64(1)<<n - 1
		allowed := full
		if inHistory != nil {
			allowed = 0
			for i, id := range fi.Items {
				if _, ok := inHistory[id]; ok {
					allowed |= 1 << i
				}
			}
		}

		// Walk the non-empty submasks of allowed in ascending order.
		for mask := -allowed & allowed; mask != 0; mask = (mask - allowed) & allowed {
			if steps++; steps%checkEvery == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			if mask == full {
				continue
			}
			if r, ok := ruleFor(fi, mask, support, minLift); ok {
				rules = append(rules, r)
			}
		}
	}
	return rules, nil
}

func ruleFor(fi FrequentItemset, mask uint64, support map[string]float64, minLift float64) (Rule, bool) {
	ante, cons := split(fi.Items, mask)

	sA, okA := support[ante.key()]
	sC, okC := support[cons.key()]
	if !okA || !okC || sA == 0 || sC == 0 {
		return Rule{}, false
	}

	confidence := fi.Support / sA
	lift := confidence / sC
	if lift < minLift {
		return Rule{}, false
	}
	return Rule{
		Antecedent: ante,
		Consequent: cons,
		Support:    fi.Support,
		Confidence: confidence,
		Lift:       lift,
		Leverage:   fi.Support - sA*sC,
	}, true
}

func split(items ItemSet, mask uint64) (ItemSet, ItemSet) {
	ante := make(ItemSet, 0, bits.OnesCount64(mask))
	cons := make(ItemSet, 0, len(items)-len(ante))
	for i, id := range items {
		if mask&(1<<i) != 0 {
			ante = append(ante, id)
		} else {
			cons = append(cons, id)
		}
	}
	return ante, cons
}

// Match unions the consequents of every rule whose antecedent is contained in history, in rule order,
// without duplicates, stopping at limit ids (limit <= 0 means no limit).
func Match(rules []Rule, history ItemSet, limit int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rules {
		if !r.Antecedent.SubsetOf(history) {
			continue
		}
		for _, id := range r.Consequent {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
			if limit > 0 && len(out) >= limit {
				return out
			}
		}
	}
	return out
}
