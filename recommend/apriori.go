package recommend

import (
	"context"
	"strconv"
	"strings"
)

// Miner finds frequent itemsets with the level-wise Apriori algorithm.
type Miner struct {
	MinSupport float64
	MaxLen     int // 0 = no limit
}

// candidate is an itemset of column indices (ascending) plus the rows that contain it.
type candidate struct {
	cols []int
	rows []int
}

// Mine returns every itemset with support >= MinSupport, ordered by size and then lexicographically.
// A matrix without rows yields no itemsets.
func (m Miner) Mine(ctx context.Context, mx Matrix) ([]FrequentItemset, error) {
	n := len(mx.Rows)
	if n == 0 || len(mx.Columns) == 0 {
		return nil, nil
	}
	total := float64(n)

	level := make([]candidate, 0, len(mx.Columns))
	for c := range mx.Columns {
		var rows []int
		for r := range mx.Rows {
			if mx.Rows[r][c] {
				rows = append(rows, r)
			}
		}
		if float64(len(rows))/total >= m.MinSupport {
			level = append(level, candidate{cols: []int{c}, rows: rows})
		}
	}

	var (
		out []FrequentItemset
		err error
	)
	for k := 1; len(level) > 0; k++ {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		for i, cand := range level {
			if i > 0 && i%checkEvery == 0 {
				if err = ctx.Err(); err != nil {
					return nil, err
				}
			}
			out = append(out, FrequentItemset{
				Items:   columnsToItems(mx.Columns, cand.cols),
				Support: float64(len(cand.rows)) / total,
			})
		}
		if m.MaxLen > 0 && k >= m.MaxLen {
			break
		}
		if level, err = m.nextLevel(ctx, level, total); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// nextLevel joins itemsets of size k sharing a (k-1)-prefix and keeps the frequent ones whose
// k-subsets are all frequent. It stops with ctx's error once ctx is done.
func (m Miner) nextLevel(ctx context.Context, level []candidate, total float64) ([]candidate, error) {
	frequent := make(map[string]struct{}, len(level))
	for _, c := range level {
		frequent[colsKey(c.cols)] = struct{}{}
	}

	var next []candidate
	var joins int
	for i := 0; i < len(level); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a := level[i].cols
		for j := i + 1; j < len(level); j++ {
			b := level[j].cols
			if !samePrefix(a, b) {
				break
			}
			if joins++; joins%checkEvery == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			cols := make([]int, len(a)+1)
			copy(cols, a)
			cols[len(a)] = b[len(b)-1]

			if !allSubsetsFrequent(cols, frequent) {
				continue
			}
			rows := intersect(level[i].rows, level[j].rows)
			if float64(len(rows))/total >= m.MinSupport {
				next = append(next, candidate{cols: cols, rows: rows})
			}
		}
	}
	return next, nil
}

func samePrefix(a, b []int) bool {
	for i := 0; i < len(a)-1; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func allSubsetsFrequent(cols []int, frequent map[string]struct{}) bool {
	if len(cols) <= 2 {
		return true
	}
	sub := make([]int, 0, len(cols)-1)
	for skip := range cols {
		sub = sub[:0]
		for i, c := range cols {
			if i != skip {
				sub = append(sub, c)
			}
		}
		if _, ok := frequent[colsKey(sub)]; !ok {
			return false
		}
	}
	return true
}

func intersect(a, b []int) []int {
	out := make([]int, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

func colsKey(cols []int) string {
	var sb strings.Builder
	for i, c := range cols {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(c))
	}
	return sb.String()
}

func columnsToItems(columns []string, cols []int) ItemSet {
	items := make(ItemSet, len(cols))
	for i, c := range cols {
		items[i] = columns[c]
	}
	return items
}
