package recommend

import "sort"

// Encode one-hot encodes a basket. Columns are the sorted union of all ids; row order follows the basket.
func Encode(b Basket) Matrix {
	seen := make(map[string]struct{})
	for _, set := range b {
		for _, id := range set {
			seen[id] = struct{}{}
		}
	}

	cols := make([]string, 0, len(seen))
	for id := range seen {
		cols = append(cols, id)
	}
	sort.Strings(cols)

	index := make(map[string]int, len(cols))
	for i, id := range cols {
		index[id] = i
	}

	rows := make([][]bool, len(b))
	for r, set := range b {
		row := make([]bool, len(cols))
		for _, id := range set {
			row[index[id]] = true
		}
		rows[r] = row
	}

	return Matrix{Columns: cols, Rows: rows}
}
