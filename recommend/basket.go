package recommend

import (
	"sort"

	"anonshop/api/models"
)

// BuildBasket turns transactions into a Basket and collects the purchase history of userEmail.
// Transactions without line items still contribute an empty row.
func BuildBasket(txs []models.Transaction, userEmail string) (Basket, ItemSet) {
	basket := make(Basket, 0, len(txs))
	var history []string
	for i := range txs {
		ids := txs[i].ProductIDs()
		basket = append(basket, NewItemSet(ids...))
		if txs[i].UserEmail == userEmail {
			history = append(history, ids...)
		}
	}
	return basket, NewItemSet(history...)
}

// MostPurchased ranks product ids by line-item occurrences across all transactions.
// Ties go to the smaller id.
func MostPurchased(txs []models.Transaction, limit int) []string {
	counts := make(map[string]int)
	for i := range txs {
		for _, it := range txs[i].Items {
			if it.ProductID != "" {
				counts[it.ProductID]++
			}
		}
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}
