package recommend

import (
	"context"
	"fmt"
	"time"

	"anonshop/api/logger"
	"anonshop/api/metrics"
	"anonshop/api/models"
)

const (
	StrategyRules    = "association_rules"
	StrategyFallback = "most_bought"
)

// TransactionLister reads the full transaction history.
type TransactionLister interface {
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
}

// Catalog resolves product ids to catalog entries. Unknown ids are dropped and order is kept.
type Catalog interface {
	GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error)
}

// Result is the outcome of one recommendation request. ProductIDs may be empty.
type Result struct {
	ProductIDs []string
	Strategy   string
}

// RuleSet is a mining run exposed for inspection.
type RuleSet struct {
	Transactions int               `json:"transactions"`
	Itemsets     []FrequentItemset `json:"itemsets"`
	Rules        []Rule            `json:"rules"`
}

// Engine recomputes basket, itemsets and rules from scratch on every call.
type Engine struct {
	source  TransactionLister
	catalog Catalog
	cfg     Config
}

// NewEngine builds an engine over source. With a nil catalog, ids are returned without checking
// that the products still exist.
func NewEngine(source TransactionLister, catalog Catalog, cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.MinSupport <= 0 {
		cfg.MinSupport = def.MinSupport
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = def.MaxResults
	}
	if cfg.FallbackLimit <= 0 {
		cfg.FallbackLimit = def.FallbackLimit
	}
	return &Engine{source: source, catalog: catalog, cfg: cfg}
}

// Recommend returns up to MaxResults product ids for userEmail.
//
// A user without history gets the global most-bought ids (FallbackLimit of them). Otherwise the ids are
// the consequents of rules whose antecedent the user has fully bought, in rule order. Ids missing from
// the catalog are dropped before either list is cut to size.
func (e *Engine) Recommend(ctx context.Context, userEmail string) (*Result, error) {
	txs, err := e.source.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	basket, history := BuildBasket(txs, userEmail)
	if len(history) == 0 {
		ids, err := e.known(ctx, MostPurchased(txs, 0), e.cfg.FallbackLimit)
		if err != nil {
			return nil, err
		}
		logger.Debug(ctx).Str("user_email", userEmail).Strs("product_ids", ids).Msg("No purchase history, using most bought")
		return &Result{ProductIDs: truncate(ids, e.cfg.MaxResults), Strategy: StrategyFallback}, nil
	}

	_, rules, err := e.mine(ctx, basket, history)
	if err != nil {
		return nil, err
	}

	ids, err := e.known(ctx, Match(rules, history, 0), e.cfg.MaxResults)
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx).
		Str("user_email", userEmail).
		Int("history_size", len(history)).
		Int("rules", len(rules)).
		Strs("product_ids", ids).
		Msg("Matched association rules")
	return &Result{ProductIDs: ids, Strategy: StrategyRules}, nil
}

// Rules runs the mining pipeline over the whole history.
func (e *Engine) Rules(ctx context.Context) (*RuleSet, error) {
	txs, err := e.source.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	basket, _ := BuildBasket(txs, "")
	itemsets, rules, err := e.mine(ctx, basket, nil)
	if err != nil {
		return nil, err
	}
	if itemsets == nil {
		itemsets = []FrequentItemset{}
	}
	if rules == nil {
		rules = []Rule{}
	}
	return &RuleSet{Transactions: len(txs), Itemsets: itemsets, Rules: rules}, nil
}

// mine runs the pipeline. A non-nil history limits rule generation to rules the history can fire.
func (e *Engine) mine(ctx context.Context, basket Basket, history ItemSet) ([]FrequentItemset, []Rule, error) {
	start := time.Now()

	miner := Miner{MinSupport: e.cfg.MinSupport, MaxLen: e.cfg.MaxLen}
	itemsets, err := miner.Mine(ctx, Encode(basket))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to mine frequent itemsets: %w", err)
	}
	var rules []Rule
	if history != nil {
		rules, err = MatchingRules(ctx, itemsets, e.cfg.MinLift, history)
	} else {
		rules, err = GenerateRules(ctx, itemsets, e.cfg.MinLift)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate association rules: %w", err)
	}

	metrics.RecordMining(time.Since(start), len(rules))
	return itemsets, rules, nil
}

// known keeps the ids present in the catalog, in order, until limit of them are found.
func (e *Engine) known(ctx context.Context, ids []string, limit int) ([]string, error) {
	if e.catalog == nil {
		return truncate(ids, limit), nil
	}

	out := make([]string, 0, min(len(ids), max(limit, 0)))
	for start := 0; start < len(ids) && (limit <= 0 || len(out) < limit); {
		end := len(ids)
		if limit > 0 {
			end = min(len(ids), start+2*(limit-len(out)))
		}
		products, err := e.catalog.GetProductsByIDs(ctx, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to check products against the catalog: %w", err)
		}
		for _, p := range products {
			out = append(out, p.ID)
		}
		start = end
	}
	return truncate(out, limit), nil
}

func truncate(ids []string, n int) []string {
	if n > 0 && len(ids) > n {
		return ids[:n]
	}
	return ids
}
