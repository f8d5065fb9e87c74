package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/pmehta/splitbook/internal/calculator"
	"github.com/pmehta/splitbook/internal/models"
	"github.com/pmehta/splitbook/internal/storage"
)

var balanceComputeDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "splitbook_balance_compute_duration_seconds",
		Help:    "Time spent computing balance views, including storage reads.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"scope"},
)

// BalanceService derives pairwise balance views from stored transactions,
// splits, and settlements. Balances are recomputed on every call and never
// cached or persisted.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a new BalanceService with the given storage
// backend.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// GroupBalances computes the viewpoint user's net balance against every
// other member of one group. Storage failures come back as a
// BalanceComputationError tagged with the group id.
func (s *BalanceService) GroupBalances(ctx context.Context, groupID, viewpointID string) (map[string]decimal.Decimal, error) {
	defer observe("group", time.Now())

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, &BalanceComputationError{GroupID: groupID, Err: err}
	}
	if !group.HasMember(viewpointID) {
		return nil, ErrNotGroupMember
	}

	return s.computeForGroup(ctx, group, viewpointID)
}

// OverallBalances aggregates the viewpoint user's balances across every
// group they belong to. A single group's failure is logged and that group
// is omitted from the merged result; partial results beat none for a
// multi-group view. The per-group breakdown is returned alongside the
// merged map.
func (s *BalanceService) OverallBalances(ctx context.Context, viewpointID string) (map[string]decimal.Decimal, map[string]map[string]decimal.Decimal, error) {
	defer observe("overall", time.Now())

	groups, err := s.store.ListGroupsByMember(ctx, viewpointID)
	if err != nil {
		return nil, nil, err
	}

	perGroup := make(map[string]map[string]decimal.Decimal, len(groups))
	for _, group := range groups {
		balances, err := s.computeForGroup(ctx, group, viewpointID)
		if err != nil {
			slog.Error("skipping group in overall balances",
				"group_id", group.ID,
				"viewpoint", viewpointID,
				"error", err,
			)
			continue
		}
		perGroup[group.ID] = balances
	}

	return calculator.MergeBalances(perGroup), perGroup, nil
}

// computeForGroup loads a group's ledger and runs the pure calculator.
func (s *BalanceService) computeForGroup(ctx context.Context, group *models.Group, viewpointID string) (map[string]decimal.Decimal, error) {
	txns, err := s.store.ListTransactionsByGroup(ctx, group.ID)
	if err != nil {
		return nil, &BalanceComputationError{GroupID: group.ID, Err: err}
	}

	var expenses []calculator.Expense
	for _, txn := range txns {
		if txn.Type != models.TypeExpense {
			continue
		}
		splits, err := s.store.GetSplits(ctx, txn.ID)
		if err != nil {
			return nil, &BalanceComputationError{GroupID: group.ID, Err: err}
		}
		expenses = append(expenses, calculator.Expense{
			ID:           txn.ID,
			Amount:       txn.Amount,
			PaidBy:       txn.PaidBy,
			Splits:       toShares(splits),
			Participants: txn.Participants,
		})
	}

	stored, err := s.store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		return nil, &BalanceComputationError{GroupID: group.ID, Err: err}
	}
	settlements := make([]calculator.Transfer, len(stored))
	for i, settlement := range stored {
		settlements[i] = calculator.Transfer{
			From:   settlement.FromUserID,
			To:     settlement.ToUserID,
			Amount: settlement.Amount,
		}
	}

	return calculator.GroupBalances(viewpointID, expenses, settlements, group.Members), nil
}

func toShares(splits []models.Split) []calculator.Share {
	if len(splits) == 0 {
		return nil
	}
	shares := make([]calculator.Share, len(splits))
	for i, split := range splits {
		shares[i] = calculator.Share{UserID: split.UserID, Amount: split.Amount}
	}
	return shares
}

func observe(scope string, start time.Time) {
	balanceComputeDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
}
