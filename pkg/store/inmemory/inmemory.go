package inmemory

import (
	"context"
	"sort"
	"strconv"
	"time"

	sync "github.com/bacalhau-project/golang-mutex-tracer"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/backit-onchain/oracle/pkg/oracleerrors"
	"github.com/backit-onchain/oracle/pkg/settlement"
	"github.com/backit-onchain/oracle/pkg/store"
)

type InMemoryDatastore struct {
	settlements map[string]*store.Settlement
	byDeploy    map[string]string
	mtx         sync.RWMutex
	now         func() time.Time
}

func NewInMemoryDatastore() *InMemoryDatastore {
	res := &InMemoryDatastore{
		settlements: map[string]*store.Settlement{},
		byDeploy:    map[string]string{},
		now:         time.Now,
	}
	res.mtx.EnableTracerWithOpts(sync.Opts{
		Threshold: 10 * time.Millisecond,
		Id:        "InMemoryDatastore.mtx",
	})
	return res
}

func (d *InMemoryDatastore) AddSettlement(ctx context.Context, s store.Settlement) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if _, ok := d.settlements[s.ID]; ok {
		return oracleerrors.New(oracleerrors.BadRequest, "settlement %s already exists", s.ID)
	}
	if s.DeployHash != "" {
		if _, ok := d.byDeploy[s.DeployHash]; ok {
			return oracleerrors.New(oracleerrors.BadRequest, "settlement for deploy %s already exists", s.DeployHash)
		}
		d.byDeploy[s.DeployHash] = s.ID
	}
	if s.Status == "" {
		s.Status = settlement.StatusPending
	}
	now := d.now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	d.settlements[s.ID] = &s
	return nil
}

func (d *InMemoryDatastore) GetSettlement(ctx context.Context, id string) (store.Settlement, error) {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	s, ok := d.settlements[id]
	if !ok {
		return store.Settlement{}, store.NewSettlementNotFound(id)
	}
	return *s, nil
}

func (d *InMemoryDatastore) GetSettlementByCall(ctx context.Context, callID uint64) (store.Settlement, error) {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	forCall := lo.Filter(lo.Values(d.settlements), func(s *store.Settlement, _ int) bool {
		return s.CallID == callID
	})
	if len(forCall) == 0 {
		return store.Settlement{}, store.NewSettlementNotFound(strconv.FormatUint(callID, 10))
	}
	latest := lo.MaxBy(forCall, func(a, b *store.Settlement) bool {
		return newer(a, b)
	})
	return *latest, nil
}

func (d *InMemoryDatastore) GetSettlementByDeploy(ctx context.Context, deployHash string) (store.Settlement, error) {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	id, ok := d.byDeploy[deployHash]
	if !ok {
		return store.Settlement{}, store.NewSettlementNotFound(deployHash)
	}
	return *d.settlements[id], nil
}

func (d *InMemoryDatastore) ListSettlements(ctx context.Context, query store.SettlementQuery) ([]store.Settlement, error) {
	d.mtx.RLock()
	defer d.mtx.RUnlock()

	result := lo.FilterMap(lo.Values(d.settlements), func(s *store.Settlement, _ int) (store.Settlement, bool) {
		return *s, query.Status == "" || s.Status == query.Status
	})
	sort.Slice(result, func(i, j int) bool {
		if query.SortReverse {
			return newer(&result[i], &result[j])
		}
		return newer(&result[j], &result[i])
	})

	if query.Offset > 0 {
		if query.Offset >= len(result) {
			return []store.Settlement{}, nil
		}
		result = result[query.Offset:]
	}
	if query.Limit > 0 && query.Limit < len(result) {
		result = result[:query.Limit]
	}
	return result, nil
}

func (d *InMemoryDatastore) UpdateSettlementStatus(
	ctx context.Context, deployHash string, status settlement.DeployStatus, errorMessage string,
) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	id, ok := d.byDeploy[deployHash]
	if !ok {
		return store.NewSettlementNotFound(deployHash)
	}
	s := d.settlements[id]
	s.Status = status
	s.ErrorMessage = errorMessage
	s.UpdatedAt = d.now().UTC()
	return nil
}

func (d *InMemoryDatastore) Close(ctx context.Context) error {
	return nil
}

// newer orders by creation time, then id, so that ties are stable.
func newer(a, b *store.Settlement) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// Static check to ensure that InMemoryDatastore implements SettlementStore:
var _ store.SettlementStore = (*InMemoryDatastore)(nil)
