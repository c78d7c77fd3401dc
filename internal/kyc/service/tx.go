package service

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
)

// TxRunner serializes status-mutating work per company. fn runs with every
// store call it makes inside one transaction; implementations must hold an
// exclusive lock on the company for the duration of fn. Calls must not nest.
type TxRunner interface {
	RunInTx(ctx context.Context, companyID id.CompanyID, fn func(ctx context.Context) error) error
}

const (
	numCompanyShards = 128
	defaultTxTimeout = 5 * time.Second
)

// ShardedTx is the in-memory TxRunner. Companies hash onto a fixed set of
// mutexes so unrelated companies rarely contend. The stores have no
// transactions, so when fn fails ShardedTx replays the compensations fn
// registered with onRollback, newest first.
type ShardedTx struct {
	shards  [numCompanyShards]sync.Mutex
	timeout time.Duration
}

func NewShardedTx(timeout time.Duration) *ShardedTx {
	return &ShardedTx{timeout: timeout}
}

func (t *ShardedTx) RunInTx(ctx context.Context, companyID id.CompanyID, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := &t.shards[shardFor(companyID)]
	shard.Lock()
	defer shard.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	undo := &undoLog{}
	err := fn(context.WithValue(ctx, undoKey{}, undo))
	if err != nil {
		if uerr := undo.replay(context.WithoutCancel(ctx)); uerr != nil {
			return errors.Join(err, dErrors.Wrap(uerr, dErrors.CodeInternal, "rollback incomplete"))
		}
	}
	return err
}

type undoKey struct{}

type undoLog struct {
	steps []func(ctx context.Context) error
}

func (u *undoLog) replay(ctx context.Context) error {
	var errs []error
	for i := len(u.steps) - 1; i >= 0; i-- {
		errs = append(errs, u.steps[i](ctx))
	}
	return errors.Join(errs...)
}

// onRollback registers a compensation for a write made inside a ShardedTx.
// Under a database transaction it does nothing; the rollback covers it.
func onRollback(ctx context.Context, step func(ctx context.Context) error) {
	if u, ok := ctx.Value(undoKey{}).(*undoLog); ok {
		u.steps = append(u.steps, step)
	}
}

func shardFor(companyID id.CompanyID) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(companyID[:])
	return h.Sum32() % numCompanyShards
}
