package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/accounts"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/audit"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/categories"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/paymethods"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/timeline"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/users"
)

// Invalidator is notified after every committed mutation so read-side caches
// can drop stale aggregates.
type Invalidator interface {
	Bump(ctx context.Context)
}

// BalanceStore is the slice of the accounts store the engine moves money
// through.
type BalanceStore interface {
	ApplyDelta(ctx context.Context, tx pgx.Tx, accountID int64, delta decimal.Decimal) error
}

// Engine is the single authority over account balances. Every mutation runs
// as one transaction covering the timeline write and every balance change:
// either all of it commits or none of it does.
type Engine struct {
	Pool       *pgxpool.Pool
	Accounts   BalanceStore
	Categories *categories.Store
	Resolver   *paymethods.Resolver
	Timeline   *timeline.Repo
	Users      *users.Repo
	Cache      Invalidator
	Log        *zap.Logger
}

func NewEngine(pool *pgxpool.Pool, accts BalanceStore, cats *categories.Store, resolver *paymethods.Resolver, tl *timeline.Repo, us *users.Repo, cache Invalidator, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		Pool:       pool,
		Accounts:   accts,
		Categories: cats,
		Resolver:   resolver,
		Timeline:   tl,
		Users:      us,
		Cache:      cache,
		Log:        log,
	}
}

// Create validates a draft, resolves the affected account(s), applies the
// balance deltas and inserts the timeline row atomically.
func (e *Engine) Create(ctx context.Context, d Draft, creatorID int64) (*timeline.Record, error) {
	entry, err := draftEntry(d)
	if err != nil {
		return nil, err
	}
	entry.UserID = creatorID

	tx, err := e.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if entry.Type == timeline.TypeExpense || entry.Type == timeline.TypeIncome {
		catType, err := e.Categories.TypeOf(ctx, tx, *entry.CategoryID)
		if err != nil {
			return nil, err
		}
		if catType != entry.Type {
			return nil, fmt.Errorf("%w: got %s category for %s", ErrCategoryMismatch, catType, entry.Type)
		}
		if entry.AccountID == nil {
			accountID, err := e.Resolver.ResolveAccount(ctx, tx, *entry.PaymentMethodID)
			if err != nil {
				return nil, err
			}
			entry.AccountID = &accountID
		}
	}

	// Deltas go first: a draft naming a missing account fails on the
	// account lookup and reports it, not on the timeline FK.
	if err := e.apply(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := e.Timeline.Insert(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	e.invalidate(ctx)
	e.audit(ctx, creatorID, "create", entry.ID, map[string]string{
		"type":   entry.Type,
		"amount": entry.Amount.String(),
	})
	e.Log.Info("transaction created",
		zap.Int64("id", entry.ID),
		zap.String("type", entry.Type),
		zap.String("amount", entry.Amount.String()),
		zap.Int64("user_id", creatorID))

	return e.Timeline.GetRecord(ctx, entry.ID)
}

// Update applies an enumerated field update. When the change moves money, the
// stored effect is swapped for the new one as a single net batch against the
// accounts involved, inside the same transaction as the row update.
func (e *Engine) Update(ctx context.Context, id int64, req UpdateRequest, callerID int64) (*timeline.Record, error) {
	tx, err := e.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	old, err := e.Timeline.GetForUpdate(ctx, tx, id)
	if errors.Is(err, timeline.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := e.authorize(ctx, old, callerID); err != nil {
		return nil, err
	}

	next, balanceChanged, reResolve, err := mergeUpdate(old, req)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if err := e.Categories.Exists(ctx, tx, *req.CategoryID); err != nil {
			return nil, err
		}
	}
	if reResolve {
		accountID, err := e.Resolver.ResolveAccount(ctx, tx, *next.PaymentMethodID)
		if err != nil {
			return nil, err
		}
		next.AccountID = &accountID
	}

	if balanceChanged {
		if err := e.reapply(ctx, tx, old, &next); err != nil {
			return nil, err
		}
	}

	if err := e.Timeline.Update(ctx, tx, &next); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	e.invalidate(ctx)
	e.audit(ctx, callerID, "update", id, map[string]any{
		"balance_changed": balanceChanged,
	})
	e.Log.Info("transaction updated",
		zap.Int64("id", id),
		zap.Bool("balance_changed", balanceChanged),
		zap.Int64("caller_id", callerID))

	return e.Timeline.GetRecord(ctx, id)
}

// Delete reverses the transaction's stored effect and removes the row.
func (e *Engine) Delete(ctx context.Context, id int64, callerID int64) error {
	tx, err := e.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	entry, err := e.Timeline.GetForUpdate(ctx, tx, id)
	if errors.Is(err, timeline.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := e.authorize(ctx, entry, callerID); err != nil {
		return err
	}

	if err := e.reverse(ctx, tx, entry); err != nil {
		return err
	}
	if err := e.Timeline.Delete(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	e.invalidate(ctx)
	e.audit(ctx, callerID, "delete", id, map[string]string{
		"type":   entry.Type,
		"amount": entry.Amount.String(),
	})
	e.Log.Info("transaction deleted",
		zap.Int64("id", id),
		zap.String("type", entry.Type),
		zap.String("amount", entry.Amount.String()),
		zap.Int64("caller_id", callerID))
	return nil
}

// Get returns one joined transaction record.
func (e *Engine) Get(ctx context.Context, id int64) (*timeline.Record, error) {
	rec, err := e.Timeline.GetRecord(ctx, id)
	if errors.Is(err, timeline.ErrNotFound) {
		return nil, ErrNotFound
	}
	return rec, err
}

// List returns joined records, newest first.
func (e *Engine) List(ctx context.Context, f timeline.ListFilter) ([]timeline.Record, error) {
	return e.Timeline.List(ctx, f)
}

func (e *Engine) apply(ctx context.Context, tx pgx.Tx, entry *timeline.Entry) error {
	deltas, err := effectOf(entry)
	if err != nil {
		return err
	}
	return e.applyDeltas(ctx, tx, deltas)
}

func (e *Engine) reverse(ctx context.Context, tx pgx.Tx, entry *timeline.Entry) error {
	deltas, err := effectOf(entry)
	if err != nil {
		return err
	}
	return e.applyDeltas(ctx, tx, negated(deltas))
}

// reapply swaps the stored effect for the replacement's as one netted batch,
// so every affected account is locked once and in ascending id order even
// when the two effects hit different account pairs.
func (e *Engine) reapply(ctx context.Context, tx pgx.Tx, old, next *timeline.Entry) error {
	oldDeltas, err := effectOf(old)
	if err != nil {
		return err
	}
	nextDeltas, err := effectOf(next)
	if err != nil {
		return err
	}
	return e.applyDeltas(ctx, tx, netted(append(negated(oldDeltas), nextDeltas...)))
}

func (e *Engine) applyDeltas(ctx context.Context, tx pgx.Tx, deltas []accounts.Delta) error {
	for _, d := range inApplyOrder(deltas) {
		if err := e.Accounts.ApplyDelta(ctx, tx, d.AccountID, d.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) authorize(ctx context.Context, entry *timeline.Entry, callerID int64) error {
	if entry.UserID == callerID {
		return nil
	}
	caller, err := e.Users.GetByID(ctx, callerID)
	if err != nil {
		return ErrAccessDenied
	}
	if caller.Role != users.RoleOwner {
		return ErrAccessDenied
	}
	return nil
}

func (e *Engine) invalidate(ctx context.Context) {
	if e.Cache != nil {
		e.Cache.Bump(ctx)
	}
}

// audit records the mutation after commit. Best-effort: the transaction has
// already happened, a failed audit row must not fail the request.
func (e *Engine) audit(ctx context.Context, userID int64, action string, entryID int64, metadata any) {
	err := audit.Write(ctx, e.Pool, audit.Entry{
		UserID:     userID,
		Action:     action,
		EntityType: "transaction",
		EntityID:   entryID,
		Metadata:   metadata,
	})
	if err != nil {
		e.Log.Warn("audit write failed", zap.Error(err))
	}
}
