package paymethods

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/accounts"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/config"
)

// Resolver derives the account a payment method routes money through.
//
// Resolution order:
//  1. the method's configured default account (explicit mapping, preferred);
//  2. the name heuristic: a "cash"-looking name picks the first active cash
//     account, anything else the first active bank account;
//  3. the configured fallback policy: first active account of any type, or
//     reject.
type Resolver struct {
	Methods        *Store
	Accounts       *accounts.Store
	FallbackPolicy string
}

func NewResolver(methods *Store, accts *accounts.Store, fallbackPolicy string) *Resolver {
	return &Resolver{Methods: methods, Accounts: accts, FallbackPolicy: fallbackPolicy}
}

// AccountTypeForName classifies a payment-method name into an account type.
// The substring match against free-text names ("cash", "наличн") is a known
// fragile convention carried over from the original setup; the default
// account mapping exists so new installs never depend on it.
func AccountTypeForName(name string) string {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "наличн") || strings.Contains(lower, "cash") {
		return accounts.TypeCash
	}
	return accounts.TypeBank
}

// ResolveAccount runs inside the ledger transaction so the chosen account is
// consistent with the balances about to be locked.
func (r *Resolver) ResolveAccount(ctx context.Context, tx pgx.Tx, paymentMethodID int64) (int64, error) {
	name, defaultAccountID, err := r.Methods.getForResolve(ctx, tx, paymentMethodID)
	if err != nil {
		return 0, err
	}

	if defaultAccountID != nil {
		return *defaultAccountID, nil
	}

	id, err := r.Accounts.FirstActiveByType(ctx, tx, AccountTypeForName(name))
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, accounts.ErrNotFound) {
		return 0, err
	}

	if r.FallbackPolicy == config.FallbackNone {
		return 0, accounts.ErrNotFound
	}
	return r.Accounts.FirstActive(ctx, tx)
}
