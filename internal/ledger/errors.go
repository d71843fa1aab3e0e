package ledger

import "errors"

var (
	// ErrInvalidAmount rejects non-positive amounts and negative commissions.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInvalidType rejects unknown transaction types.
	ErrInvalidType = errors.New("invalid transaction type")
	// ErrInvalidDate rejects dates that do not parse as YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
	// ErrCategoryMismatch rejects a missing category or one whose type does
	// not match the transaction type.
	ErrCategoryMismatch = errors.New("category does not match transaction type")
	// ErrSameAccount rejects transfers where source and destination coincide.
	ErrSameAccount = errors.New("source and destination accounts must differ")
	// ErrAccountRequired rejects expense/income drafts naming neither an
	// account nor a payment method, and transfers missing either endpoint.
	ErrAccountRequired = errors.New("account reference required")
	// ErrFieldNotAllowed rejects updates touching fields the transaction
	// type does not carry.
	ErrFieldNotAllowed = errors.New("field not valid for transaction type")
	// ErrAccessDenied rejects mutations of another user's transaction by a
	// non-owner.
	ErrAccessDenied = errors.New("access denied")
	// ErrNotFound reports a missing transaction.
	ErrNotFound = errors.New("transaction not found")
)
