package pool

import "errors"

var (
	// ErrEmptyPool is returned by spawn calls on a pool that holds no slots,
	// either because its capacity was not positive or no factory was supplied.
	ErrEmptyPool = errors.New("pool: spawn on empty pool")
	// ErrNilHandle is returned by New when the factory produces a nil handle.
	ErrNilHandle = errors.New("pool: factory returned nil handle")
)
