package repositories

import "context"

// TxManager runs a function inside one all-or-nothing unit of work. The
// transaction handle travels in the context; repositories participate
// transparently when one is present. If fn returns an error the whole unit is
// rolled back, otherwise it is committed.
type TxManager interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}
