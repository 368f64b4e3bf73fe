package audit

import "context"

// Store persists audit events. Saving the same request twice must not
// produce two entries, since messages can be redelivered.
type Store interface {
	SaveUserRemoval(ctx context.Context, event *UserRemovalEvent) error
}
