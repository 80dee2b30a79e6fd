// Package resource governs the memory, worker and IO budgets of page
// serialization.
//
//   - Memory: decoded pages are accounted against a hard limit (fail-fast)
//   - Workers: bounds how many channels are encoded concurrently
//   - IO: token-bucket rate limit on page streams
//
// # Memory
//
// Reserve never blocks. It returns ErrMemoryLimitExceeded when the
// reservation would exceed the limit and leaves retry policy to the caller:
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64 << 20})
//
//	r, err := rc.Reserve(int64(page.SizeInBytes()))
//	if err != nil {
//	    return err
//	}
//	defer r.Release()
//
// # IO
//
//	w := resource.NewRateLimitedWriter(ctx, conn, rc)
//
// # Nil Safety
//
// A nil *Controller imposes no limits, so callers can hold an optional
// controller without nil checks.
package resource
