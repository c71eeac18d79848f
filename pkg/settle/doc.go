// Package settle runs a fixed number of independent tasks concurrently and
// waits for every one of them to settle, success or failure.
//
// Unlike a plain errgroup with context, a failing task never cancels or
// short-circuits its siblings: each task's outcome is captured in its own
// Result slot, indexed by the task's position.
//
//	results := settle.All(ctx, len(urls), func(ctx context.Context, i int) (int, error) {
//		return fetchSize(ctx, urls[i])
//	})
//	for i, r := range results {
//		if r.Err != nil {
//			log.Printf("%s failed: %v", urls[i], r.Err)
//		}
//	}
//
// Panics inside a task are recovered and reported as a Result whose Err
// wraps ErrPanic.
package settle
