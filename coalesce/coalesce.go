package coalesce

import "golang.org/x/sync/singleflight"

// Result carries a completed operation's outcome to a waiting caller.
type Result[V any] struct {
	// Val is the operation's value. Zero when Err is non-nil.
	Val V

	// Err is the operation's error, shared by all waiters of the key.
	Err error

	// Shared reports whether the value was also delivered to other callers.
	Shared bool
}

// Group coalesces calls by key.
//
// Contract:
// - Concurrency: safe for concurrent use. The zero value is ready to use.
// - Guarantee: at most one underlying operation per key is in flight at a
//   time, and every caller registered during that window gets its result.
type Group[V any] struct {
	sf singleflight.Group
}

// Do runs fn for key, unless a call for key is already in flight, in which
// case the caller blocks until the in-flight call completes and shares its
// result. The returned bool reports whether the result was shared.
func (g *Group[V]) Do(key string, fn func() (V, error)) (V, error, bool) {
	v, err, shared := g.sf.Do(key, func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero V
		return zero, err, shared
	}
	return v.(V), nil, shared
}

// DoChan is like Do but returns a channel that receives the result when
// the operation completes. The channel is buffered; the receive never
// blocks the completing operation.
func (g *Group[V]) DoChan(key string, fn func() (V, error)) <-chan Result[V] {
	out := make(chan Result[V], 1)
	ch := g.sf.DoChan(key, func() (any, error) {
		return fn()
	})
	go func() {
		r := <-ch
		res := Result[V]{Err: r.Err, Shared: r.Shared}
		if r.Err == nil {
			res.Val = r.Val.(V)
		}
		out <- res
	}()
	return out
}

// Forget ends the pending window for key: future calls run a new
// operation rather than attaching to an earlier one.
func (g *Group[V]) Forget(key string) {
	g.sf.Forget(key)
}
