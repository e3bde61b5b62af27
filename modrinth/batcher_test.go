package modrinth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// newBatchServer serves the bulk endpoint, recording each batch's ids and
// answering with a project per requested id (icon derived from the id).
func newBatchServer(t *testing.T) (*httptest.Server, *batchRecorder) {
	t.Helper()
	rec := &batchRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec.inFlight.Add(1) > 1 {
			rec.overlap.Store(true)
		}
		// Widen the window so overlapping batches would be caught.
		time.Sleep(10 * time.Millisecond)
		defer rec.inFlight.Add(-1)

		var ids []string
		if err := json.Unmarshal([]byte(r.URL.Query().Get("ids")), &ids); err != nil {
			t.Errorf("bad ids param: %v", err)
		}
		rec.record(ids)

		var projects []map[string]string
		for _, id := range ids {
			projects = append(projects, map[string]string{
				"id":       "id-" + id,
				"slug":     id,
				"icon_url": "https://cdn.test/" + id + ".png",
				"wiki_url": "https://modrinth.test/mod/" + id,
			})
		}
		_ = json.NewEncoder(w).Encode(projects)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

type batchRecorder struct {
	mu       sync.Mutex
	batches  [][]string
	inFlight atomic.Int32
	overlap  atomic.Bool
}

func (r *batchRecorder) record(ids []string) {
	r.mu.Lock()
	r.batches = append(r.batches, ids)
	r.mu.Unlock()
}

func (r *batchRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func (r *batchRecorder) batch(i int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches[i]
}

func (r *batchRecorder) overlapped() bool {
	return r.overlap.Load()
}

func newTestBatcher(srv *httptest.Server, debounce, cooldown time.Duration) *Batcher {
	return NewBatcher(BatcherConfig{
		Client:   NewClient(Config{BaseURL: srv.URL}),
		Debounce: debounce,
		Cooldown: cooldown,
	})
}

func TestBatcher_CoalescesBurstIntoOneBatch(t *testing.T) {
	srv, rec := newBatchServer(t)
	b := newTestBatcher(srv, 30*time.Millisecond, 50*time.Millisecond)

	chA := b.Lookup("lithium")
	chB := b.Lookup("sodium")
	chC := b.Lookup("lithium") // duplicate key attaches, no extra work

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for name, ch := range map[string]<-chan Result{"a": chA, "b": chB, "c": chC} {
		select {
		case r := <-ch:
			if !r.Found {
				t.Errorf("waiter %s: expected Found", name)
			}
		case <-ctx.Done():
			t.Fatalf("waiter %s never got a result", name)
		}
	}

	if got := rec.count(); got != 1 {
		t.Errorf("burst produced %d batches, want 1", got)
	}
	if ids := rec.batch(0); len(ids) != 2 {
		t.Errorf("batch carried %d ids, want 2 unique (got %v)", len(ids), ids)
	}
}

func TestBatcher_RespectsBatchSizeAndSerializes(t *testing.T) {
	srv, rec := newBatchServer(t)
	b := newTestBatcher(srv, 20*time.Millisecond, 20*time.Millisecond)

	const keys = 25
	chans := make([]<-chan Result, 0, keys)
	for i := 0; i < keys; i++ {
		chans = append(chans, b.Lookup(fmt.Sprintf("mod-%02d", i)))
	}

	deadline := time.After(5 * time.Second)
	for i, ch := range chans {
		select {
		case r := <-ch:
			if !r.Found {
				t.Errorf("key %d: expected Found", i)
			}
		case <-deadline:
			t.Fatalf("key %d never resolved", i)
		}
	}

	if rec.overlapped() {
		t.Error("two batches were in flight simultaneously")
	}
	if got := rec.count(); got != 3 {
		t.Errorf("25 keys drained in %d batches, want 3", got)
	}
	total := 0
	for i := 0; i < rec.count(); i++ {
		n := len(rec.batch(i))
		total += n
		if n > MaxBatchSize {
			t.Errorf("batch %d carried %d ids, max is %d", i, n, MaxBatchSize)
		}
	}
	if total != keys {
		t.Errorf("batches carried %d ids total, want %d", total, keys)
	}
}

func TestBatcher_FailedBatchReportsNotFoundAndDropsKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	b := newTestBatcher(srv, 10*time.Millisecond, 10*time.Millisecond)
	ch := b.Lookup("doomed")

	select {
	case r := <-ch:
		if r.Found {
			t.Error("failed batch must report Found=false")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never notified after batch failure")
	}

	// Fail-fast: the key is not silently re-queued.
	time.Sleep(50 * time.Millisecond)
	if got := b.Pending(); got != 0 {
		t.Errorf("failed keys re-enqueued: pending = %d, want 0", got)
	}
}

func TestBatcher_UnmatchedIDReportsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`)) // registry knows none of the ids
	}))
	defer srv.Close()

	b := newTestBatcher(srv, 10*time.Millisecond, 10*time.Millisecond)

	select {
	case r := <-b.Lookup("unknown-mod"):
		if r.Found {
			t.Error("unmatched id must report Found=false")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never notified for unmatched id")
	}
}

func TestBatcher_LookupWaitHonorsContext(t *testing.T) {
	// A server that never answers in time is irrelevant here: the caller's
	// context expires before the debounce fires.
	srv, _ := newBatchServer(t)
	b := newTestBatcher(srv, time.Second, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := b.LookupWait(ctx, "slow")
	if err != context.DeadlineExceeded {
		t.Errorf("LookupWait = %v, want context.DeadlineExceeded", err)
	}
}
