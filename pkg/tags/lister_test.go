package tags

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/gitbump/pkg/errors"
)

func TestCoalescedSharesInFlightQuery(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	inner := ListerFunc(func(context.Context, string) ([]string, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		return []string{"v1.0.0", "v1.1.0"}, nil
	})
	c := NewCoalesced(inner)

	const n = 8
	results := make([][]string, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tags, err := c.ListTags(context.Background(), "git://github.com/acme/lib")
			if err != nil {
				t.Errorf("ListTags: %v", err)
			}
			results[i] = tags
		}()
	}

	<-started
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("inner lister called %d times, want 1", got)
	}
	for i, r := range results {
		if !reflect.DeepEqual(r, []string{"v1.0.0", "v1.1.0"}) {
			t.Errorf("result %d = %v", i, r)
		}
	}

	// Callers own their slices.
	results[0][0] = "mutated"
	if results[1][0] != "v1.0.0" {
		t.Error("coalesced callers share a backing array")
	}
}

func TestCoalescedDoesNotRemember(t *testing.T) {
	var calls int
	c := NewCoalesced(ListerFunc(func(context.Context, string) ([]string, error) {
		calls++
		return nil, nil
	}))

	for range 3 {
		if _, err := c.ListTags(context.Background(), "git://github.com/acme/lib"); err != nil {
			t.Fatalf("ListTags: %v", err)
		}
	}
	if calls != 3 {
		t.Errorf("sequential calls = %d, want 3", calls)
	}
}

func TestCoalescedPropagatesError(t *testing.T) {
	c := NewCoalesced(ListerFunc(func(context.Context, string) ([]string, error) {
		return nil, errors.New(errors.ErrCodeRemoteQuery, "unreachable")
	}))

	tags, err := c.ListTags(context.Background(), "git://github.com/acme/lib")
	if !errors.Is(err, errors.ErrCodeRemoteQuery) {
		t.Errorf("err = %v, want REMOTE_QUERY", err)
	}
	if tags != nil {
		t.Errorf("tags = %v, want nil", tags)
	}
}
