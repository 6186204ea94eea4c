package search_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abdalla-ayman/tailor-frontend/internal/search"
)

// countingFetch returns the query's text as the single row and counts calls.
type countingFetch struct {
	mu    sync.Mutex
	calls []search.Query
	gates map[string]chan struct{}
	err   error
}

func newCountingFetch() *countingFetch {
	return &countingFetch{gates: map[string]chan struct{}{}}
}

func (f *countingFetch) fetch(q search.Query) (search.Page[string], error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	gate := f.gates[q.Text]
	err := f.err
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return search.Page[string]{}, err
	}
	return search.Page[string]{Rows: []string{q.Text}, Total: 1}, nil
}

func (f *countingFetch) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *countingFetch) lastQuery() search.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func waitForCalls(t *testing.T, f *countingFetch, n int) {
	t.Helper()
	assert.Eventually(t, func() bool { return f.count() == n }, time.Second, 5*time.Millisecond)
}

func TestEachInputChangeIssuesOneFetch(t *testing.T) {
	f := newCountingFetch()
	c := search.NewController([]string{"name", "phone"}, f.fetch, nil)

	c.Start()
	waitForCalls(t, f, 1)

	c.SetText("ah")
	waitForCalls(t, f, 2)

	assert.NoError(t, c.SetField("phone"))
	waitForCalls(t, f, 3)
	assert.Equal(t, "phone", f.lastQuery().Field)

	assert.NoError(t, c.SetPage(2))
	waitForCalls(t, f, 4)
	assert.Equal(t, 2, f.lastQuery().Page)

	// switching page size resets to the first page
	assert.NoError(t, c.SetPageSize(25))
	waitForCalls(t, f, 5)
	assert.Equal(t, 25, f.lastQuery().PageSize)
	assert.Equal(t, 0, f.lastQuery().Page)
}

func TestUnchangedInputIssuesNoFetch(t *testing.T) {
	f := newCountingFetch()
	c := search.NewController([]string{"name"}, f.fetch, nil)

	c.Start()
	waitForCalls(t, f, 1)

	c.SetText("")
	assert.NoError(t, c.SetPage(0))
	assert.NoError(t, c.SetPageSize(5))
	assert.NoError(t, c.SetField("name"))
	c.SetStatus("")

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, f.count())
}

func TestStaleResponseDiscarded(t *testing.T) {
	f := newCountingFetch()
	slow := make(chan struct{})
	f.gates["a"] = slow
	c := search.NewController([]string{"name"}, f.fetch, nil)

	c.SetText("a")
	c.SetText("ab")
	waitForCalls(t, f, 2)

	assert.Eventually(t, func() bool {
		rows := c.Rows()
		return len(rows) == 1 && rows[0] == "ab"
	}, time.Second, 5*time.Millisecond)

	// the first request resolves after being superseded; its rows must not land
	close(slow)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{"ab"}, c.Rows())
	assert.Equal(t, 1, c.Total())
}

func TestFetchErrorKeepsPriorRows(t *testing.T) {
	f := newCountingFetch()
	var mu sync.Mutex
	var reported error
	c := search.NewController([]string{"name"}, f.fetch, func(err error) {
		mu.Lock()
		reported = err
		mu.Unlock()
	})

	c.SetText("good")
	assert.Eventually(t, func() bool {
		rows := c.Rows()
		return len(rows) == 1 && rows[0] == "good"
	}, time.Second, 5*time.Millisecond)

	f.mu.Lock()
	f.err = errors.New("upstream down")
	f.mu.Unlock()

	c.SetText("bad")
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return reported != nil
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"good"}, c.Rows())
	assert.Equal(t, 1, c.Total())
}

func TestInputValidation(t *testing.T) {
	f := newCountingFetch()
	c := search.NewController([]string{"name"}, f.fetch, nil)

	assert.Error(t, c.SetPage(-1))
	assert.Error(t, c.SetPageSize(7))
	assert.Error(t, c.SetField("residence"))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, f.count())

	q := c.Query()
	assert.Equal(t, 5, q.PageSize)
	assert.Equal(t, "name", q.Field)
}

func TestObserveRefresh(t *testing.T) {
	f := newCountingFetch()
	c := search.NewController([]string{"name"}, f.fetch, nil)

	c.Start()
	waitForCalls(t, f, 1)

	// same signal value is a no-op
	c.ObserveRefresh(0)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, f.count())

	c.ObserveRefresh(1)
	waitForCalls(t, f, 2)
}

func TestAllowedHelpers(t *testing.T) {
	assert.True(t, search.AllowedPageSize(10))
	assert.False(t, search.AllowedPageSize(50))
	assert.True(t, search.AllowedField([]string{"_id", "customerName"}, "_id"))
	assert.False(t, search.AllowedField([]string{"_id"}, "name"))
}
