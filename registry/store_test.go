package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(category, name string, value any) *record {
	return &record{category: category, name: name, value: value}
}

func TestCatalog_PutGetDelete(t *testing.T) {
	c := newCatalog()

	require.NoError(t, c.put(newRecord("task", "a", 1)))

	rec, ok := c.get("task", "a")
	require.True(t, ok)
	assert.Equal(t, 1, rec.Value)

	_, ok = c.get("task", "b")
	assert.False(t, ok)

	assert.True(t, c.delete("task", "a"))
	assert.False(t, c.delete("task", "a"), "deleting an absent key is a no-op")
	assert.Zero(t, c.len())
}

func TestCatalog_Put_InvalidKey(t *testing.T) {
	c := newCatalog()
	assert.ErrorIs(t, c.put(newRecord("", "a", 1)), ErrInvalidKey)
	assert.ErrorIs(t, c.put(newRecord("task", "", 1)), ErrInvalidKey)
}

func TestCatalog_SameNameDifferentCategory(t *testing.T) {
	c := newCatalog()
	require.NoError(t, c.put(newRecord("task", "a", 1)))
	require.NoError(t, c.put(newRecord("report", "a", 2)))

	taskRec, ok := c.get("task", "a")
	require.True(t, ok)
	reportRec, ok := c.get("report", "a")
	require.True(t, ok)
	assert.Equal(t, 1, taskRec.Value)
	assert.Equal(t, 2, reportRec.Value)
}

func TestCatalog_ReplaceKeepsSlot(t *testing.T) {
	c := newCatalog()
	require.NoError(t, c.put(newRecord("task", "a", 1)))
	require.NoError(t, c.put(newRecord("task", "b", 2)))
	require.NoError(t, c.put(newRecord("task", "a", 3)))

	recs := c.filter(Query{})
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].Name)
	assert.Equal(t, 3, recs[0].Value)
	assert.Equal(t, "b", recs[1].Name)
}

func TestCatalog_FilterIsFreshSnapshot(t *testing.T) {
	c := newCatalog()
	rec := newRecord("task", "a", 1)
	rec.trackInstances = true
	require.NoError(t, c.put(rec))

	before := c.filter(Query{})
	require.Len(t, before, 1)
	require.Empty(t, before[0].Instances)

	_, err := c.append("task", "a", Instance{ID: "i-1", Object: "x"})
	require.NoError(t, err)

	after := c.filter(Query{})
	require.Len(t, after[0].Instances, 1)
	assert.Empty(t, before[0].Instances, "earlier snapshot must not observe later mutations")
}

func TestCatalog_Append(t *testing.T) {
	c := newCatalog()

	tracked := newRecord("task", "a", 1)
	tracked.trackInstances = true
	require.NoError(t, c.put(tracked))
	require.NoError(t, c.put(newRecord("task", "b", 2)))

	ok, err := c.append("task", "a", Instance{ID: "i-1"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.append("task", "b", Instance{ID: "i-2"})
	require.NoError(t, err)
	assert.False(t, ok, "untracked records never accumulate instances")

	_, err = c.append("task", "missing", Instance{ID: "i-3"})
	assert.ErrorIs(t, err, ErrInvalidKey)
}

// Steady-state lookups race against instance appends once the host serves
// traffic; run with -race to verify the locking discipline.
func TestCatalog_ConcurrentAppendAndFilter(t *testing.T) {
	c := newCatalog()
	rec := newRecord("task", "a", 1)
	rec.trackInstances = true
	require.NoError(t, c.put(rec))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, err := c.append("task", "a", Instance{ID: fmt.Sprintf("i-%d-%d", n, j)})
				assert.NoError(t, err)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				recs := c.filter(Query{Category: "task"})
				assert.Len(t, recs, 1)
			}
		}()
	}
	wg.Wait()

	recs := c.filter(Query{})
	require.Len(t, recs, 1)
	assert.Len(t, recs[0].Instances, 800)
}
