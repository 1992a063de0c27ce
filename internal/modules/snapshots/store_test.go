package snapshots

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func TestStoreReadYourWrite(t *testing.T) {
	store := NewStore(testLogger())

	snap := AccountSnapshot{
		ID:        "snap-1",
		AccountID: "12345",
		At:        time.Now().UTC(),
		Volumes:   map[string]float64{"EURUSD": 1.5},
	}
	store.Put(snap)

	all := store.GetAll()
	require.Contains(t, all, "12345")
	assert.Equal(t, snap, all["12345"])
}

func TestStorePutReplacesWholesale(t *testing.T) {
	store := NewStore(testLogger())

	store.Put(AccountSnapshot{
		AccountID: "12345",
		Volumes:   map[string]float64{"EURUSD": 1.5, "GBPUSD": 2},
	})
	store.Put(AccountSnapshot{
		AccountID: "12345",
		Volumes:   map[string]float64{"USDJPY": 0.5},
	})

	all := store.GetAll()
	require.Len(t, all, 1)

	// Nothing from the first snapshot survives
	snap := all["12345"]
	assert.Equal(t, map[string]float64{"USDJPY": 0.5}, snap.Volumes)
}

func TestStoreCountsDistinctAccounts(t *testing.T) {
	store := NewStore(testLogger())
	assert.Equal(t, 0, store.Count())

	store.Put(AccountSnapshot{AccountID: "a"})
	store.Put(AccountSnapshot{AccountID: "b"})
	store.Put(AccountSnapshot{AccountID: "a"})

	assert.Equal(t, 2, store.Count())
}

func TestStoreGetAllReturnsCopy(t *testing.T) {
	store := NewStore(testLogger())
	store.Put(AccountSnapshot{AccountID: "a"})

	all := store.GetAll()
	delete(all, "a")

	assert.Equal(t, 1, store.Count())
}

func TestStoreGet(t *testing.T) {
	store := NewStore(testLogger())

	_, ok := store.Get("missing")
	assert.False(t, ok)

	store.Put(AccountSnapshot{AccountID: "a", ID: "snap-1"})
	snap, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, "snap-1", snap.ID)
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore(testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		accountID := fmt.Sprintf("acct-%d", i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Put(AccountSnapshot{AccountID: accountID, At: time.Now()})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = store.GetAll()
				_ = store.Count()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, store.Count())
}
