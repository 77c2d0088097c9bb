package ytdb

import (
	"fmt"
	"sync"
	"sync/atomic"

	log "github.com/bnclabs/golog"
	s "github.com/bnclabs/gosettings"
	humanize "github.com/dustin/go-humanize"
)

// Store arbitrates concurrent access to a single RBTree with one
// reader-writer lock: Put() (and Reset()) serialize behind exclusive
// acquisition, every read-only operation runs behind shared acquisition, so
// unbounded concurrent readers proceed together and no reader ever observes
// a tree mid-rebalance. Acquisition blocks indefinitely... there are no
// retries or timeouts, and no fairness ordering is guaranteed among waiters
// beyond what sync.RWMutex provides.
type Store interface {
	OrderedMap
	Stats() (stats map[string]interface{})
	LogStats()
}

// Defaultsettings for a Store.
//
// "stats.enable" (bool, default: true)
//	Maintain operation counters, reported via Stats() / LogStats().
//
// "selfcheck.enable" (bool, default: false)
//	Run Validate() after every Put() while still holding the exclusive
//	lock. Expensive... intended for tests and stress tooling.
func Defaultsettings() s.Settings {
	return s.Settings{
		"stats.enable":     true,
		"selfcheck.enable": false,
	}
}

type storeStruct struct {
	// all are 64-bit aligned, mutated atomically (readers share the lock)
	nPuts   int64
	nGets   int64
	nHits   int64
	nMisses int64

	// can be unaligned fields
	rwMutex      sync.RWMutex
	tree         RBTree
	name         string
	logprefix    string
	statsEnabled bool
	selfcheck    bool
}

func NewStore(name string, compare Compare, callbacks DumpCallbacks, setts s.Settings) (store Store) {
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)

	storePtr := &storeStruct{
		tree:         NewRBTree(compare, callbacks),
		name:         name,
		logprefix:    fmt.Sprintf("store [%s]", name),
		statsEnabled: setts.Bool("stats.enable"),
		selfcheck:    setts.Bool("selfcheck.enable"),
	}

	log.Infof("%v started ...\n", storePtr.logprefix)

	store = storePtr
	return
}

// API functions (see api.go)

func (store *storeStruct) Put(key Key, value Value) (err error) {
	store.rwMutex.Lock()
	defer store.rwMutex.Unlock()

	err = store.tree.Put(key, value)
	if nil != err {
		return
	}

	if store.statsEnabled {
		atomic.AddInt64(&store.nPuts, 1)
	}

	if store.selfcheck {
		err = store.tree.Validate()
		if nil != err {
			log.Errorf("%v selfcheck after Put(): %v\n", store.logprefix, err)
			return
		}
	}

	err = nil
	return
}

func (store *storeStruct) GetByKey(key Key) (value Value, ok bool, err error) {
	store.rwMutex.RLock()
	defer store.rwMutex.RUnlock()

	value, ok, err = store.tree.GetByKey(key)
	if nil != err {
		return
	}

	if store.statsEnabled {
		atomic.AddInt64(&store.nGets, 1)
		if ok {
			atomic.AddInt64(&store.nHits, 1)
		} else {
			atomic.AddInt64(&store.nMisses, 1)
		}
	}

	err = nil
	return
}

func (store *storeStruct) Len() (numberOfItems int) {
	store.rwMutex.RLock()
	defer store.rwMutex.RUnlock()

	numberOfItems = store.tree.Len()
	return
}

func (store *storeStruct) Height() (height int) {
	store.rwMutex.RLock()
	defer store.rwMutex.RUnlock()

	height = store.tree.Height()
	return
}

func (store *storeStruct) Reset() {
	store.rwMutex.Lock()
	defer store.rwMutex.Unlock()

	store.tree.Reset()

	log.Infof("%v reset\n", store.logprefix)
}

func (store *storeStruct) Dump() (err error) {
	store.rwMutex.RLock()
	defer store.rwMutex.RUnlock()

	err = store.tree.Dump()
	return
}

func (store *storeStruct) Validate() (err error) {
	store.rwMutex.RLock()
	defer store.rwMutex.RUnlock()

	err = store.tree.Validate()
	return
}

func (store *storeStruct) Pack() (packedMap []byte, err error) {
	store.rwMutex.RLock()
	defer store.rwMutex.RUnlock()

	packedMap, err = store.tree.Pack()
	return
}

func (store *storeStruct) Fingerprint() (fingerprint uint64, err error) {
	store.rwMutex.RLock()
	defer store.rwMutex.RUnlock()

	fingerprint, err = store.tree.Fingerprint()
	return
}

// Statistics

func (store *storeStruct) Stats() (stats map[string]interface{}) {
	stats = map[string]interface{}{
		"n_puts":   atomic.LoadInt64(&store.nPuts),
		"n_gets":   atomic.LoadInt64(&store.nGets),
		"n_hits":   atomic.LoadInt64(&store.nHits),
		"n_misses": atomic.LoadInt64(&store.nMisses),
		"n_keys":   int64(store.Len()),
	}
	return
}

func (store *storeStruct) LogStats() {
	stats := store.Stats()
	fmsg := "%v puts: %v gets: %v (%v hits, %v misses) keys: %v\n"
	log.Infof(
		fmsg, store.logprefix,
		humanize.Comma(stats["n_puts"].(int64)),
		humanize.Comma(stats["n_gets"].(int64)),
		humanize.Comma(stats["n_hits"].(int64)),
		humanize.Comma(stats["n_misses"].(int64)),
		humanize.Comma(stats["n_keys"].(int64)),
	)
}
