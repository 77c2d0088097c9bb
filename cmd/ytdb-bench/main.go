// Command ytdb-bench exercises a Store under three contention patterns:
// write-only, read-only, and mixed. Each scenario verifies its results and
// reports wall-clock throughput. A verification failure exits non-zero.
package main

import (
	"bytes"
	"flag"
	"fmt"
	mathRand "math/rand"
	"os"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/bnclabs/golog"
	humanize "github.com/dustin/go-humanize"

	ytdb "github.com/babicmihailo/YTDB"
)

var options struct {
	writers       int
	keysPerWriter int
	readers       int
	readsPerRead  int
	mixedWriters  int
	mixedReaders  int
	mixedOps      int
	keySpace      int
	seed          int64
	selfcheck     bool
	dump          bool
}

func argParse() {
	flag.IntVar(&options.writers, "writers", 8, "concurrent writers in the write scenario")
	flag.IntVar(&options.keysPerWriter, "keyswriter", 1000, "keys inserted by each writer")
	flag.IntVar(&options.readers, "readers", 16, "concurrent readers in the read scenario")
	flag.IntVar(&options.readsPerRead, "readsreader", 10000, "lookups issued by each reader")
	flag.IntVar(&options.mixedWriters, "mwriters", 4, "writers in the mixed scenario")
	flag.IntVar(&options.mixedReaders, "mreaders", 12, "readers in the mixed scenario")
	flag.IntVar(&options.mixedOps, "mops", 5000, "operations per mixed-scenario worker")
	flag.IntVar(&options.keySpace, "keyspace", 1000, "distinct keys in the read/mixed scenarios")
	flag.Int64Var(&options.seed, "seed", 0x5EED, "pseudo-random seed for the mixed scenario")
	flag.BoolVar(&options.selfcheck, "selfcheck", false, "validate tree shape after every put")
	flag.BoolVar(&options.dump, "dump", false, "dump the final tree of the write scenario")
	flag.Parse()
}

func main() {
	argParse()

	failures := 0
	failures += writeScenario()
	failures += readScenario()
	failures += mixedScenario()

	if 0 != failures {
		fmt.Printf("FAILED (%v scenario(s))\n", failures)
		os.Exit(1)
	}
	fmt.Printf("PASSED\n")
}

func newBenchStore(name string) ytdb.Store {
	setts := ytdb.Defaultsettings()
	setts["selfcheck.enable"] = options.selfcheck
	return ytdb.NewStore(name, ytdb.CompareKey, nil, setts)
}

func uint16Key(i int) ytdb.Key {
	return ytdb.Key{byte(i >> 8), byte(i)}
}

func valueForKey(key ytdb.Key) ytdb.Value {
	value := make(ytdb.Value, 0, 1+len(key))
	value = append(value, 0xFE)
	return append(value, key...)
}

func writeScenario() (failed int) {
	var waitGroup sync.WaitGroup

	store := newBenchStore("write")

	startTime := time.Now()

	waitGroup.Add(options.writers)
	for writerID := 0; writerID < options.writers; writerID++ {
		go func(writerID int) {
			defer waitGroup.Done()
			for i := 0; i < options.keysPerWriter; i++ {
				key := ytdb.Key{byte(writerID), byte(i >> 8), byte(i)}
				err := store.Put(key, valueForKey(key))
				if nil != err {
					log.Errorf("write: Put(%x) failed: %v\n", key, err)
					return
				}
			}
		}(writerID)
	}
	waitGroup.Wait()

	elapsed := time.Since(startTime)

	numExpected := options.writers * options.keysPerWriter
	if numExpected != store.Len() {
		log.Errorf("write: expected %v keys... found %v\n", numExpected, store.Len())
		failed = 1
	}
	for writerID := 0; writerID < options.writers; writerID++ {
		for i := 0; i < options.keysPerWriter; i++ {
			key := ytdb.Key{byte(writerID), byte(i >> 8), byte(i)}
			value, ok, err := store.GetByKey(key)
			if nil != err || !ok || !bytes.Equal(value, valueForKey(key)) {
				log.Errorf("write: verification of %x failed (ok: %v err: %v)\n", key, ok, err)
				failed = 1
			}
		}
	}
	if err := store.Validate(); nil != err {
		log.Errorf("write: Validate() failed: %v\n", err)
		failed = 1
	}

	if options.dump {
		_ = store.Dump()
	}

	log.Infof("write: %v puts (%v writers) in %v [height %v]\n",
		humanize.Comma(int64(numExpected)), options.writers, elapsed, store.Height())
	store.LogStats()

	return
}

func readScenario() (failed int) {
	var (
		numSuccess int64
		waitGroup  sync.WaitGroup
	)

	store := newBenchStore("read")

	for i := 0; i < options.keySpace; i++ {
		err := store.Put(uint16Key(i), valueForKey(uint16Key(i)))
		if nil != err {
			log.Errorf("read: preload Put() failed: %v\n", err)
			failed = 1
			return
		}
	}

	startTime := time.Now()

	waitGroup.Add(options.readers)
	for readerID := 0; readerID < options.readers; readerID++ {
		go func(readerID int) {
			defer waitGroup.Done()
			for i := 0; i < options.readsPerRead; i++ {
				keyIndex := (readerID*7919 + i*31) % options.keySpace
				value, ok, err := store.GetByKey(uint16Key(keyIndex))
				if nil == err && ok && bytes.Equal(value, valueForKey(uint16Key(keyIndex))) {
					atomic.AddInt64(&numSuccess, 1)
				}
			}
		}(readerID)
	}
	waitGroup.Wait()

	elapsed := time.Since(startTime)

	numExpected := int64(options.readers * options.readsPerRead)
	if numExpected != numSuccess {
		log.Errorf("read: expected %v successful gets... saw %v\n", numExpected, numSuccess)
		failed = 1
	}

	log.Infof("read: %v gets (%v readers) in %v\n",
		humanize.Comma(numExpected), options.readers, elapsed)
	store.LogStats()

	return
}

func mixedScenario() (failed int) {
	var (
		numBadValues int64
		waitGroup    sync.WaitGroup
	)

	store := newBenchStore("mixed")

	startTime := time.Now()

	waitGroup.Add(options.mixedWriters + options.mixedReaders)

	for writerID := 0; writerID < options.mixedWriters; writerID++ {
		go func(writerID int) {
			defer waitGroup.Done()
			randSource := mathRand.New(mathRand.NewSource(options.seed + int64(writerID)))
			for i := 0; i < options.mixedOps; i++ {
				keyIndex := randSource.Intn(options.keySpace)
				err := store.Put(uint16Key(keyIndex), ytdb.Value{byte(writerID), byte(keyIndex)})
				if nil != err {
					log.Errorf("mixed: Put() failed: %v\n", err)
					return
				}
			}
		}(writerID)
	}

	for readerID := 0; readerID < options.mixedReaders; readerID++ {
		go func(readerID int) {
			defer waitGroup.Done()
			randSource := mathRand.New(mathRand.NewSource(options.seed - int64(readerID) - 1))
			for i := 0; i < options.mixedOps; i++ {
				keyIndex := randSource.Intn(options.keySpace)
				value, ok, err := store.GetByKey(uint16Key(keyIndex))
				if nil != err {
					log.Errorf("mixed: GetByKey() failed: %v\n", err)
					return
				}
				if ok {
					if 2 != len(value) || options.mixedWriters <= int(value[0]) || byte(keyIndex) != value[1] {
						atomic.AddInt64(&numBadValues, 1)
					}
				}
			}
		}(readerID)
	}

	waitGroup.Wait()

	elapsed := time.Since(startTime)

	if 0 != numBadValues {
		log.Errorf("mixed: %v reads observed values no writer stored\n", numBadValues)
		failed = 1
	}
	if err := store.Validate(); nil != err {
		log.Errorf("mixed: Validate() failed: %v\n", err)
		failed = 1
	}

	numOps := int64((options.mixedWriters + options.mixedReaders) * options.mixedOps)
	log.Infof("mixed: %v ops (%v writers, %v readers) in %v\n",
		humanize.Comma(numOps), options.mixedWriters, options.mixedReaders, elapsed)
	store.LogStats()

	return
}
