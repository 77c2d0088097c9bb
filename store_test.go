package ytdb

import (
	"bytes"
	mathRand "math/rand"
	"sync"
	"sync/atomic"
	"testing"

	s "github.com/bnclabs/gosettings"
)

const (
	testNumWriters         = 8
	testKeysPerWriter      = 1000
	testNumReaders         = 16
	testReadsPerReader     = 10000
	testNumMixedWriters    = 4
	testNumMixedReaders    = 12
	testOpsPerMixedWorker  = 5000
	testMixedKeySpaceLimit = 1000
)

func testWriterKey(writerID int, i int) (key Key) {
	key = Key{byte(writerID), byte(i >> 8), byte(i)}
	return
}

func TestStoreConcurrentWrites(t *testing.T) {
	var (
		err          error
		ok           bool
		valueAsValue Value
		waitGroup    sync.WaitGroup
	)

	store := NewStore("concurrent-writes", CompareKey, nil, nil)

	waitGroup.Add(testNumWriters)
	for writerID := 0; writerID < testNumWriters; writerID++ {
		go func(writerID int) {
			defer waitGroup.Done()
			for i := 0; i < testKeysPerWriter; i++ {
				putErr := store.Put(testWriterKey(writerID, i), testValueForKey(testWriterKey(writerID, i)))
				if nil != putErr {
					t.Error(putErr)
					return
				}
			}
		}(writerID)
	}
	waitGroup.Wait()

	if (testNumWriters * testKeysPerWriter) != store.Len() {
		t.Fatalf("Len() should have been %v... instead it was %v", testNumWriters*testKeysPerWriter, store.Len())
	}

	for writerID := 0; writerID < testNumWriters; writerID++ {
		for i := 0; i < testKeysPerWriter; i++ {
			valueAsValue, ok, err = store.GetByKey(testWriterKey(writerID, i))
			if nil != err {
				t.Fatal(err)
			}
			if !ok {
				t.Fatalf("GetByKey(%x).ok should have been true", testWriterKey(writerID, i))
			}
			if !bytes.Equal(valueAsValue, testValueForKey(testWriterKey(writerID, i))) {
				t.Fatalf("GetByKey(%x) returned the wrong value: %x", testWriterKey(writerID, i), valueAsValue)
			}
		}
	}

	err = store.Validate()
	if nil != err {
		t.Fatal(err)
	}
}

func TestStoreConcurrentReads(t *testing.T) {
	var (
		err        error
		numReads   int64
		numSuccess int64
		waitGroup  sync.WaitGroup
	)

	store := NewStore("concurrent-reads", CompareKey, nil, nil)

	for i := 0; i < testLargeNumKeys; i++ {
		err = store.Put(testUint16Key(uint16(i)), testValueForKey(testUint16Key(uint16(i))))
		if nil != err {
			t.Fatal(err)
		}
	}

	waitGroup.Add(testNumReaders)
	for readerID := 0; readerID < testNumReaders; readerID++ {
		go func(readerID int) {
			defer waitGroup.Done()
			for i := 0; i < testReadsPerReader; i++ {
				keyIndex := (readerID*7919 + i*31) % testLargeNumKeys
				value, ok, getErr := store.GetByKey(testUint16Key(uint16(keyIndex)))
				if nil != getErr {
					t.Error(getErr)
					return
				}
				atomic.AddInt64(&numReads, 1)
				if ok && bytes.Equal(value, testValueForKey(testUint16Key(uint16(keyIndex)))) {
					atomic.AddInt64(&numSuccess, 1)
				}
			}
		}(readerID)
	}
	waitGroup.Wait()

	if int64(testNumReaders*testReadsPerReader) != numReads {
		t.Fatalf("expected %v reads... instead saw %v", testNumReaders*testReadsPerReader, numReads)
	}
	if numReads != numSuccess {
		t.Fatalf("all %v reads should have succeeded... instead only %v did", numReads, numSuccess)
	}
}

func TestStoreMixedReadWrite(t *testing.T) {
	var (
		err       error
		waitGroup sync.WaitGroup
	)

	store := NewStore("mixed-read-write", CompareKey, nil, nil)

	waitGroup.Add(testNumMixedWriters + testNumMixedReaders)

	for writerID := 0; writerID < testNumMixedWriters; writerID++ {
		go func(writerID int) {
			defer waitGroup.Done()
			randSource := mathRand.New(mathRand.NewSource(testPseudoRandomSeed + int64(writerID)))
			for i := 0; i < testOpsPerMixedWorker; i++ {
				keyIndex := randSource.Intn(testMixedKeySpaceLimit)
				putErr := store.Put(testUint16Key(uint16(keyIndex)), Value{byte(writerID), byte(keyIndex)})
				if nil != putErr {
					t.Error(putErr)
					return
				}
			}
		}(writerID)
	}

	for readerID := 0; readerID < testNumMixedReaders; readerID++ {
		go func(readerID int) {
			defer waitGroup.Done()
			randSource := mathRand.New(mathRand.NewSource(testPseudoRandomSeed - int64(readerID) - 1))
			for i := 0; i < testOpsPerMixedWorker; i++ {
				keyIndex := randSource.Intn(testMixedKeySpaceLimit)
				value, ok, getErr := store.GetByKey(testUint16Key(uint16(keyIndex)))
				if nil != getErr {
					t.Error(getErr)
					return
				}
				// Any observed value must be one some writer actually stored
				if ok {
					if 2 != len(value) {
						t.Errorf("GetByKey(%x) returned a malformed value: %x", testUint16Key(uint16(keyIndex)), value)
						return
					}
					if testNumMixedWriters <= int(value[0]) {
						t.Errorf("GetByKey(%x) returned an impossible writer ID: %x", testUint16Key(uint16(keyIndex)), value)
						return
					}
					if byte(keyIndex) != value[1] {
						t.Errorf("GetByKey(%x) returned a value for some other key: %x", testUint16Key(uint16(keyIndex)), value)
						return
					}
				}
			}
		}(readerID)
	}

	waitGroup.Wait()

	err = store.Validate()
	if nil != err {
		t.Fatal(err)
	}
}

func TestStoreSelfcheckAndStats(t *testing.T) {
	var (
		err error
	)

	setts := s.Settings{"selfcheck.enable": true}
	store := NewStore("selfcheck", CompareKey, nil, setts)

	for i := 0; i < testSmallNumKeys; i++ {
		err = store.Put(testUint16Key(uint16(i)), testValueForKey(testUint16Key(uint16(i))))
		if nil != err {
			t.Fatal(err)
		}
	}

	_, _, err = store.GetByKey(testUint16Key(0))
	if nil != err {
		t.Fatal(err)
	}
	_, _, err = store.GetByKey(testUint16Key(uint16(testSmallNumKeys)))
	if nil != err {
		t.Fatal(err)
	}

	stats := store.Stats()
	if int64(testSmallNumKeys) != stats["n_puts"].(int64) {
		t.Fatalf("Stats()[n_puts] should have been %v... instead it was %v", testSmallNumKeys, stats["n_puts"])
	}
	if int64(2) != stats["n_gets"].(int64) {
		t.Fatalf("Stats()[n_gets] should have been 2... instead it was %v", stats["n_gets"])
	}
	if int64(1) != stats["n_hits"].(int64) {
		t.Fatalf("Stats()[n_hits] should have been 1... instead it was %v", stats["n_hits"])
	}
	if int64(1) != stats["n_misses"].(int64) {
		t.Fatalf("Stats()[n_misses] should have been 1... instead it was %v", stats["n_misses"])
	}
	if int64(testSmallNumKeys) != stats["n_keys"].(int64) {
		t.Fatalf("Stats()[n_keys] should have been %v... instead it was %v", testSmallNumKeys, stats["n_keys"])
	}

	store.LogStats()

	store.Reset()
	if 0 != store.Len() {
		t.Fatalf("Len() after Reset() should have been 0... instead it was %v", store.Len())
	}
}
