package ytdb

import (
	"fmt"
	"testing"
)

type refusingDumpCallbacksStruct struct {
	refuseKeys   bool
	refuseValues bool
}

func (callbacks *refusingDumpCallbacksStruct) DumpKey(key Key) (keyAsString string, err error) {
	if callbacks.refuseKeys {
		err = fmt.Errorf("DumpKey(%x) refused", key)
		return
	}
	keyAsString = fmt.Sprintf("%x", key)
	err = nil
	return
}

func (callbacks *refusingDumpCallbacksStruct) DumpValue(value Value) (valueAsString string, err error) {
	if callbacks.refuseValues {
		err = fmt.Errorf("DumpValue(%x) refused", value)
		return
	}
	valueAsString = fmt.Sprintf("%x", value)
	err = nil
	return
}

func testDumpTree(t *testing.T, callbacks DumpCallbacks) (tree RBTree) {
	tree = NewRBTree(CompareKey, callbacks)

	for i := 0; i < testSmallNumKeys; i++ {
		err := tree.Put(testUint16Key(uint16(i)), testValueForKey(testUint16Key(uint16(i))))
		if nil != err {
			t.Fatal(err)
		}
	}

	return
}

func TestRBTreeDump(t *testing.T) {
	var (
		err error
	)

	err = NewRBTree(CompareKey, nil).Dump()
	if nil != err {
		t.Fatalf("Dump() of just initialized RBTree should have succeeded... instead: %v", err)
	}

	err = testDumpTree(t, nil).Dump()
	if nil != err {
		t.Fatalf("Dump() with stock hex callbacks should have succeeded... instead: %v", err)
	}
}

func TestRBTreeDumpCallbackErrors(t *testing.T) {
	var (
		err error
	)

	err = testDumpTree(t, &refusingDumpCallbacksStruct{refuseKeys: true}).Dump()
	if nil == err {
		t.Fatalf("Dump() with a refusing DumpKey callback should have failed")
	}

	err = testDumpTree(t, &refusingDumpCallbacksStruct{refuseValues: true}).Dump()
	if nil == err {
		t.Fatalf("Dump() with a refusing DumpValue callback should have failed")
	}
}
