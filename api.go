package ytdb

import "bytes"

// Key is an opaque byte sequence. Keys are unique within a tree and ordered
// by the tree's Compare function.
type Key []byte

// Value is an opaque byte sequence stored against a Key. A Put() for an
// existing Key replaces the Value entirely.
type Value []byte

// Compare specifies the ordering of two Keys:
//
//	result  < 0 : key1 sorts before key2
//	result == 0 : key1 equals key2
//	result  > 0 : key1 sorts after key2
type Compare func(key1 Key, key2 Key) (result int, err error)

// CompareKey is the stock Compare: lexicographic bytewise order where a
// shorter Key that is a strict prefix of a longer Key sorts first.
func CompareKey(key1 Key, key2 Key) (result int, err error) {
	result = bytes.Compare(key1, key2)
	err = nil
	return
}

// DumpCallbacks specifies the interface to a set of callbacks provided by the
// client used to render Keys & Values in Dump() output
type DumpCallbacks interface {
	DumpKey(key Key) (keyAsString string, err error)
	DumpValue(value Value) (valueAsString string, err error)
}

// OrderedMap is the common API implemented by both the (unsynchronized)
// RBTree engine and the (reader-writer-locked) Store wrapping it
type OrderedMap interface {
	Put(key Key, value Value) (err error)
	GetByKey(key Key) (value Value, ok bool, err error)
	Len() (numberOfItems int)
	Height() (height int)
	Reset()
	Dump() (err error)
	Validate() (err error)
	Pack() (packedMap []byte, err error)
	Fingerprint() (fingerprint uint64, err error)
}

// RBTree is a red-black tree mapping Keys to Values. It performs no internal
// synchronization: callers must guarantee external exclusion (or wrap it in a
// Store, which does exactly that).
type RBTree interface {
	OrderedMap
	BlackHeight() (blackHeight int, err error)
	Unpack(packedMap []byte) (err error)
}

func NewRBTree(compare Compare, callbacks DumpCallbacks) (tree RBTree) {
	if nil == callbacks {
		callbacks = &hexDumpCallbacksStruct{}
	}
	tree = &rbTreeStruct{Compare: compare, DumpCallbacks: callbacks, root: nil}
	return
}
