package ytdb

import (
	"fmt"

	"github.com/NVIDIA/cstruct"
	"github.com/zeebo/xxh3"
)

// Packed image layout (all integers little-endian):
//
//	packedTreeHeaderStruct
//	NumberOfItems x { packedRecordHeaderStruct, Key bytes, Value bytes }
//
// Records are emitted in Key order, so two trees holding the same mappings
// produce identical images (and identical Fingerprints) regardless of the
// insertion order that built them. The image is a debugging/verification
// surface... it is not a durability format.

var packByteOrder = cstruct.LittleEndian

type packedTreeHeaderStruct struct {
	NumberOfItems uint64
}

type packedRecordHeaderStruct struct {
	KeyLength   uint64
	ValueLength uint64
}

func (tree *rbTreeStruct) Pack() (packedMap []byte, err error) {
	packedMap, err = cstruct.Pack(packedTreeHeaderStruct{NumberOfItems: uint64(tree.len)}, packByteOrder)
	if nil != err {
		return
	}

	packedMap, err = tree.packSubtree(tree.root, packedMap)
	if nil != err {
		return
	}

	err = nil
	return
}

func (tree *rbTreeStruct) packSubtree(node *rbTreeNodeStruct, packedMapSoFar []byte) (packedMap []byte, err error) {
	packedMap = packedMapSoFar

	if nil == node {
		err = nil
		return
	}

	packedMap, err = tree.packSubtree(node.left, packedMap)
	if nil != err {
		return
	}

	recordHeaderBuf, err := cstruct.Pack(packedRecordHeaderStruct{KeyLength: uint64(len(node.key)), ValueLength: uint64(len(node.value))}, packByteOrder)
	if nil != err {
		return
	}

	packedMap = append(packedMap, recordHeaderBuf...)
	packedMap = append(packedMap, node.key...)
	packedMap = append(packedMap, node.value...)

	packedMap, err = tree.packSubtree(node.right, packedMap)
	if nil != err {
		return
	}

	err = nil
	return
}

// Unpack resets the tree and rebuilds it from a packed image previously
// produced by Pack() (under the same Compare).
func (tree *rbTreeStruct) Unpack(packedMap []byte) (err error) {
	var (
		recordHeader packedRecordHeaderStruct
		treeHeader   packedTreeHeaderStruct
	)

	bytesConsumed, err := cstruct.Unpack(packedMap, &treeHeader, packByteOrder)
	if nil != err {
		return
	}
	payload := packedMap[bytesConsumed:]

	tree.Reset()

	for i := uint64(0); i < treeHeader.NumberOfItems; i++ {
		bytesConsumed, err = cstruct.Unpack(payload, &recordHeader, packByteOrder)
		if nil != err {
			return
		}
		payload = payload[bytesConsumed:]

		// Lengths are checked one at a time (summing them could overflow)
		if uint64(len(payload)) < recordHeader.KeyLength {
			err = fmt.Errorf("Unpack() found truncated record %v (KeyLength %v... %v bytes remain)", i, recordHeader.KeyLength, len(payload))
			return
		}
		key := Key(payload[:recordHeader.KeyLength])
		payload = payload[recordHeader.KeyLength:]

		if uint64(len(payload)) < recordHeader.ValueLength {
			err = fmt.Errorf("Unpack() found truncated record %v (ValueLength %v... %v bytes remain)", i, recordHeader.ValueLength, len(payload))
			return
		}
		value := Value(payload[:recordHeader.ValueLength])
		payload = payload[recordHeader.ValueLength:]

		err = tree.Put(key, value)
		if nil != err {
			return
		}
	}

	if 0 != len(payload) {
		err = fmt.Errorf("Unpack() found %v trailing bytes after final record", len(payload))
		return
	}

	err = nil
	return
}

// Fingerprint returns the 64-bit XXH3 hash of the tree's packed image. Equal
// contents hash equally... any differing Key or Value (with overwhelming
// probability) does not.
func (tree *rbTreeStruct) Fingerprint() (fingerprint uint64, err error) {
	packedMap, err := tree.Pack()
	if nil != err {
		return
	}

	fingerprint = xxh3.Hash(packedMap)

	err = nil
	return
}
