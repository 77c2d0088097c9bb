package ytdb

import (
	"encoding/hex"
	"fmt"
	"strings"
)

type hexDumpCallbacksStruct struct{}

func (callbacks *hexDumpCallbacksStruct) DumpKey(key Key) (keyAsString string, err error) {
	keyAsString = hex.EncodeToString(key)
	err = nil
	return
}

func (callbacks *hexDumpCallbacksStruct) DumpValue(value Value) (valueAsString string, err error) {
	valueAsString = hex.EncodeToString(value)
	err = nil
	return
}

func (tree *rbTreeStruct) Dump() (err error) {
	err = tree.dumpInFlatForm(tree.root)
	if nil != err {
		return
	}

	err = tree.dumpInTreeForm()

	return
}

func (tree *rbTreeStruct) dumpInFlatForm(node *rbTreeNodeStruct) (err error) {
	if nil == node {
		err = nil
		return
	}

	nodeKey, err := tree.DumpKey(node.key)
	if nil != err {
		return
	}

	nodeValue, err := tree.DumpValue(node.value)
	if nil != err {
		return
	}

	nodeLeftKey := "nil"
	if nil != node.left {
		nodeLeftKey, err = tree.DumpKey(node.left.key)
		if nil != err {
			return
		}
	}

	nodeRightKey := "nil"
	if nil != node.right {
		nodeRightKey, err = tree.DumpKey(node.right.key)
		if nil != err {
			return
		}
	}

	var colorString string
	if RED == node.color {
		colorString = "RED"
	} else { // BLACK == node.color
		colorString = "BLACK"
	}

	fmt.Printf("%v Node Key == %v Node Value == %v Node.left.Key == %v Node.right.Key == %v\n", colorString, nodeKey, nodeValue, nodeLeftKey, nodeRightKey)

	err = tree.dumpInFlatForm(node.left)
	if nil != err {
		return
	}

	err = tree.dumpInFlatForm(node.right)

	return
}

func (tree *rbTreeStruct) dumpInTreeForm() (err error) {
	if nil == tree.root {
		err = nil
		return
	}

	if nil != tree.root.right {
		err = tree.dumpInTreeFormNode(tree.root.right, true, "")
		if nil != err {
			return
		}
	}

	rootKey, err := tree.DumpKey(tree.root.key)
	if nil != err {
		return
	}
	fmt.Println(rootKey)

	if nil != tree.root.left {
		err = tree.dumpInTreeFormNode(tree.root.left, false, "")
		if nil != err {
			return
		}
	}

	err = nil
	return
}

func (tree *rbTreeStruct) dumpInTreeFormNode(node *rbTreeNodeStruct, isRight bool, indent string) (err error) {
	var indentAppendage string
	var nextIndent string

	if nil != node.right {
		if isRight {
			indentAppendage = "        "
		} else {
			indentAppendage = " |      "
		}
		nextIndent = strings.Join([]string{indent, indentAppendage}, "")
		err = tree.dumpInTreeFormNode(node.right, true, nextIndent)
		if nil != err {
			return
		}
	}

	nodeKey, err := tree.DumpKey(node.key)
	if nil != err {
		return
	}

	fmt.Printf("%v", indent)
	if isRight {
		fmt.Printf(" /")
	} else {
		fmt.Printf(" \\")
	}
	fmt.Println("-----", nodeKey)

	if nil != node.left {
		if isRight {
			indentAppendage = " |      "
		} else {
			indentAppendage = "        "
		}
		nextIndent = strings.Join([]string{indent, indentAppendage}, "")
		err = tree.dumpInTreeFormNode(node.left, false, nextIndent)
		if nil != err {
			return
		}
	}

	err = nil
	return
}
