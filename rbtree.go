package ytdb

type colorType uint8

const (
	RED colorType = iota
	BLACK
)

type rbTreeNodeStruct struct {
	key    Key
	value  Value
	left   *rbTreeNodeStruct
	right  *rbTreeNodeStruct
	parent *rbTreeNodeStruct //  lookup only... never drives deallocation
	color  colorType
}

type rbTreeStruct struct {
	Compare
	DumpCallbacks
	root *rbTreeNodeStruct
	len  int
}

// API functions (see api.go)

func (tree *rbTreeStruct) Put(key Key, value Value) (err error) {
	var (
		compareResult int
		current       *rbTreeNodeStruct
		newNode       *rbTreeNodeStruct
		parent        *rbTreeNodeStruct
	)

	if nil == tree.root {
		// Root is the one node created non-red
		tree.root = &rbTreeNodeStruct{key: copyKey(key), value: copyValue(value), color: BLACK}
		tree.len = 1
		err = nil
		return
	}

	current = tree.root

	for nil != current {
		parent = current
		compareResult, err = tree.Compare(key, current.key)
		if nil != err {
			return
		}
		if 0 == compareResult {
			current.value = copyValue(value)
			err = nil
			return
		}
		if 0 > compareResult {
			current = current.left
		} else {
			current = current.right
		}
	}

	// compareResult still holds the comparison against parent (the last node visited)

	newNode = &rbTreeNodeStruct{key: copyKey(key), value: copyValue(value), parent: parent, color: RED}

	if 0 > compareResult {
		parent.left = newNode
	} else {
		parent.right = newNode
	}

	tree.len++

	tree.fixupAfterInsert(newNode)

	err = nil
	return
}

func (tree *rbTreeStruct) GetByKey(key Key) (value Value, ok bool, err error) {
	node := tree.root

	for nil != node {
		compareResult, nonShadowingErr := tree.Compare(key, node.key)
		if nil != nonShadowingErr {
			err = nonShadowingErr
			return
		}
		if 0 == compareResult {
			value = node.value
			ok = true
			err = nil
			return
		}
		if 0 > compareResult {
			node = node.left
		} else {
			node = node.right
		}
	}

	ok = false
	err = nil
	return
}

func (tree *rbTreeStruct) Len() (numberOfItems int) {
	numberOfItems = tree.len
	return
}

func (tree *rbTreeStruct) Height() (height int) {
	height = heightOfSubtree(tree.root)
	return
}

func (tree *rbTreeStruct) Reset() {
	// Former root's subtree is reclaimed by the runtime once unreferenced
	tree.root = nil
	tree.len = 0
}

// Helper functions

// fixupAfterInsert restores the red-black invariants following the linking of
// node (colored RED) beneath its (possibly RED) parent. At each iteration the
// only possible violation is node and node.parent both being RED; since the
// prior root was BLACK, a RED parent implies the grandparent exists.
func (tree *rbTreeStruct) fixupAfterInsert(node *rbTreeNodeStruct) {
	var (
		grandparent *rbTreeNodeStruct
		uncle       *rbTreeNodeStruct
	)

	for nil != node.parent && RED == node.parent.color {
		grandparent = node.parent.parent

		if node.parent == grandparent.left {
			uncle = grandparent.right
			if nil != uncle && RED == uncle.color {
				// Red uncle... recolor and push the violation upward
				node.parent.color = BLACK
				uncle.color = BLACK
				grandparent.color = RED
				node = grandparent
			} else {
				if node == node.parent.right {
					// Inner child... rotate to the outer shape first
					node = node.parent
					tree.rotateLeft(node)
				}
				node.parent.color = BLACK
				node.parent.parent.color = RED
				tree.rotateRight(node.parent.parent)
			}
		} else {
			uncle = grandparent.left
			if nil != uncle && RED == uncle.color {
				node.parent.color = BLACK
				uncle.color = BLACK
				grandparent.color = RED
				node = grandparent
			} else {
				if node == node.parent.left {
					node = node.parent
					tree.rotateRight(node)
				}
				node.parent.color = BLACK
				node.parent.parent.color = RED
				tree.rotateLeft(node.parent.parent)
			}
		}
	}

	tree.root.color = BLACK
}

// rotateLeft promotes node.right into node's position while preserving
// in-order Key ordering. Constant time... no subtree traversal.
func (tree *rbTreeStruct) rotateLeft(node *rbTreeNodeStruct) {
	rightChild := node.right

	node.right = rightChild.left
	if nil != rightChild.left {
		rightChild.left.parent = node
	}

	rightChild.parent = node.parent
	if nil == node.parent {
		tree.root = rightChild
	} else if node == node.parent.left {
		node.parent.left = rightChild
	} else {
		node.parent.right = rightChild
	}

	rightChild.left = node
	node.parent = rightChild
}

// rotateRight is the mirror image of rotateLeft.
func (tree *rbTreeStruct) rotateRight(node *rbTreeNodeStruct) {
	leftChild := node.left

	node.left = leftChild.right
	if nil != leftChild.right {
		leftChild.right.parent = node
	}

	leftChild.parent = node.parent
	if nil == node.parent {
		tree.root = leftChild
	} else if node == node.parent.right {
		node.parent.right = leftChild
	} else {
		node.parent.left = leftChild
	}

	leftChild.right = node
	node.parent = leftChild
}

func heightOfSubtree(node *rbTreeNodeStruct) (height int) {
	if nil == node {
		height = 0
		return
	}

	leftHeight := heightOfSubtree(node.left)
	rightHeight := heightOfSubtree(node.right)

	if leftHeight > rightHeight {
		height = 1 + leftHeight
	} else {
		height = 1 + rightHeight
	}

	return
}

// Stored Keys & Values are owned by the tree... callers may mutate or retain
// their argument slices freely, and Values returned by GetByKey() are never
// overwritten in place (Put() on an existing Key installs a fresh copy).
func copyKey(key Key) (keyCopy Key) {
	keyCopy = make(Key, len(key))
	copy(keyCopy, key)
	return
}

func copyValue(value Value) (valueCopy Value) {
	valueCopy = make(Value, len(value))
	copy(valueCopy, value)
	return
}
