package ytdb

import "fmt"

// Validate checks every structural invariant the tree is required to uphold
// after each completed Put():
//
//	1. every child's parent back-reference points at its actual parent
//	2. BST property under the tree's Compare
//	3. the root, if present, is BLACK
//	4. no RED node has a RED child
//	5. every path from the root to an empty child position passes through
//	   the same number of BLACK nodes
//	6. the cached item count matches the number of reachable nodes
//
// The first violation found is returned as a descriptive error.
func (tree *rbTreeStruct) Validate() (err error) {
	var (
		numberOfItems int
	)

	if nil == tree.root {
		if 0 != tree.len {
			err = fmt.Errorf("Validate() found empty tree with len == %v", tree.len)
			return
		}
		err = nil
		return
	}

	if nil != tree.root.parent {
		err = fmt.Errorf("Validate() found root with non-nil parent")
		return
	}

	if BLACK != tree.root.color {
		err = fmt.Errorf("Validate() found non-BLACK root")
		return
	}

	numberOfItems, _, err = tree.validateSubtree(tree.root, nil, nil)
	if nil != err {
		return
	}

	if numberOfItems != tree.len {
		err = fmt.Errorf("Validate() counted %v nodes... cached len is %v", numberOfItems, tree.len)
		return
	}

	err = nil
	return
}

// BlackHeight returns the number of BLACK nodes on the (uniform) path from the
// root to any empty child position. An empty tree has BlackHeight zero.
func (tree *rbTreeStruct) BlackHeight() (blackHeight int, err error) {
	if nil == tree.root {
		blackHeight = 0
		err = nil
		return
	}

	_, blackHeight, err = tree.validateSubtree(tree.root, nil, nil)

	return
}

// validateSubtree checks node's subtree against the exclusive Key bounds
// (lowerBound, upperBound), either of which may be nil meaning unbounded.
func (tree *rbTreeStruct) validateSubtree(node *rbTreeNodeStruct, lowerBound *rbTreeNodeStruct, upperBound *rbTreeNodeStruct) (numberOfItems int, blackHeight int, err error) {
	var (
		compareResult      int
		leftBlackHeight    int
		leftNumberOfItems  int
		rightBlackHeight   int
		rightNumberOfItems int
	)

	if nil == node {
		numberOfItems = 0
		blackHeight = 0
		err = nil
		return
	}

	if RED == node.color && nil != node.parent && RED == node.parent.color {
		err = fmt.Errorf("Validate() found RED node with RED parent at key %v", tree.dumpKeyBestEffort(node.key))
		return
	}

	if nil != lowerBound {
		compareResult, err = tree.Compare(node.key, lowerBound.key)
		if nil != err {
			return
		}
		if 0 >= compareResult {
			err = fmt.Errorf("Validate() found key %v at or below its subtree's lower bound %v", tree.dumpKeyBestEffort(node.key), tree.dumpKeyBestEffort(lowerBound.key))
			return
		}
	}

	if nil != upperBound {
		compareResult, err = tree.Compare(node.key, upperBound.key)
		if nil != err {
			return
		}
		if 0 <= compareResult {
			err = fmt.Errorf("Validate() found key %v at or above its subtree's upper bound %v", tree.dumpKeyBestEffort(node.key), tree.dumpKeyBestEffort(upperBound.key))
			return
		}
	}

	if nil != node.left && node.left.parent != node {
		err = fmt.Errorf("Validate() found left child with stale parent back-reference at key %v", tree.dumpKeyBestEffort(node.key))
		return
	}

	if nil != node.right && node.right.parent != node {
		err = fmt.Errorf("Validate() found right child with stale parent back-reference at key %v", tree.dumpKeyBestEffort(node.key))
		return
	}

	leftNumberOfItems, leftBlackHeight, err = tree.validateSubtree(node.left, lowerBound, node)
	if nil != err {
		return
	}

	rightNumberOfItems, rightBlackHeight, err = tree.validateSubtree(node.right, node, upperBound)
	if nil != err {
		return
	}

	if leftBlackHeight != rightBlackHeight {
		err = fmt.Errorf("Validate() found unequal black-heights (%v vs %v) beneath key %v", leftBlackHeight, rightBlackHeight, tree.dumpKeyBestEffort(node.key))
		return
	}

	numberOfItems = 1 + leftNumberOfItems + rightNumberOfItems

	blackHeight = leftBlackHeight
	if BLACK == node.color {
		blackHeight++
	}

	err = nil
	return
}

func (tree *rbTreeStruct) dumpKeyBestEffort(key Key) (keyAsString string) {
	keyAsString, dumpKeyErr := tree.DumpKey(key)
	if nil != dumpKeyErr {
		keyAsString = fmt.Sprintf("%v", []byte(key))
	}
	return
}
