package tx

import (
	"crypto/sha512"
	"strconv"
)

// The deep hash is a structure-aware digest over nested lists of byte
// blobs. Each node is tagged with its kind and size before hashing, so no
// two distinct structures share a digest even when their concatenated
// bytes would collide.
//
//	deepHash(blob)  = SHA384( SHA384("blob" || decimal length) || SHA384(bytes) )
//	deepHash(list)  = fold over children:
//	                  acc_0 = SHA384("list" || decimal length)
//	                  acc_i = SHA384( acc_{i-1} || deepHash(child_i) )

// DeepHashLen is the length of a deep hash digest in bytes.
const DeepHashLen = sha512.Size384

// Item is one node of a deep hash structure: either a byte blob or a list
// of child items. Construct with Blob and List.
type Item struct {
	blob []byte
	list []Item
	leaf bool
}

// Blob wraps raw bytes as a deep hash leaf.
func Blob(b []byte) Item {
	return Item{blob: b, leaf: true}
}

// List wraps child items as a deep hash list node.
func List(items ...Item) Item {
	return Item{list: items}
}

// DeepHash computes the structure digest of item.
func DeepHash(item Item) [DeepHashLen]byte {
	if item.leaf {
		tag := append([]byte("blob"), []byte(strconv.Itoa(len(item.blob)))...)
		tagHash := sha512.Sum384(tag)
		blobHash := sha512.Sum384(item.blob)
		return sha512.Sum384(append(tagHash[:], blobHash[:]...))
	}

	tag := append([]byte("list"), []byte(strconv.Itoa(len(item.list)))...)
	acc := sha512.Sum384(tag)
	for _, child := range item.list {
		childHash := DeepHash(child)
		acc = sha512.Sum384(append(acc[:], childHash[:]...))
	}
	return acc
}
