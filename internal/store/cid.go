package store

import (
	"fmt"

	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
	"lukechampine.com/blake3"
)

// RawCid computes the CID of a raw blob: a v1 CID over the blake3 hash
// of the data.
func RawCid(data []byte) cid.Cid {
	digest := blake3.Sum256(data)
	hash, err := mh.Encode(digest[:], mh.BLAKE3)
	if err != nil {
		// Encoding a fixed-size digest with a known code cannot fail.
		panic(fmt.Sprintf("store: encode multihash: %v", err))
	}
	return cid.NewCidV1(cid.Raw, hash)
}
