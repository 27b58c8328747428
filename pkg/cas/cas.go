// Package cas computes IPFS content identifiers for artifacts without
// uploading them. The CID produced here matches what a pinning node returns
// for the same bytes, so callers can make deduplication decisions before
// paying for a network transfer.
package cas

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ipfs/boxo/blockservice"
	"github.com/ipfs/boxo/blockstore"
	chunker "github.com/ipfs/boxo/chunker"
	"github.com/ipfs/boxo/exchange/offline"
	"github.com/ipfs/boxo/ipld/merkledag"
	"github.com/ipfs/boxo/ipld/unixfs/importer/balanced"
	ihelpers "github.com/ipfs/boxo/ipld/unixfs/importer/helpers"
	"github.com/ipfs/go-cid"
	ds "github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
)

// ComputeCID returns the CIDv0 ("Qm...") an IPFS node would assign to the
// bytes read from r, using the default add settings: 256 KiB size splitting,
// balanced unixfs layout, sha2-256, dag-pb. The DAG is built against an
// in-memory blockstore and discarded; nothing leaves the process.
func ComputeCID(r io.Reader) (string, error) {
	store := blockstore.NewBlockstore(dssync.MutexWrap(ds.NewMapDatastore()))
	dagService := merkledag.NewDAGService(blockservice.New(store, offline.Exchange(store)))

	params := ihelpers.DagBuilderParams{
		Dagserv:    dagService,
		Maxlinks:   ihelpers.DefaultLinksPerBlock,
		CidBuilder: cid.V0Builder{},
	}

	builder, err := params.New(chunker.NewSizeSplitter(r, chunker.DefaultBlockSize))
	if err != nil {
		return "", fmt.Errorf("failed to prepare dag builder: %w", err)
	}

	node, err := balanced.Layout(builder)
	if err != nil {
		return "", fmt.Errorf("failed to build unixfs dag: %w", err)
	}

	return node.Cid().String(), nil
}

// ComputeCIDBytes is a convenience wrapper over ComputeCID for in-memory
// artifacts.
func ComputeCIDBytes(data []byte) (string, error) {
	return ComputeCID(bytes.NewReader(data))
}
