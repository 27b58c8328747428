package cas_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openacad/acadledger-api/pkg/cas"
)

func TestComputeCIDDeterministic(t *testing.T) {
	payload := []byte("lecture notes: graph colouring")

	first, err := cas.ComputeCIDBytes(payload)
	require.NoError(t, err)
	second, err := cas.ComputeCIDBytes(payload)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.True(t, strings.HasPrefix(first, "Qm"), "expected a CIDv0, got %q", first)
}

func TestComputeCIDDiffersForDifferentBytes(t *testing.T) {
	first, err := cas.ComputeCIDBytes([]byte("assignment v1"))
	require.NoError(t, err)
	second, err := cas.ComputeCIDBytes([]byte("assignment v2"))
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestComputeCIDIgnoresChunking(t *testing.T) {
	// A multi-block file still yields one stable root CID.
	large := bytes.Repeat([]byte("0123456789abcdef"), 64*1024) // 1 MiB

	first, err := cas.ComputeCID(bytes.NewReader(large))
	require.NoError(t, err)
	second, err := cas.ComputeCID(bytes.NewReader(large))
	require.NoError(t, err)

	require.Equal(t, first, second)
}
