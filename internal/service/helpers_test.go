package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openacad/acadledger-api/internal/events"
	"github.com/openacad/acadledger-api/internal/ledger"
	"github.com/openacad/acadledger-api/internal/metadata"
	"github.com/openacad/acadledger-api/pkg/cas"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func setupLedger(t *testing.T) *ledger.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	store := ledger.NewStore(db, testLogger())
	require.NoError(t, store.Migrate())

	return store
}

func setupMetadata(t *testing.T) *metadata.Store {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return metadata.NewStore(client, testLogger())
}

// newClosedRedis returns a client whose backing server is already gone, for
// exercising metadata-outage paths.
func newClosedRedis(t *testing.T) *redis.Client {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	server.Close()

	return client
}

func noopPublisher() *events.Publisher {
	return events.NewPublisher(nil, nil, "", testLogger())
}

// fakeArtifactStore pins by computing the artifact's real CID locally, so
// workflow tests see the same CIDs a pinning node would assign. failWith
// makes every Pin call fail instead.
type fakeArtifactStore struct {
	pins     int
	failWith error
}

func (f *fakeArtifactStore) Pin(_ context.Context, _ string, reader io.Reader) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}

	f.pins++

	return cas.ComputeCID(reader)
}

func (f *fakeArtifactStore) GatewayURL(cid string) string {
	return "https://gateway.test/ipfs/" + cid
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["file"][0]
}
