package database

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// ConnectNATS establishes the event fan-out connection. An empty URL is not
// an error; the publisher treats a nil connection as a disabled sink.
func ConnectNATS(url string) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}

	conn, err := nats.Connect(url, nats.Name("acadledger-api"))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}

	return conn, nil
}
