package blobstore

import (
	"errors"
	"fmt"
	"strings"
)

// Connection holds the fields of a storage connection string.
type Connection struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
}

// ParseConnectionString parses "Endpoint=...;AccessKey=...;SecretKey=...;Region=..."
// style strings. Keys are case-insensitive; AccountName/AccountKey are accepted
// as aliases for AccessKey/SecretKey.
func ParseConnectionString(raw string) (Connection, error) {
	var conn Connection
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return Connection{}, fmt.Errorf("malformed connection string segment %q", part)
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "endpoint", "blobendpoint":
			conn.Endpoint = value
		case "accesskey", "accountname":
			conn.AccessKey = value
		case "secretkey", "accountkey":
			conn.SecretKey = value
		case "region":
			conn.Region = value
		}
	}
	if conn.Endpoint == "" {
		return Connection{}, errors.New("connection string is missing Endpoint")
	}
	if conn.AccessKey == "" || conn.SecretKey == "" {
		return Connection{}, errors.New("connection string is missing credentials")
	}
	return conn, nil
}
