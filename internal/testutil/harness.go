// Package testutil holds fixtures and helpers shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/codephy/internal/config"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Document decodes a JSON model document or fails the test.
func Document(t *testing.T, src string) *config.Document {
	t.Helper()
	doc, _, err := config.JSONLoader{}.Parse(context.Background(), "test.json", []byte(src))
	require.NoError(t, err)
	return doc
}
