package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := NewClient(ctx, mr.Addr(), "", 0, nil)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "k", "v", 0).Err())
	mr.CheckGet(t, "k", "v")
	assert.NoError(t, c.Close())
}

func TestNewClientUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewClient(context.Background(), addr, "", 0, nil)
	assert.Error(t, err)
}
