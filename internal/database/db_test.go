package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusBeforeConnect(t *testing.T) {
	Close()

	assert.Nil(t, Pool())
	assert.ErrorIs(t, Status(context.Background()), ErrNotConnected)
}

func TestConnectRejectsInvalidURL(t *testing.T) {
	Close()

	err := Connect(context.Background(), PoolConfig{URL: "postgres://%zz"})
	assert.Error(t, err)
	assert.Nil(t, Pool())
}
