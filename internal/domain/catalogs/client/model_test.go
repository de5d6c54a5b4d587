package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bherp/internal/core/id"
)

func validClient() *Client {
	c := New(id.New(), "Merkur d.o.o.", "Titova 15", "Sarajevo", "4200000000005")
	c.PDVNumber = "420000000000"
	c.Email = "info@merkur.ba"
	return c
}

func TestClientValidate(t *testing.T) {
	t.Run("valid client passes", func(t *testing.T) {
		require.NoError(t, validClient().Validate(context.Background()))
	})

	t.Run("name is required", func(t *testing.T) {
		c := validClient()
		c.Name = ""
		assert.Error(t, c.Validate(context.Background()))
	})

	t.Run("JIB must be 13 digits", func(t *testing.T) {
		c := validClient()
		c.JIB = "12345"
		assert.Error(t, c.Validate(context.Background()))
	})

	t.Run("empty JIB is allowed", func(t *testing.T) {
		c := validClient()
		c.JIB = ""
		assert.NoError(t, c.Validate(context.Background()))
	})

	t.Run("PDV number must be 12 digits", func(t *testing.T) {
		c := validClient()
		c.PDVNumber = "42"
		assert.Error(t, c.Validate(context.Background()))
	})

	t.Run("malformed email rejected", func(t *testing.T) {
		c := validClient()
		c.Email = "not-an-email"
		assert.Error(t, c.Validate(context.Background()))
	})
}

func TestClientIsVATRegistered(t *testing.T) {
	c := validClient()
	assert.True(t, c.IsVATRegistered())

	c.PDVNumber = ""
	assert.False(t, c.IsVATRegistered())
}

func TestClientSnapshot(t *testing.T) {
	c := validClient()
	snap := c.Snapshot()

	assert.Equal(t, c.ID, snap.ID)
	assert.Equal(t, c.Name, snap.Name)
	assert.Equal(t, c.JIB, snap.JIB)
	assert.Equal(t, c.PDVNumber, snap.PDVNumber)

	// The snapshot is a frozen copy: later registry edits must not leak in.
	c.Name = "Renamed d.o.o."
	assert.Equal(t, "Merkur d.o.o.", snap.Name)
}
