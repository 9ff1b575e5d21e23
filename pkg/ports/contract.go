package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	key := "contract-test-key-" + time.Now().Format("20060102150405")

	t.Run("Get Missing", func(t *testing.T) {
		_, err := store.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("Set and Get", func(t *testing.T) {
		err := store.Set(ctx, key, "value")
		require.NoError(t, err, "Set should not return error")

		got, err := store.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, "value", got)
	})

	t.Run("Set Idempotent", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, domain.SessionMarkerKey, domain.SessionMarkerValue))
		require.NoError(t, store.Set(ctx, domain.SessionMarkerKey, domain.SessionMarkerValue))

		got, err := store.Get(ctx, domain.SessionMarkerKey)
		require.NoError(t, err)
		assert.Equal(t, domain.SessionMarkerValue, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, "first"))
		require.NoError(t, store.Set(ctx, key, "second"))

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})
}
