// Package storagetest holds a behavioral test suite shared by every
// storage.Store backend.
package storagetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanbase/jarvis-go/pkg/storage"
)

// Run runs the suite. newStore must return an empty store; each subtest
// gets its own.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Run("FindMemoryMatchDirection", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.SaveMemory(ctx, "Favorite Color", "blue"))

		value, found, err := store.FindMemory(ctx, "WHAT IS MY FAVORITE COLOR?")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "blue", value)

		// A query contained in the key is not a match.
		_, found, err = store.FindMemory(ctx, "color")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("FindMemoryLiteralWildcards", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.SaveMemory(ctx, "a_b", "underscore"))
		require.NoError(t, store.SaveMemory(ctx, "100%", "percent"))

		_, found, err := store.FindMemory(ctx, "axb")
		require.NoError(t, err)
		assert.False(t, found)

		_, found, err = store.FindMemory(ctx, "1000")
		require.NoError(t, err)
		assert.False(t, found)

		value, found, err := store.FindMemory(ctx, "give it 100%")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "percent", value)
	})

	t.Run("FindMemoryNewestWins", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.SaveMemory(ctx, "color", "red"))
		require.NoError(t, store.SaveMemory(ctx, "color", "blue"))

		value, found, err := store.FindMemory(ctx, "my color")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "blue", value)
	})

	t.Run("DeleteMemoryByKeyword", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.SaveMemory(ctx, "favorite color", "blue"))
		require.NoError(t, store.SaveMemory(ctx, "car color", "red"))
		require.NoError(t, store.SaveMemory(ctx, "name", "Arjun"))

		deleted, err := store.DeleteMemoryByKeyword(ctx, "COLOR")
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		facts, err := store.ListMemories(ctx)
		require.NoError(t, err)
		require.Len(t, facts, 1)
		assert.Equal(t, "name", facts[0].Key)
		assert.Equal(t, "Arjun", facts[0].Value)
		assert.False(t, facts[0].CreatedAt.IsZero())
	})

	t.Run("ListMemoriesNewestFirst", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for _, key := range []string{"first", "second", "third"} {
			require.NoError(t, store.SaveMemory(ctx, key, key))
		}

		facts, err := store.ListMemories(ctx)
		require.NoError(t, err)
		require.Len(t, facts, 3)
		assert.Equal(t, "third", facts[0].Key)
		assert.Equal(t, "first", facts[2].Key)
	})

	t.Run("LoadHistoryLimit", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			require.NoError(t, store.SaveChatTurn(ctx, fmt.Sprintf("m%d", i), fmt.Sprintf("r%d", i)))
		}

		turns, err := store.LoadHistory(ctx, 3)
		require.NoError(t, err)
		require.Len(t, turns, 3)
		assert.Equal(t, "m4", turns[0].UserMessage)
		assert.Equal(t, "r4", turns[0].AssistantReply)
		assert.Equal(t, "m2", turns[2].UserMessage)
		assert.False(t, turns[0].CreatedAt.IsZero())

		turns, err = store.LoadHistory(ctx, 50)
		require.NoError(t, err)
		assert.Len(t, turns, 5)

		turns, err = store.LoadHistory(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, turns)
	})
}
