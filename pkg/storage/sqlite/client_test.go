package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanbase/jarvis-go/pkg/core"
	"github.com/oceanbase/jarvis-go/pkg/storage"
	"github.com/oceanbase/jarvis-go/pkg/storage/sqlite"
	"github.com/oceanbase/jarvis-go/pkg/storage/storagetest"
)

func setupSQLiteTest(t *testing.T) storage.Store {
	t.Helper()

	store, err := sqlite.NewClient(context.Background(), &sqlite.Config{
		DBPath: filepath.Join(t.TempDir(), "jarvis.db"),
	})
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteClient_SaveAndFindMemory(t *testing.T) {
	store := setupSQLiteTest(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMemory(ctx, "Name", "Arjun"))

	value, found, err := store.FindMemory(ctx, "what is my name")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Arjun", value)

	value, found, err = store.FindMemory(ctx, "WHAT IS MY NAME?")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Arjun", value)

	_, found, err = store.FindMemory(ctx, "how is the weather")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteClient_FindMemoryMatchDirection(t *testing.T) {
	store := setupSQLiteTest(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMemory(ctx, "favorite color", "blue"))

	// A query that is a substring of the stored key does not match.
	_, found, err := store.FindMemory(ctx, "color")
	require.NoError(t, err)
	assert.False(t, found)

	value, found, err := store.FindMemory(ctx, "tell me my favorite color please")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "blue", value)
}

func TestSQLiteClient_FindMemoryNewestWins(t *testing.T) {
	store := setupSQLiteTest(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMemory(ctx, "city", "Pune"))
	require.NoError(t, store.SaveMemory(ctx, "city", "Mumbai"))

	value, found, err := store.FindMemory(ctx, "which city do I live in")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Mumbai", value)
}

func TestSQLiteClient_SaveMemoryLowercasesKey(t *testing.T) {
	store := setupSQLiteTest(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMemory(ctx, "  Favorite FOOD ", "Dosa"))

	facts, err := store.ListMemories(ctx)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "favorite food", facts[0].Key)
	assert.Equal(t, "Dosa", facts[0].Value)
	assert.False(t, facts[0].CreatedAt.IsZero())
}

func TestSQLiteClient_SaveMemoryEmptyKey(t *testing.T) {
	store := setupSQLiteTest(t)

	err := store.SaveMemory(context.Background(), "   ", "x")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestSQLiteClient_DeleteMemoryByKeyword(t *testing.T) {
	store := setupSQLiteTest(t)
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

	deleted, err = store.DeleteMemoryByKeyword(ctx, "nothing-like-this")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestSQLiteClient_DeleteMemoryEmptyKeyword(t *testing.T) {
	store := setupSQLiteTest(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMemory(ctx, "name", "Arjun"))

	_, err := store.DeleteMemoryByKeyword(ctx, "  ")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	facts, err := store.ListMemories(ctx)
	require.NoError(t, err)
	assert.Len(t, facts, 1)
}

func TestSQLiteClient_ListMemoriesNewestFirst(t *testing.T) {
	store := setupSQLiteTest(t)
	ctx := context.Background()

	facts, err := store.ListMemories(ctx)
	require.NoError(t, err)
	assert.Empty(t, facts)
	assert.NotNil(t, facts)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.SaveMemory(ctx, fmt.Sprintf("key %d", i), fmt.Sprintf("value %d", i)))
	}

	facts, err = store.ListMemories(ctx)
	require.NoError(t, err)
	require.Len(t, facts, 3)
	assert.Equal(t, "key 2", facts[0].Key)
	assert.Equal(t, "key 0", facts[2].Key)
}

func TestSQLiteClient_LoadHistory(t *testing.T) {
	store := setupSQLiteTest(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.SaveChatTurn(ctx, fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i)))
	}

	turns, err := store.LoadHistory(ctx, 3)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "question 4", turns[0].UserMessage)
	assert.Equal(t, "answer 4", turns[0].AssistantReply)
	assert.Equal(t, "question 2", turns[2].UserMessage)

	for i := 1; i < len(turns); i++ {
		assert.False(t, turns[i].CreatedAt.After(turns[i-1].CreatedAt))
	}

	turns, err = store.LoadHistory(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, turns, 5)

	turns, err = store.LoadHistory(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestSQLiteClient_CustomTables(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.NewClient(ctx, &sqlite.Config{
		DBPath:      filepath.Join(t.TempDir(), "nested", "jarvis.db"),
		MemoryTable: "memory",
		ChatTable:   "chat_history",
	})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.SaveChatTurn(ctx, "hi", "hello"))
	turns, err := store.LoadHistory(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, turns, 1)
}

func TestSQLiteClient_InvalidTableName(t *testing.T) {
	_, err := sqlite.NewClient(context.Background(), &sqlite.Config{
		DBPath:      filepath.Join(t.TempDir(), "jarvis.db"),
		MemoryTable: "memory; DROP TABLE x",
	})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestSQLiteClient_ClosedStoreFails(t *testing.T) {
	store := setupSQLiteTest(t)
	require.NoError(t, store.Close())

	err := store.SaveChatTurn(context.Background(), "hi", "hello")
	assert.ErrorIs(t, err, core.ErrConnectionFailed)
}

func TestSQLiteClient_StoreSuite(t *testing.T) {
	storagetest.Run(t, setupSQLiteTest)
}
