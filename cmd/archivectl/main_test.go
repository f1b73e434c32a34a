package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docarchive/internal/auth"
	"docarchive/internal/config"
	"docarchive/internal/repository"
	"docarchive/internal/repository/mocks"
)

// execute runs rootCmd with args and returns its stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetConfirmed = false
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// stubStore replaces openStore for the duration of the test.
func stubStore(t *testing.T, store repository.Store, err error) *bool {
	t.Helper()
	migrated := new(bool)
	original := openStore
	openStore = func(_ context.Context, _ *config.AppConfig, _ *slog.Logger, migrate bool) (repository.Store, error) {
		*migrated = migrate
		return store, err
	}
	t.Cleanup(func() { openStore = original })
	return migrated
}

func TestMigrateCmd(t *testing.T) {
	t.Setenv("STORE_BACKEND", "gorm")

	store := mocks.NewMockStore()
	store.On("Close").Return(nil).Once()
	migrated := stubStore(t, store, nil)

	out, err := execute(t, "", "migrate")

	require.NoError(t, err)
	assert.True(t, *migrated)
	assert.Equal(t, "schema ready (gorm)\n", out)
	store.AssertAll(t)
}

func TestMigrateCmd_OpenFailure(t *testing.T) {
	stubStore(t, nil, errors.New("connect postgres: refused"))

	_, err := execute(t, "", "migrate")

	assert.EqualError(t, err, "connect postgres: refused")
}

func TestResetCmd(t *testing.T) {
	t.Run("requires confirmation", func(t *testing.T) {
		store := mocks.NewMockStore()
		stubStore(t, store, nil)

		_, err := execute(t, "", "reset")

		assert.EqualError(t, err, "refusing to reset without --yes")
		store.AssertAll(t)
	})

	t.Run("resets the store", func(t *testing.T) {
		store := mocks.NewMockStore()
		store.On("Reset", mock.Anything).Return(nil).Once()
		store.On("Close").Return(nil).Once()
		migrated := stubStore(t, store, nil)

		out, err := execute(t, "", "reset", "--yes")

		require.NoError(t, err)
		assert.False(t, *migrated)
		assert.Equal(t, "Archive data reset successfully\n", out)
		store.AssertAll(t)
	})

	t.Run("store failure", func(t *testing.T) {
		store := mocks.NewMockStore()
		store.On("Reset", mock.Anything).Return(errors.New("locked")).Once()
		store.On("Close").Return(nil).Once()
		stubStore(t, store, nil)

		_, err := execute(t, "", "reset", "--yes")

		assert.EqualError(t, err, "reset store: locked")
		store.AssertAll(t)
	})
}

func TestHashPasswordCmd(t *testing.T) {
	out, err := execute(t, "s3cret\n", "hash-password")

	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
	assert.True(t, auth.CheckPassword(hash, "s3cret"))
	assert.False(t, auth.CheckPassword(hash, "s3cret\n"))
}

func TestHashPasswordCmd_Empty(t *testing.T) {
	_, err := execute(t, "", "hash-password")

	assert.EqualError(t, err, "password cannot be empty")
}
