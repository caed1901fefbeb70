package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempStore(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "data", "money.db"))
	t.Setenv("BCRYPT_COST", "4")
}

func TestRun_Success(t *testing.T) {
	useTempStore(t)
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)

	args := []string{"-username", "alice", "-email", "alice@x.com", "-first", "Alice", "-password", "secret"}
	require.NoError(t, run(context.Background(), args, new(bytes.Buffer), stdout, stderr))
	assert.Contains(t, stdout.String(), "User alice created successfully")
}

func TestRun_PasswordFromStdin(t *testing.T) {
	useTempStore(t)
	stdout := new(bytes.Buffer)

	args := []string{"-username", "alice", "-email", "alice@x.com"}
	err := run(context.Background(), args, strings.NewReader("secret\n"), stdout, new(bytes.Buffer))
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Password: ")
	assert.Contains(t, stdout.String(), "created successfully")
}

func TestRun_DuplicateUser(t *testing.T) {
	useTempStore(t)
	args := []string{"-username", "alice", "-email", "alice@x.com", "-password", "secret"}

	require.NoError(t, run(context.Background(), args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)))

	err := run(context.Background(), args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Username is already taken")
}

func TestRun_MissingFlags(t *testing.T) {
	stdout := new(bytes.Buffer)

	err := run(context.Background(), []string{"-password", "secret"}, new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: username, email")
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestRun_EmptyPassword(t *testing.T) {
	args := []string{"-username", "alice", "-email", "alice@x.com"}
	err := run(context.Background(), args, strings.NewReader("   \n"), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password cannot be empty")
}
