package domain

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageErrorUnwrap(t *testing.T) {
	err := ErrStorage(fs.ErrPermission, "write %s", "snaps/a.snap")
	assert.Equal(t, "write snaps/a.snap: permission denied", err.Error())
	assert.ErrorIs(t, err, fs.ErrPermission)

	var wrapped error = err
	var se *StorageError
	require.True(t, errors.As(wrapped, &se))
}

func TestCorruptSnapshotMessage(t *testing.T) {
	err := ErrCorruptSnapshot("x.snap", nil, "checksum mismatch")
	assert.Equal(t, "corrupt snapshot x.snap: checksum mismatch", err.Error())
}

func TestBackendUnavailableWithoutCause(t *testing.T) {
	err := ErrBackendUnavailable(nil, "list tables of %s", "shop")
	assert.Equal(t, "list tables of shop", err.Error())
	assert.Nil(t, err.Unwrap())
}
