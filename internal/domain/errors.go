// Package domain defines the error kinds shared by capture, storage and diffing.
package domain

import "fmt"

// BackendUnavailableError indicates a capture could not read the backend.
// No partial snapshot exists when this is returned.
type BackendUnavailableError struct {
	Message string
	Err     error
}

func (e *BackendUnavailableError) Error() string { return joinCause(e.Message, e.Err) }
func (e *BackendUnavailableError) Unwrap() error { return e.Err }

// StorageError indicates an I/O failure in the snapshot directory.
type StorageError struct {
	Message string
	Err     error
}

func (e *StorageError) Error() string { return joinCause(e.Message, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// CorruptSnapshotError indicates a stored file could not be decoded into a snapshot.
type CorruptSnapshotError struct {
	Path    string
	Message string
	Err     error
}

func (e *CorruptSnapshotError) Error() string {
	return joinCause(fmt.Sprintf("corrupt snapshot %s: %s", e.Path, e.Message), e.Err)
}
func (e *CorruptSnapshotError) Unwrap() error { return e.Err }

// InvalidSnapshotError indicates a snapshot violates its structural invariants.
type InvalidSnapshotError struct {
	Message string
}

func (e *InvalidSnapshotError) Error() string { return "invalid snapshot: " + e.Message }

// NotFoundError indicates a drill-down selector does not resolve.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ErrBackendUnavailable creates a BackendUnavailableError wrapping err.
func ErrBackendUnavailable(err error, format string, args ...interface{}) *BackendUnavailableError {
	return &BackendUnavailableError{Message: fmt.Sprintf(format, args...), Err: err}
}

// ErrStorage creates a StorageError wrapping err.
func ErrStorage(err error, format string, args ...interface{}) *StorageError {
	return &StorageError{Message: fmt.Sprintf(format, args...), Err: err}
}

// ErrCorruptSnapshot creates a CorruptSnapshotError for the file at path.
func ErrCorruptSnapshot(path string, err error, format string, args ...interface{}) *CorruptSnapshotError {
	return &CorruptSnapshotError{Path: path, Message: fmt.Sprintf(format, args...), Err: err}
}

// ErrInvalidSnapshot creates an InvalidSnapshotError with a formatted message.
func ErrInvalidSnapshot(format string, args ...interface{}) *InvalidSnapshotError {
	return &InvalidSnapshotError{Message: fmt.Sprintf(format, args...)}
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

func joinCause(msg string, err error) string {
	if err == nil {
		return msg
	}
	return msg + ": " + err.Error()
}
