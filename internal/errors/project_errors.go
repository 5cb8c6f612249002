package errors

import (
	stderrors "errors"
	"fmt"
)

// Sentinels matched through errors.Is.
var (
	// ErrInvalidFormat indicates a project identifier matched neither shape
	ErrInvalidFormat = stderrors.New(`project must be formatted as "owner/repository"`)

	// ErrTransferFailed indicates the clone transfer did not complete
	ErrTransferFailed = stderrors.New("transfer failed")

	// ErrSyncIo indicates a local filesystem failure during clone or open
	ErrSyncIo = stderrors.New("local i/o failure")
)

// ParseError is returned when a raw project identifier cannot be resolved.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid project %q: %v", e.Raw, ErrInvalidFormat)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidFormat
}

// NewParseError creates a ParseError for the given raw input
func NewParseError(raw string) *ParseError {
	return &ParseError{Raw: raw}
}

// SyncErrorKind distinguishes transfer failures from local i/o failures.
type SyncErrorKind int

const (
	TransferFailed SyncErrorKind = iota
	Io
)

func (k SyncErrorKind) String() string {
	switch k {
	case TransferFailed:
		return "transfer failed"
	case Io:
		return "i/o"
	default:
		return "unknown"
	}
}

// SyncError reports a failed clone or open of a single project.
type SyncError struct {
	Kind    SyncErrorKind
	Project string // canonical remote URL
	Path    string // local path
	Err     error
}

func (e *SyncError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("sync %s into %s: %s", e.Project, e.Path, e.Kind)
	}
	return fmt.Sprintf("sync %s into %s: %s: %v", e.Project, e.Path, e.Kind, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind
func (e *SyncError) Is(target error) bool {
	switch target {
	case ErrTransferFailed:
		return e.Kind == TransferFailed
	case ErrSyncIo:
		return e.Kind == Io
	}
	return false
}

// NewTransferError creates a SyncError of kind TransferFailed
func NewTransferError(project, path string, err error) *SyncError {
	return &SyncError{Kind: TransferFailed, Project: project, Path: path, Err: err}
}

// NewIoError creates a SyncError of kind Io
func NewIoError(project, path string, err error) *SyncError {
	return &SyncError{Kind: Io, Project: project, Path: path, Err: err}
}

// InstallError reports a hook installation failure.
type InstallError struct {
	Path string
	Hook string
	Err  error
}

func (e *InstallError) Error() string {
	if e.Hook == "" {
		return fmt.Sprintf("install hooks into %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("install %s hook into %s: %v", e.Hook, e.Path, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

// BulkError summarizes a bulk command where some projects failed.
type BulkError struct {
	Failed int
	Total  int
}

func (e *BulkError) Error() string {
	return fmt.Sprintf("%d of %d projects failed", e.Failed, e.Total)
}

// IsParseError checks if an error is a ParseError
func IsParseError(err error) bool {
	var target *ParseError
	return stderrors.As(err, &target)
}

// IsSyncError checks if an error is a SyncError
func IsSyncError(err error) bool {
	var target *SyncError
	return stderrors.As(err, &target)
}

// IsInstallError checks if an error is an InstallError
func IsInstallError(err error) bool {
	var target *InstallError
	return stderrors.As(err, &target)
}
