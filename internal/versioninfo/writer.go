package versioninfo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Write stages reported by WriteError.
const (
	OperationCreateDirectory = "create_directory"
	OperationEncode          = "encode"
	OperationWriteFile       = "write_file"
)

const (
	directoryPermissionsConstant           = fs.FileMode(0o755)
	filePermissionsConstant                = fs.FileMode(0o644)
	jsonIndentConstant                     = "  "
	temporaryFileSuffixConstant            = ".tmp"
	writeErrorTemplateConstant             = "unable to %s %s: %v"
	loggerNotConfiguredMessageConstant     = "version writer logger not configured"
	fileSystemNotConfiguredMessageConstant = "version writer file system not configured"
	outputPathMissingMessageConstant       = "version output path must be provided"
	versionWrittenLogMessageConstant       = "version info written"
	logFieldPathConstant                   = "path"
	logFieldBranchConstant                 = "branch"
	logFieldBytesConstant                  = "bytes"
)

var operationDescriptions = map[string]string{
	OperationCreateDirectory: "create directory for",
	OperationEncode:          "encode version info for",
	OperationWriteFile:       "write",
}

var (
	// ErrLoggerNotConfigured indicates the writer was built without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrFileSystemNotConfigured indicates the writer was built without a file system.
	ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessageConstant)
	// ErrOutputPathMissing indicates Write received a blank path.
	ErrOutputPathMissing = errors.New(outputPathMissingMessageConstant)
)

// WriteError reports a failure while persisting the version document.
type WriteError struct {
	Operation string
	Path      string
	Cause     error
}

// Error describes the failed operation and path.
func (writeError WriteError) Error() string {
	operationDescription, known := operationDescriptions[writeError.Operation]
	if !known {
		operationDescription = writeError.Operation
	}
	return fmt.Sprintf(writeErrorTemplateConstant, operationDescription, writeError.Path, writeError.Cause)
}

// Unwrap exposes the underlying error.
func (writeError WriteError) Unwrap() error {
	return writeError.Cause
}

// FileSystem captures the file operations required to persist the document.
type FileSystem interface {
	MkdirAll(path string, permissions fs.FileMode) error
	WriteFile(path string, data []byte, permissions fs.FileMode) error
	Rename(oldPath string, newPath string) error
	Remove(path string) error
}

// Writer persists Records as indented JSON.
type Writer struct {
	logger     *zap.Logger
	fileSystem FileSystem
}

// NewWriter validates collaborators and constructs a Writer.
func NewWriter(logger *zap.Logger, fileSystem FileSystem) (*Writer, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &Writer{logger: logger, fileSystem: fileSystem}, nil
}

// Encode renders record as two-space indented JSON terminated by a newline.
func Encode(record Record) ([]byte, error) {
	compactDocument, marshalError := json.Marshal(record)
	if marshalError != nil {
		return nil, marshalError
	}

	var indented bytes.Buffer
	if indentError := json.Indent(&indented, compactDocument, "", jsonIndentConstant); indentError != nil {
		return nil, indentError
	}
	indented.WriteByte('\n')
	return indented.Bytes(), nil
}

// Write creates the parent directories of path and replaces path with the encoded record.
// The document is staged next to path and renamed into place so readers never observe a partial file.
func (writer *Writer) Write(path string, record Record) error {
	trimmedPath := strings.TrimSpace(path)
	if len(trimmedPath) == 0 {
		return ErrOutputPathMissing
	}

	document, encodeError := Encode(record)
	if encodeError != nil {
		return WriteError{Operation: OperationEncode, Path: trimmedPath, Cause: encodeError}
	}

	parentDirectory := filepath.Dir(trimmedPath)
	if mkdirError := writer.fileSystem.MkdirAll(parentDirectory, directoryPermissionsConstant); mkdirError != nil {
		return WriteError{Operation: OperationCreateDirectory, Path: trimmedPath, Cause: mkdirError}
	}

	temporaryPath := trimmedPath + temporaryFileSuffixConstant
	if writeError := writer.fileSystem.WriteFile(temporaryPath, document, filePermissionsConstant); writeError != nil {
		_ = writer.fileSystem.Remove(temporaryPath)
		return WriteError{Operation: OperationWriteFile, Path: trimmedPath, Cause: writeError}
	}
	if renameError := writer.fileSystem.Rename(temporaryPath, trimmedPath); renameError != nil {
		_ = writer.fileSystem.Remove(temporaryPath)
		return WriteError{Operation: OperationWriteFile, Path: trimmedPath, Cause: renameError}
	}

	writer.logger.Debug(
		versionWrittenLogMessageConstant,
		zap.String(logFieldPathConstant, trimmedPath),
		zap.String(logFieldBranchConstant, record.Branch),
		zap.Int(logFieldBytesConstant, len(document)),
	)

	return nil
}
