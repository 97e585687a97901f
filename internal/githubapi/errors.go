package githubapi

import (
	"errors"
	"fmt"
)

const (
	loggerNotConfiguredMessageConstant      = "branch listing logger not configured"
	httpClientNotConfiguredMessageConstant  = "branch listing http client not configured"
	baseURLMissingMessageConstant           = "branch listing endpoint must be provided"
	transportErrorTemplateConstant          = "branch listing request for page %d failed: %v"
	upstreamStatusErrorTemplateConstant     = "branch listing page %d returned status %d"
	upstreamStatusBodyErrorTemplateConstant = "branch listing page %d returned status %d: %s"
	malformedResponseErrorTemplateConstant  = "branch listing page %d response is malformed: %v"
	invalidPageSizeErrorTemplateConstant    = "branch listing page size must be positive, got %d"
	invalidBaseURLErrorTemplateConstant     = "branch listing endpoint %q is invalid: %v"
	missingBranchNameMessageConstant        = "branch entry has no name"
	nullBranchListMessageConstant           = "branch list is null"
)

var (
	// ErrLoggerNotConfigured indicates the service was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrHTTPClientNotConfigured indicates the service was constructed without an HTTP client.
	ErrHTTPClientNotConfigured = errors.New(httpClientNotConfiguredMessageConstant)
	// ErrBaseURLMissing indicates the listing endpoint was empty.
	ErrBaseURLMissing = errors.New(baseURLMissingMessageConstant)

	errMissingBranchName = errors.New(missingBranchNameMessageConstant)
	errNullBranchList    = errors.New(nullBranchListMessageConstant)
)

// InvalidConfigurationError reports configuration values rejected at construction.
type InvalidConfigurationError struct {
	Message string
}

// Error returns the validation message.
func (configurationError InvalidConfigurationError) Error() string {
	return configurationError.Message
}

func invalidPageSize(pageSize int) InvalidConfigurationError {
	return InvalidConfigurationError{Message: fmt.Sprintf(invalidPageSizeErrorTemplateConstant, pageSize)}
}

func invalidBaseURL(baseURL string, cause error) InvalidConfigurationError {
	return InvalidConfigurationError{Message: fmt.Sprintf(invalidBaseURLErrorTemplateConstant, baseURL, cause)}
}

// TransportError reports a page request that could not be built, sent, or read.
type TransportError struct {
	Page  int
	Cause error
}

// Error describes the transport failure.
func (transportError TransportError) Error() string {
	return fmt.Sprintf(transportErrorTemplateConstant, transportError.Page, transportError.Cause)
}

// Unwrap exposes the underlying transport error.
func (transportError TransportError) Unwrap() error {
	return transportError.Cause
}

// UpstreamStatusError reports a page answered with a non-2xx status.
type UpstreamStatusError struct {
	Page       int
	StatusCode int
	Body       string
}

// Error describes the status and, when present, the response body.
func (statusError UpstreamStatusError) Error() string {
	if len(statusError.Body) == 0 {
		return fmt.Sprintf(upstreamStatusErrorTemplateConstant, statusError.Page, statusError.StatusCode)
	}
	return fmt.Sprintf(upstreamStatusBodyErrorTemplateConstant, statusError.Page, statusError.StatusCode, statusError.Body)
}

// MalformedResponseError reports a page body that is not an array of objects carrying a string name.
type MalformedResponseError struct {
	Page  int
	Cause error
}

// Error describes the decoding failure.
func (malformedError MalformedResponseError) Error() string {
	return fmt.Sprintf(malformedResponseErrorTemplateConstant, malformedError.Page, malformedError.Cause)
}

// Unwrap exposes the decoding error.
func (malformedError MalformedResponseError) Unwrap() error {
	return malformedError.Cause
}
