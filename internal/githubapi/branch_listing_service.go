package githubapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultPageSize is the number of branches requested per page.
	DefaultPageSize = 100
	// DefaultUserAgent identifies the client to the GitHub API.
	DefaultUserAgent = "zfs-updater"

	firstPageNumberConstant            = 1
	perPageQueryParameterConstant      = "per_page"
	pageQueryParameterConstant         = "page"
	userAgentHeaderConstant            = "User-Agent"
	acceptHeaderConstant               = "Accept"
	acceptHeaderValueConstant          = "application/vnd.github+json"
	authorizationHeaderConstant        = "Authorization"
	authorizationTokenPrefixConstant   = "token "
	errorBodyLimitConstant             = 512
	pageFetchedLogMessageConstant      = "fetched branch page"
	listingCompletedLogMessageConstant = "branch listing completed"
	logFieldEndpointConstant           = "endpoint"
	logFieldPageConstant               = "page"
	logFieldPageItemCountConstant      = "page_items"
	logFieldBranchCountConstant        = "branch_count"
	logFieldAuthenticatedConstant      = "authenticated"
)

// HTTPClient performs HTTP requests; *http.Client satisfies it.
type HTTPClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// ServiceConfiguration describes the listing endpoint and paging behaviour.
type ServiceConfiguration struct {
	BaseURL   string
	PageSize  int
	UserAgent string
}

// BranchListingService retrieves every branch name from a paginated branches endpoint.
type BranchListingService struct {
	logger     *zap.Logger
	httpClient HTTPClient
	endpoint   *url.URL
	pageSize   int
	userAgent  string
}

type branchEntry struct {
	Name *string `json:"name"`
}

// NewBranchListingService validates configuration and constructs a BranchListingService.
// A zero PageSize or empty UserAgent falls back to DefaultPageSize and DefaultUserAgent.
func NewBranchListingService(logger *zap.Logger, httpClient HTTPClient, configuration ServiceConfiguration) (*BranchListingService, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if httpClient == nil {
		return nil, ErrHTTPClientNotConfigured
	}

	trimmedBaseURL := strings.TrimSpace(configuration.BaseURL)
	if len(trimmedBaseURL) == 0 {
		return nil, ErrBaseURLMissing
	}
	endpoint, parseError := url.Parse(trimmedBaseURL)
	if parseError != nil {
		return nil, invalidBaseURL(trimmedBaseURL, parseError)
	}

	pageSize := configuration.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < 0 {
		return nil, invalidPageSize(pageSize)
	}

	userAgent := strings.TrimSpace(configuration.UserAgent)
	if len(userAgent) == 0 {
		userAgent = DefaultUserAgent
	}

	return &BranchListingService{
		logger:     logger,
		httpClient: httpClient,
		endpoint:   endpoint,
		pageSize:   pageSize,
		userAgent:  userAgent,
	}, nil
}

// ListBranches fetches pages sequentially from page 1 and returns all branch names in
// page order. An empty credential issues anonymous requests. Listing stops at the first
// page that is empty or shorter than the page size; any failure discards earlier pages.
func (service *BranchListingService) ListBranches(executionContext context.Context, credential string) ([]string, error) {
	trimmedCredential := strings.TrimSpace(credential)
	branchNames := make([]string, 0, service.pageSize)

	for pageNumber := firstPageNumberConstant; ; pageNumber++ {
		pageNames, pageError := service.fetchPage(executionContext, pageNumber, trimmedCredential)
		if pageError != nil {
			return nil, pageError
		}

		service.logger.Debug(
			pageFetchedLogMessageConstant,
			zap.Int(logFieldPageConstant, pageNumber),
			zap.Int(logFieldPageItemCountConstant, len(pageNames)),
		)

		branchNames = append(branchNames, pageNames...)
		if len(pageNames) < service.pageSize {
			break
		}
	}

	service.logger.Info(
		listingCompletedLogMessageConstant,
		zap.String(logFieldEndpointConstant, service.endpoint.Redacted()),
		zap.Int(logFieldBranchCountConstant, len(branchNames)),
		zap.Bool(logFieldAuthenticatedConstant, len(trimmedCredential) > 0),
	)

	return branchNames, nil
}

func (service *BranchListingService) fetchPage(executionContext context.Context, pageNumber int, credential string) ([]string, error) {
	request, requestError := http.NewRequestWithContext(executionContext, http.MethodGet, service.pageURL(pageNumber), nil)
	if requestError != nil {
		return nil, TransportError{Page: pageNumber, Cause: requestError}
	}

	request.Header.Set(userAgentHeaderConstant, service.userAgent)
	request.Header.Set(acceptHeaderConstant, acceptHeaderValueConstant)
	if len(credential) > 0 {
		request.Header.Set(authorizationHeaderConstant, authorizationTokenPrefixConstant+credential)
	}

	response, responseError := service.httpClient.Do(request)
	if responseError != nil {
		return nil, TransportError{Page: pageNumber, Cause: responseError}
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		errorBody, _ := io.ReadAll(io.LimitReader(response.Body, errorBodyLimitConstant))
		return nil, UpstreamStatusError{Page: pageNumber, StatusCode: response.StatusCode, Body: strings.TrimSpace(string(errorBody))}
	}

	responseBody, readError := io.ReadAll(response.Body)
	if readError != nil {
		return nil, TransportError{Page: pageNumber, Cause: readError}
	}

	var entries []branchEntry
	if decodeError := json.Unmarshal(responseBody, &entries); decodeError != nil {
		return nil, MalformedResponseError{Page: pageNumber, Cause: decodeError}
	}
	if entries == nil {
		return nil, MalformedResponseError{Page: pageNumber, Cause: errNullBranchList}
	}

	pageNames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Name == nil {
			return nil, MalformedResponseError{Page: pageNumber, Cause: errMissingBranchName}
		}
		pageNames = append(pageNames, *entry.Name)
	}
	return pageNames, nil
}

func (service *BranchListingService) pageURL(pageNumber int) string {
	pageURL := *service.endpoint
	query := pageURL.Query()
	query.Set(perPageQueryParameterConstant, strconv.Itoa(service.pageSize))
	query.Set(pageQueryParameterConstant, strconv.Itoa(pageNumber))
	pageURL.RawQuery = query.Encode()
	return pageURL.String()
}
