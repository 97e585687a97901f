package githubapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/zfs-updater/internal/githubapi"
)

const (
	testBranchesPathConstant     = "/repos/CachyOS/zfs/branches"
	testCredentialConstant       = "ghp_example"
	testPageSizeConstant         = 3
	testBranchNameTemplate       = "branch-%02d"
	testUpstreamErrorBody        = "{\"message\":\"API rate limit exceeded\"}"
	testSubtestNameTemplate      = "%d_%s"
	testExpectedUserAgent        = "zfs-updater"
	testAuthorizationHeaderValue = "token " + testCredentialConstant
)

type recordedRequest struct {
	page          string
	perPage       string
	userAgent     string
	authorization string
	hasAuth       bool
}

type branchServer struct {
	mutex    sync.Mutex
	pages    map[int]string
	statuses map[int]int
	requests []recordedRequest
}

func (server *branchServer) ServeHTTP(responseWriter http.ResponseWriter, request *http.Request) {
	server.mutex.Lock()
	defer server.mutex.Unlock()

	_, hasAuthorization := request.Header[http.CanonicalHeaderKey("Authorization")]
	server.requests = append(server.requests, recordedRequest{
		page:          request.URL.Query().Get("page"),
		perPage:       request.URL.Query().Get("per_page"),
		userAgent:     request.Header.Get("User-Agent"),
		authorization: request.Header.Get("Authorization"),
		hasAuth:       hasAuthorization,
	})

	pageNumber, _ := strconv.Atoi(request.URL.Query().Get("page"))
	if status, exists := server.statuses[pageNumber]; exists {
		responseWriter.WriteHeader(status)
		_, _ = responseWriter.Write([]byte(testUpstreamErrorBody))
		return
	}

	body, exists := server.pages[pageNumber]
	if !exists {
		body = "[]"
	}
	responseWriter.Header().Set("Content-Type", "application/json")
	_, _ = responseWriter.Write([]byte(body))
}

func encodeBranchPage(testInstance *testing.T, names []string) string {
	testInstance.Helper()
	entries := make([]map[string]any, 0, len(names))
	for _, name := range names {
		entries = append(entries, map[string]any{"name": name, "protected": false, "commit": map[string]string{"sha": "0000"}})
	}
	encoded, encodeError := json.Marshal(entries)
	require.NoError(testInstance, encodeError)
	return string(encoded)
}

func branchNames(startIndex int, count int) []string {
	names := make([]string, 0, count)
	for nameIndex := startIndex; nameIndex < startIndex+count; nameIndex++ {
		names = append(names, fmt.Sprintf(testBranchNameTemplate, nameIndex))
	}
	return names
}

func newService(testInstance *testing.T, serverURL string, logger *zap.Logger) *githubapi.BranchListingService {
	testInstance.Helper()
	service, creationError := githubapi.NewBranchListingService(logger, http.DefaultClient, githubapi.ServiceConfiguration{
		BaseURL:  serverURL + testBranchesPathConstant,
		PageSize: testPageSizeConstant,
	})
	require.NoError(testInstance, creationError)
	return service
}

func TestBranchListingServicePagination(testInstance *testing.T) {
	testCases := []struct {
		name                 string
		pageSizes            []int
		expectedRequestCount int
	}{
		{name: "single_short_page", pageSizes: []int{2}, expectedRequestCount: 1},
		{name: "empty_first_page", pageSizes: []int{0}, expectedRequestCount: 1},
		{name: "full_then_short_page", pageSizes: []int{3, 3, 1}, expectedRequestCount: 3},
		{name: "full_pages_then_empty_page", pageSizes: []int{3, 3}, expectedRequestCount: 3},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplate, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			server := &branchServer{pages: map[int]string{}}
			var expectedNames []string
			nextIndex := 0
			for pageIndex, pageSize := range testCase.pageSizes {
				names := branchNames(nextIndex, pageSize)
				nextIndex += pageSize
				expectedNames = append(expectedNames, names...)
				server.pages[pageIndex+1] = encodeBranchPage(testInstance, names)
			}

			httpServer := httptest.NewServer(server)
			defer httpServer.Close()

			service := newService(testInstance, httpServer.URL, zap.NewNop())
			listedNames, listError := service.ListBranches(context.Background(), "")
			require.NoError(testInstance, listError)

			if len(expectedNames) == 0 {
				require.Empty(testInstance, listedNames)
			} else {
				require.Equal(testInstance, expectedNames, listedNames)
			}

			require.Len(testInstance, server.requests, testCase.expectedRequestCount)
			for requestIndex, request := range server.requests {
				require.Equal(testInstance, strconv.Itoa(requestIndex+1), request.page)
				require.Equal(testInstance, strconv.Itoa(testPageSizeConstant), request.perPage)
			}
		})
	}
}

func TestBranchListingServiceHeaders(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		credential            string
		expectAuthorization   bool
		expectedAuthorization string
	}{
		{name: "anonymous_omits_authorization", credential: ""},
		{name: "whitespace_credential_is_anonymous", credential: "  \n"},
		{name: "credential_uses_token_scheme", credential: testCredentialConstant, expectAuthorization: true, expectedAuthorization: testAuthorizationHeaderValue},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplate, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			server := &branchServer{pages: map[int]string{1: encodeBranchPage(testInstance, []string{"master"})}}
			httpServer := httptest.NewServer(server)
			defer httpServer.Close()

			service := newService(testInstance, httpServer.URL, zap.NewNop())
			_, listError := service.ListBranches(context.Background(), testCase.credential)
			require.NoError(testInstance, listError)

			require.Len(testInstance, server.requests, 1)
			recorded := server.requests[0]
			require.Equal(testInstance, testExpectedUserAgent, recorded.userAgent)
			require.Equal(testInstance, testCase.expectAuthorization, recorded.hasAuth)
			require.Equal(testInstance, testCase.expectedAuthorization, recorded.authorization)
		})
	}
}

func TestBranchListingServiceUpstreamStatusAbortsListing(testInstance *testing.T) {
	server := &branchServer{
		pages:    map[int]string{1: encodeBranchPage(testInstance, branchNames(0, testPageSizeConstant))},
		statuses: map[int]int{2: http.StatusForbidden},
	}
	httpServer := httptest.NewServer(server)
	defer httpServer.Close()

	service := newService(testInstance, httpServer.URL, zap.NewNop())
	listedNames, listError := service.ListBranches(context.Background(), testCredentialConstant)

	require.Nil(testInstance, listedNames)
	var statusError githubapi.UpstreamStatusError
	require.ErrorAs(testInstance, listError, &statusError)
	require.Equal(testInstance, 2, statusError.Page)
	require.Equal(testInstance, http.StatusForbidden, statusError.StatusCode)
	require.Equal(testInstance, testUpstreamErrorBody, statusError.Body)
	require.Len(testInstance, server.requests, 2)
}

func TestBranchListingServiceMalformedResponses(testInstance *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "not_json", body: "<html>rate limited</html>"},
		{name: "object_instead_of_array", body: "{\"name\":\"master\"}"},
		{name: "null_body", body: "null"},
		{name: "entry_without_name", body: "[{\"name\":\"master\"},{\"protected\":true}]"},
		{name: "non_string_name", body: "[{\"name\":42}]"},
		{name: "non_object_entry", body: "[\"master\"]"},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplate, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			server := &branchServer{pages: map[int]string{1: testCase.body}}
			httpServer := httptest.NewServer(server)
			defer httpServer.Close()

			service := newService(testInstance, httpServer.URL, zap.NewNop())
			listedNames, listError := service.ListBranches(context.Background(), "")

			require.Nil(testInstance, listedNames)
			var malformedError githubapi.MalformedResponseError
			require.ErrorAs(testInstance, listError, &malformedError)
			require.Equal(testInstance, 1, malformedError.Page)
		})
	}
}

type failingHTTPClient struct {
	failure error
	calls   int
}

func (client *failingHTTPClient) Do(request *http.Request) (*http.Response, error) {
	client.calls++
	return nil, client.failure
}

func TestBranchListingServiceTransportFailure(testInstance *testing.T) {
	transportFailure := errors.New("connection refused")
	httpClient := &failingHTTPClient{failure: transportFailure}

	service, creationError := githubapi.NewBranchListingService(zap.NewNop(), httpClient, githubapi.ServiceConfiguration{BaseURL: "https://api.github.com/repos/CachyOS/zfs/branches"})
	require.NoError(testInstance, creationError)

	listedNames, listError := service.ListBranches(context.Background(), "")
	require.Nil(testInstance, listedNames)
	require.ErrorIs(testInstance, listError, transportFailure)

	var transportError githubapi.TransportError
	require.ErrorAs(testInstance, listError, &transportError)
	require.Equal(testInstance, 1, transportError.Page)
	require.Equal(testInstance, 1, httpClient.calls)
}

func TestBranchListingServiceLogsPages(testInstance *testing.T) {
	server := &branchServer{pages: map[int]string{
		1: encodeBranchPage(testInstance, branchNames(0, testPageSizeConstant)),
		2: encodeBranchPage(testInstance, branchNames(testPageSizeConstant, 1)),
	}}
	httpServer := httptest.NewServer(server)
	defer httpServer.Close()

	observerCore, observedLogs := observer.New(zap.DebugLevel)
	service := newService(testInstance, httpServer.URL, zap.New(observerCore))

	_, listError := service.ListBranches(context.Background(), "")
	require.NoError(testInstance, listError)

	pageEntries := observedLogs.FilterMessage("fetched branch page").All()
	require.Len(testInstance, pageEntries, 2)
	require.Equal(testInstance, int64(1), pageEntries[0].ContextMap()["page"])
	require.Equal(testInstance, int64(testPageSizeConstant), pageEntries[0].ContextMap()["page_items"])

	completionEntries := observedLogs.FilterMessage("branch listing completed").All()
	require.Len(testInstance, completionEntries, 1)
	require.Equal(testInstance, int64(testPageSizeConstant+1), completionEntries[0].ContextMap()["branch_count"])
}

func TestNewBranchListingServiceValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		httpClient    githubapi.HTTPClient
		configuration githubapi.ServiceConfiguration
		expectedError error
		expectInvalid bool
	}{
		{name: "missing_logger", httpClient: http.DefaultClient, configuration: githubapi.ServiceConfiguration{BaseURL: "https://api.github.com"}, expectedError: githubapi.ErrLoggerNotConfigured},
		{name: "missing_client", logger: zap.NewNop(), configuration: githubapi.ServiceConfiguration{BaseURL: "https://api.github.com"}, expectedError: githubapi.ErrHTTPClientNotConfigured},
		{name: "missing_endpoint", logger: zap.NewNop(), httpClient: http.DefaultClient, configuration: githubapi.ServiceConfiguration{BaseURL: "   "}, expectedError: githubapi.ErrBaseURLMissing},
		{name: "negative_page_size", logger: zap.NewNop(), httpClient: http.DefaultClient, configuration: githubapi.ServiceConfiguration{BaseURL: "https://api.github.com", PageSize: -1}, expectInvalid: true},
		{name: "unparsable_endpoint", logger: zap.NewNop(), httpClient: http.DefaultClient, configuration: githubapi.ServiceConfiguration{BaseURL: "http://[::1"}, expectInvalid: true},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplate, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			service, creationError := githubapi.NewBranchListingService(testCase.logger, testCase.httpClient, testCase.configuration)
			require.Nil(testInstance, service)
			if testCase.expectInvalid {
				var configurationError githubapi.InvalidConfigurationError
				require.ErrorAs(testInstance, creationError, &configurationError)
				return
			}
			require.ErrorIs(testInstance, creationError, testCase.expectedError)
		})
	}
}
