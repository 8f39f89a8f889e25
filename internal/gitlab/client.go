package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	httpsSchemePrefixConstant            = "https://"
	httpSchemePrefixConstant             = "http://"
	apiPathSegmentConstant               = "/api/v4"
	baseURLRequiredMessageConstant       = "gitlab base URL must be provided"
	tokenRequiredMessageConstant         = "gitlab access token must be provided"
	baseURLParseErrorTemplateConstant    = "unable to parse gitlab base URL: %w"
	requestBuildErrorTemplateConstant    = "unable to build gitlab request: %w"
	requestExecutionErrorTemplate        = "gitlab request failed: %w"
	payloadEncodingErrorTemplateConstant = "unable to encode gitlab payload: %w"
	responseDecodingErrorTemplate        = "unable to decode gitlab response: %w"
	httpErrorTemplateConstant            = "%d %s"
	httpErrorWithMessagesTemplate        = "%d %s: %s"
	messageSeparatorConstant             = ", "
	contentTypeHeaderNameConstant        = "Content-Type"
	jsonContentTypeConstant              = "application/json"
	defaultRequestTimeoutConstant        = 5 * time.Second
)

// ErrBaseURLRequired indicates the client was configured without an endpoint.
var ErrBaseURLRequired = errors.New(baseURLRequiredMessageConstant)

// ErrTokenRequired indicates the client was configured without a bearer token.
var ErrTokenRequired = errors.New(tokenRequiredMessageConstant)

// Configuration describes the connection parameters for a GitLab endpoint.
type Configuration struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client issues REST calls against a GitLab-compatible API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// HTTPError describes a non-success response from the GitLab API.
type HTTPError struct {
	StatusCode int
	StatusText string
	Messages   []string
}

// Error renders the status line and any decoded messages.
func (httpError HTTPError) Error() string {
	if len(httpError.Messages) == 0 {
		return fmt.Sprintf(httpErrorTemplateConstant, httpError.StatusCode, httpError.StatusText)
	}
	return fmt.Sprintf(httpErrorWithMessagesTemplate, httpError.StatusCode, httpError.StatusText, httpError.Message())
}

// Message joins the decoded response messages with commas.
func (httpError HTTPError) Message() string {
	return strings.Join(httpError.Messages, messageSeparatorConstant)
}

// NewClient constructs a Client from the provided configuration.
func NewClient(configuration Configuration) (*Client, error) {
	trimmedBaseURL := strings.TrimSpace(configuration.BaseURL)
	if len(trimmedBaseURL) == 0 {
		return nil, ErrBaseURLRequired
	}

	trimmedToken := strings.TrimSpace(configuration.Token)
	if len(trimmedToken) == 0 {
		return nil, ErrTokenRequired
	}

	normalizedBaseURL, normalizationError := normalizeBaseURL(trimmedBaseURL)
	if normalizationError != nil {
		return nil, normalizationError
	}

	requestTimeout := configuration.Timeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeoutConstant
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: trimmedToken})
	authenticatedClient := oauth2.NewClient(context.Background(), tokenSource)
	authenticatedClient.Timeout = requestTimeout

	return &Client{baseURL: normalizedBaseURL, httpClient: authenticatedClient}, nil
}

// normalizeBaseURL forces https and ensures the /api/v4 prefix is present.
func normalizeBaseURL(rawBaseURL string) (*url.URL, error) {
	candidate := rawBaseURL
	switch {
	case strings.HasPrefix(candidate, httpSchemePrefixConstant):
		insecureURL, parseError := url.Parse(candidate)
		if parseError != nil {
			return nil, fmt.Errorf(baseURLParseErrorTemplateConstant, parseError)
		}
		candidate = httpsSchemePrefixConstant + insecureURL.Host
	case !strings.HasPrefix(candidate, httpsSchemePrefixConstant):
		candidate = httpsSchemePrefixConstant + candidate
	}

	parsedURL, parseError := url.Parse(candidate)
	if parseError != nil {
		return nil, fmt.Errorf(baseURLParseErrorTemplateConstant, parseError)
	}

	if !strings.Contains(parsedURL.Path, apiPathSegmentConstant) {
		parsedURL.Path = apiPathSegmentConstant
	}
	parsedURL.Path = strings.TrimSuffix(parsedURL.Path, "/")

	return parsedURL, nil
}

func (client *Client) get(executionContext context.Context, endpointPath string, queryValues url.Values, target any) error {
	return client.do(executionContext, http.MethodGet, endpointPath, queryValues, nil, target)
}

func (client *Client) post(executionContext context.Context, endpointPath string, payload any, target any) error {
	return client.do(executionContext, http.MethodPost, endpointPath, nil, payload, target)
}

func (client *Client) put(executionContext context.Context, endpointPath string, payload any, target any) error {
	return client.do(executionContext, http.MethodPut, endpointPath, nil, payload, target)
}

func (client *Client) delete(executionContext context.Context, endpointPath string) error {
	return client.do(executionContext, http.MethodDelete, endpointPath, nil, nil, nil)
}

func (client *Client) do(executionContext context.Context, method string, endpointPath string, queryValues url.Values, payload any, target any) error {
	requestURL := *client.baseURL
	requestURL.Path = client.baseURL.Path + endpointPath
	if queryValues != nil {
		requestURL.RawQuery = queryValues.Encode()
	}

	var requestBody io.Reader
	if payload != nil {
		encodedPayload, encodingError := json.Marshal(payload)
		if encodingError != nil {
			return fmt.Errorf(payloadEncodingErrorTemplateConstant, encodingError)
		}
		requestBody = bytes.NewReader(encodedPayload)
	}

	request, requestError := http.NewRequestWithContext(executionContext, method, requestURL.String(), requestBody)
	if requestError != nil {
		return fmt.Errorf(requestBuildErrorTemplateConstant, requestError)
	}
	if payload != nil {
		request.Header.Set(contentTypeHeaderNameConstant, jsonContentTypeConstant)
	}

	response, executionError := client.httpClient.Do(request)
	if executionError != nil {
		return fmt.Errorf(requestExecutionErrorTemplate, executionError)
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		return decodeHTTPError(response)
	}

	if target == nil {
		return nil
	}

	if decodingError := json.NewDecoder(response.Body).Decode(target); decodingError != nil {
		return fmt.Errorf(responseDecodingErrorTemplate, decodingError)
	}

	return nil
}

// decodeHTTPError extracts the message list GitLab embeds in failure bodies.
// The "message" field is a string for most endpoints and a string array for
// merge request conflicts (409).
func decodeHTTPError(response *http.Response) error {
	httpError := HTTPError{StatusCode: response.StatusCode, StatusText: http.StatusText(response.StatusCode)}

	var envelope struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if decodingError := json.NewDecoder(response.Body).Decode(&envelope); decodingError != nil {
		return httpError
	}

	switch {
	case len(envelope.Message) > 0:
		var singleMessage string
		if json.Unmarshal(envelope.Message, &singleMessage) == nil {
			httpError.Messages = []string{singleMessage}
			break
		}
		var messageList []string
		if json.Unmarshal(envelope.Message, &messageList) == nil {
			httpError.Messages = messageList
		}
	case len(envelope.Error) > 0:
		httpError.Messages = []string{envelope.Error}
	}

	return httpError
}
