package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fieldsales/visitkit/core/logger"
	"github.com/fieldsales/visitkit/core/session"
	"github.com/fieldsales/visitkit/core/token"
)

const defaultTimeout = 30 * time.Second

// Client makes authenticated calls against the reporting API.
type Client struct {
	baseURL   string
	store     *session.Store
	http      *http.Client
	logger    *slog.Logger
	userAgent string
	now       func() time.Time
}

// New creates a client for the API at baseURL, reading bearer credentials
// from the given session store.
func New(baseURL string, store *session.Store, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	c := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		store:     store,
		http:      &http.Client{Timeout: defaultTimeout},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		userAgent: "visitkit",
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Store exposes the session store backing this client.
func (c *Client) Store() *session.Store {
	return c.store
}

// Call performs a JSON request. body is marshaled when non-nil; a non-nil
// out receives the decoded 2xx response body. Empty 2xx bodies decode to
// nothing, matching endpoints that return 204 or an empty object.
func (c *Client) Call(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, endpoint, out)
}

// Upload performs a multipart form upload with a single file field.
// Used by the files endpoint; everything else on the API speaks JSON.
func (c *Client) Upload(ctx context.Context, endpoint, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read upload payload: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	return c.do(req, endpoint, out)
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	ctx := req.Context()
	requestID := uuid.NewString()

	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("User-Agent", c.userAgent)

	bearer, err := c.store.Token(ctx)
	if err != nil {
		return err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "api request failed in transport",
			logger.Method(req.Method),
			logger.Path(endpoint),
			logger.RequestID(requestID),
			logger.Error(err),
		)
		return fmt.Errorf("api request %s %s: %w", req.Method, endpoint, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	c.logger.DebugContext(ctx, "api request",
		logger.Method(req.Method),
		logger.Path(endpoint),
		logger.StatusCode(resp.StatusCode),
		logger.RequestID(requestID),
		logger.Duration(c.now().Sub(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.classify(ctx, endpoint, bearer, resp.StatusCode, payload)
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return nil
}

// classify maps a non-2xx response to the error taxonomy and applies the
// single permitted side effect: clearing credentials on a 401 when the token
// is provably expired. Ambiguous 401s leave the store untouched so the
// caller can attempt a renewal before giving up on the session.
func (c *Client) classify(ctx context.Context, endpoint, bearer string, status int, payload []byte) error {
	if status == http.StatusUnauthorized {
		if !isLoginEndpoint(endpoint) && bearer != "" && token.IsExpired(bearer, c.now()) {
			if err := c.store.ClearCredentials(ctx); err != nil {
				c.logger.ErrorContext(ctx, "failed to clear expired credentials", logger.Error(err))
			}
		}
		return ErrNotAuthenticated
	}

	detail, fields := decodeErrorDetail(payload)

	if status == http.StatusUnprocessableEntity && len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return &RequestError{Status: status, Detail: detail}
}

func isLoginEndpoint(endpoint string) bool {
	return strings.Contains(endpoint, "login")
}

// decodeErrorDetail parses the API's error envelope. The detail field is
// either a plain string or a list of validation failures with a location
// path and a message.
func decodeErrorDetail(payload []byte) (string, []FieldError) {
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return "", nil
	}

	if len(envelope.Detail) == 0 {
		return envelope.Message, nil
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		return detail, nil
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		fields := make([]FieldError, len(items))
		for i, item := range items {
			parts := make([]string, len(item.Loc))
			for j, loc := range item.Loc {
				parts[j] = fmt.Sprint(loc)
			}
			fields[i] = FieldError{
				Location: strings.Join(parts, "."),
				Message:  item.Msg,
			}
		}
		return "", fields
	}

	return envelope.Message, nil
}
