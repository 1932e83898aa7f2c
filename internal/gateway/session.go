package gateway

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/muurk/pcangw/internal/version"
)

const redacted = "xxxxx"

// Session is one authenticated, cookie-bearing conversation with a gateway.
// It is created at the start of every public operation and closed at its end.
type Session struct {
	// ID correlates every request of the session in the logs
	ID string

	// Device is the gateway address as given by the caller
	Device string

	// BaseURL is the gateway URL without a trailing slash (e.g. "http://192.168.1.10")
	BaseURL string

	httpClient *http.Client
	logger     *zap.Logger
	observer   func(StepResult)
	result     *Result
}

// Authenticate opens a session on the gateway: it posts the credentials to the
// login endpoint, keeps the returned cookie, and switches the web session to
// expert mode. Neither response is checked; a wrong password only shows up as
// a failing configuration request later. Only transport errors are returned.
func (c *Client) Authenticate(device string, creds Credentials) (*Session, error) {
	return c.authenticate(device, creds, nil)
}

func (c *Client) authenticate(device string, creds Credentials, result *Result) (*Session, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	s := &Session{
		ID:      uuid.NewString(),
		Device:  device,
		BaseURL: c.baseURL(device),
		httpClient: &http.Client{
			Transport: c.httpClient().Transport,
			Timeout:   c.httpClient().Timeout,
			Jar:       jar,
		},
		logger:   c.logger(),
		observer: c.OnStep,
		result:   result,
	}
	s.logger = s.logger.With(zap.String("session", s.ID), zap.String("device", device))
	s.logger.Debug("Opening gateway session", zap.String("base_url", s.BaseURL))

	login := s.send(http.MethodPost,
		LoginPath+"?"+LoginQuery(creds),
		LoginPath+"?"+LoginQuery(Credentials{Username: creds.Username, Password: redacted}),
		StepLogin, "Login as "+creds.Username)
	if login.Err != nil {
		s.Close()
		return nil, login.Err
	}
	if login.StatusCode != http.StatusOK {
		s.logger.Warn("Login returned non-OK status", zap.Int("status_code", login.StatusCode))
	}

	mode := s.Send(http.MethodGet, ModePath+"?"+ExpertModeQuery, StepExpertMode, "Switch to expert mode")
	if mode.Err != nil {
		s.Close()
		return nil, mode.Err
	}
	if mode.StatusCode != http.StatusOK {
		s.logger.Warn("Expert mode switch returned non-OK status", zap.Int("status_code", mode.StatusCode))
	}

	return s, nil
}

// Close releases the session's cookies and idle connections
func (s *Session) Close() {
	if s.httpClient == nil {
		return
	}
	s.httpClient.Jar = nil
	s.httpClient.CloseIdleConnections()
	s.httpClient = nil
	s.logger.Debug("Closed gateway session")
}

// Send issues one request on the session and returns its outcome. Handshake
// steps succeed on any response; configuration steps require HTTP 200.
func (s *Session) Send(method, path, step, description string) StepResult {
	return s.send(method, path, path, step, description)
}

// send is Send with a separate path for logs and results, so the password
// never leaves the request itself
func (s *Session) send(method, path, shown, step, description string) StepResult {
	res := s.do(method, path, shown, step, description)
	if res.Err == nil && !res.IsHandshake() && res.StatusCode != http.StatusOK {
		res.Err = NewHTTPError(s.Device, step, res.StatusCode)
		s.logger.Warn("Configuration request failed",
			zap.String("step", step),
			zap.String("path", shown),
			zap.Int("status_code", res.StatusCode),
		)
	}
	s.finish(res)
	return res
}

func (s *Session) do(method, path, shown, step, description string) StepResult {
	res := StepResult{
		Name:        step,
		Method:      method,
		Path:        shown,
		Description: description,
	}

	if s.httpClient == nil {
		res.Err = NewValidationError("session is closed")
		return res
	}

	target := s.BaseURL + "/" + strings.TrimPrefix(path, "/")
	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		res.Err = NewNetworkError(s.Device, step, "failed to create request", err)
		return res
	}
	req.Header.Set("User-Agent", version.UserAgent())
	// One connection per request. net/http silently re-sends idempotent
	// requests that fail on a reused keep-alive connection, and every gateway
	// request must reach the device at most once.
	req.Close = true

	s.logger.Debug("Sending gateway request", zap.String("method", method), zap.String("step", step))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = s.BaseURL + "/" + strings.TrimPrefix(shown, "/")
		}
		res.Err = NewNetworkError(s.Device, step, fmt.Sprintf("%s %s failed", method, req.URL.Path), err)
		s.logger.Warn("Gateway request failed", zap.String("step", step), zap.Error(err))
		return res
	}
	// Drain before close
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	res.StatusCode = resp.StatusCode
	s.logger.Debug("Gateway response", zap.String("step", step), zap.Int("status_code", resp.StatusCode))
	return res
}

// finish records the step on the operation result and tells the observer
func (s *Session) finish(res StepResult) {
	if s.result != nil {
		s.result.add(res)
	}
	if s.observer != nil {
		s.observer(res)
	}
}
