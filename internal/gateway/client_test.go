package gateway

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const sessionCookie = "PHPSESSID"

// recordedRequest is one request seen by the fake gateway
type recordedRequest struct {
	Method    string
	Path      string
	RawQuery  string
	Cookie    string
	UserAgent string
}

// fakeGateway mimics the gateway's web interface: bouncer.php hands out a
// session cookie and every other endpoint answers with a configurable status.
type fakeGateway struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	status   map[string]int  // keyed by path or path?query
	drop     map[string]bool // path?query whose connection is closed unanswered
}

func newFakeGateway(t *testing.T) *fakeGateway {
	t.Helper()

	g := &fakeGateway{t: t, status: map[string]int{}, drop: map[string]bool{}}
	g.server = httptest.NewServer(http.HandlerFunc(g.handle))
	t.Cleanup(g.server.Close)
	return g
}

func (g *fakeGateway) handle(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{
		Method:    r.Method,
		Path:      r.URL.Path,
		RawQuery:  r.URL.RawQuery,
		UserAgent: r.UserAgent(),
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		rec.Cookie = c.Value
	}

	g.mu.Lock()
	g.requests = append(g.requests, rec)
	status, ok := g.status[r.URL.Path+"?"+r.URL.RawQuery]
	if !ok {
		status, ok = g.status[r.URL.Path]
	}
	drop := g.drop[r.URL.Path+"?"+r.URL.RawQuery]
	g.mu.Unlock()

	if drop {
		if conn, _, err := w.(http.Hijacker).Hijack(); err == nil {
			_ = conn.Close()
		}
		return
	}

	if r.URL.Path == LoginPath {
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "session-" + r.URL.Query().Get("PW"), Path: "/"})
	}
	if !ok {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte("<html></html>"))
}

// setStatus makes the endpoint (path, or path?query) answer with status
func (g *fakeGateway) setStatus(key string, status int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status[key] = status
}

// dropConnection makes the endpoint close the connection without answering
func (g *fakeGateway) dropConnection(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.drop[key] = true
}

func (g *fakeGateway) recorded() []recordedRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]recordedRequest, len(g.requests))
	copy(out, g.requests)
	return out
}

// count returns how many times the endpoint path?query was requested
func (g *fakeGateway) count(key string) int {
	n := 0
	for _, r := range g.recorded() {
		if r.Path+"?"+r.RawQuery == key {
			n++
		}
	}
	return n
}

// address returns host:port, the form callers pass as the device address
func (g *fakeGateway) address() string {
	return strings.TrimPrefix(g.server.URL, "http://")
}

// assertHandshake checks that the first two requests are login then expert mode
func assertHandshake(t *testing.T, reqs []recordedRequest, username, password string) {
	t.Helper()

	if len(reqs) < 2 {
		t.Fatalf("got %d requests, want at least the 2 handshake requests", len(reqs))
	}

	login := reqs[0]
	if login.Method != http.MethodPost || login.Path != LoginPath {
		t.Errorf("request 1 = %s %s, want POST %s", login.Method, login.Path, LoginPath)
	}
	wantQuery := "PW=" + username + "&UN=" + password
	if login.RawQuery != wantQuery {
		t.Errorf("login query = %q, want %q", login.RawQuery, wantQuery)
	}

	if !strings.HasPrefix(login.UserAgent, "pcangw-cfg/") {
		t.Errorf("login User-Agent = %q, want pcangw-cfg/<version>", login.UserAgent)
	}

	mode := reqs[1]
	if mode.Method != http.MethodGet || mode.Path != ModePath || mode.RawQuery != ExpertModeQuery {
		t.Errorf("request 2 = %s %s?%s, want GET %s?%s", mode.Method, mode.Path, mode.RawQuery, ModePath, ExpertModeQuery)
	}
	if mode.Cookie == "" {
		t.Error("expert mode request did not carry the login cookie")
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient()

	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should not be nil")
	}
	if client.HTTPClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.HTTPClient.Timeout, DefaultTimeout)
	}

	username, password := client.GetLoginCredentials()
	if username != "admin" || password != "admin" {
		t.Errorf("GetLoginCredentials() = (%q, %q), want (admin, admin)", username, password)
	}
}

func TestChangeLoginCredentials(t *testing.T) {
	client := NewClient()
	client.ChangeLoginCredentials("x", "y")

	username, password := client.GetLoginCredentials()
	if username != "x" || password != "y" {
		t.Errorf("GetLoginCredentials() = (%q, %q), want (x, y)", username, password)
	}

	// No validation: empty values are stored as given
	client.ChangeLoginCredentials("", "")
	if got := client.Credentials(); got != (Credentials{}) {
		t.Errorf("Credentials() = %+v, want empty", got)
	}
}

func TestNewClientWithCredentials(t *testing.T) {
	client := NewClientWithCredentials("operator", "s3cret")

	if got := client.Credentials(); got.Username != "operator" || got.Password != "s3cret" {
		t.Errorf("Credentials() = %+v, want operator/s3cret", got)
	}
}

func TestSetTimeout(t *testing.T) {
	client := NewClient()
	client.SetTimeout(5 * time.Second)

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}

	var zero Client
	zero.SetTimeout(time.Second)
	if zero.HTTPClient == nil || zero.HTTPClient.Timeout != time.Second {
		t.Error("SetTimeout on a zero Client should create an HTTP client")
	}
}

func TestCredentials_ConcurrentAccess(t *testing.T) {
	client := NewClient()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			client.ChangeLoginCredentials("user", "pass")
		}()
		go func() {
			defer wg.Done()
			username, password := client.GetLoginCredentials()
			// A snapshot is always a whole pair, never a mix
			if (username == "user") != (password == "pass") {
				t.Errorf("torn credentials: (%q, %q)", username, password)
			}
		}()
	}
	wg.Wait()
}

func TestAuthenticate(t *testing.T) {
	gw := newFakeGateway(t)
	client := NewClient()

	session, err := client.Authenticate(gw.address(), Credentials{Username: "admin", Password: "pw"})
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	defer session.Close()

	if session.ID == "" {
		t.Error("session ID should not be empty")
	}
	if session.BaseURL != gw.server.URL {
		t.Errorf("BaseURL = %s, want %s", session.BaseURL, gw.server.URL)
	}

	assertHandshake(t, gw.recorded(), "admin", "pw")
}

func TestAuthenticate_IgnoresLoginStatus(t *testing.T) {
	gw := newFakeGateway(t)
	gw.setStatus(LoginPath, http.StatusForbidden)
	gw.setStatus(ModePath, http.StatusInternalServerError)

	core, logs := observer.New(zapcore.WarnLevel)
	client := NewClient()
	client.Logger = zap.New(core)

	session, err := client.Authenticate(gw.address(), DefaultCredentials())
	if err != nil {
		t.Fatalf("Authenticate() error = %v, want nil (responses are not validated)", err)
	}
	session.Close()

	if logs.FilterMessage("Login returned non-OK status").Len() != 1 {
		t.Error("expected a warning for the non-OK login response")
	}
	if logs.FilterMessage("Expert mode switch returned non-OK status").Len() != 1 {
		t.Error("expected a warning for the non-OK expert mode response")
	}
}

func TestAuthenticate_TransportError(t *testing.T) {
	client := NewClient()
	client.SetTimeout(500 * time.Millisecond)

	_, err := client.Authenticate(closedAddress(t), DefaultCredentials())
	if err == nil {
		t.Fatal("Authenticate() should fail when the gateway is unreachable")
	}
	if !IsNetworkError(err) {
		t.Errorf("error should be a network error, got %T: %v", err, err)
	}
	if strings.Contains(err.Error(), "UN=admin") {
		t.Errorf("error leaks the password: %v", err)
	}
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	gw := newFakeGateway(t)
	session, err := NewClient().Authenticate(gw.address(), DefaultCredentials())
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	session.Close()
	session.Close()

	res := session.Send(http.MethodGet, DeleteRoutePath(0), StepRouteDelete, "")
	if res.OK() {
		t.Error("Send on a closed session should fail")
	}
	if len(gw.recorded()) != 2 {
		t.Errorf("closed session sent %d requests, want only the 2 handshake requests", len(gw.recorded()))
	}
}

func TestCreateSendRoute(t *testing.T) {
	gw := newFakeGateway(t)
	client := NewClient()

	result, err := client.CreateSendRoute(gw.address(), "10.0.0.5", 3, 2, 5001)
	if err != nil {
		t.Fatalf("CreateSendRoute() error = %v", err)
	}
	if !result.Success() {
		t.Errorf("result should succeed, got %v", result.Err())
	}

	reqs := gw.recorded()
	if len(reqs) != 3 {
		t.Fatalf("got %d requests, want 3", len(reqs))
	}
	assertHandshake(t, reqs, "admin", "admin")

	route := reqs[2]
	if route.Method != http.MethodPost || route.Path != RouteAddPath {
		t.Errorf("route request = %s %s, want POST %s", route.Method, route.Path, RouteAddPath)
	}
	want := "route_index=3&route_direction=0&return_page=%2Frouting_add_route.php&route_state=on&handshake_state=on" +
		"&can_chan=can1&ip1=10&ip2=0&ip3=0&ip4=5&port=5001&proto=17&FPP=1"
	if route.RawQuery != want {
		t.Errorf("route query =\n  %s\nwant\n  %s", route.RawQuery, want)
	}
	if route.Cookie != reqs[1].Cookie {
		t.Error("route request should reuse the handshake session cookie")
	}
}

func TestCreateSendRoute_MalformedAddress(t *testing.T) {
	for _, target := range []string{"10.0.5", "10.0.0.0.5", "", "localhost"} {
		t.Run(target, func(t *testing.T) {
			gw := newFakeGateway(t)

			result, err := NewClient().CreateSendRoute(gw.address(), target, 1, 1, 5000)
			if err == nil {
				t.Fatal("CreateSendRoute() should fail for a malformed target")
			}
			if !IsMalformedAddressError(err) {
				t.Errorf("error should be a malformed address error, got %v", err)
			}
			if result != nil {
				t.Error("result should be nil when nothing was sent")
			}
			if n := len(gw.recorded()); n != 0 {
				t.Errorf("sent %d requests before failing, want 0", n)
			}
		})
	}
}

func TestCreateReceiveRoute(t *testing.T) {
	gw := newFakeGateway(t)
	client := NewClient()

	result, err := client.CreateReceiveRoute(gw.address(), 4, 1, 6000)
	if err != nil {
		t.Fatalf("CreateReceiveRoute() error = %v", err)
	}
	if !result.Success() {
		t.Errorf("result should succeed, got %v", result.Err())
	}

	reqs := gw.recorded()
	if len(reqs) != 3 {
		t.Fatalf("got %d requests, want 3", len(reqs))
	}
	assertHandshake(t, reqs, "admin", "admin")

	want := "route_index=4&route_direction=1&return_page=%2Frouting_add_route.php&route_state=on&handshake_state=on" +
		"&can_chan=can0&ip1=0&ip2=0&ip3=0&ip4=0&port=6000&proto=17&FPP=1"
	if reqs[2].RawQuery != want {
		t.Errorf("route query =\n  %s\nwant\n  %s", reqs[2].RawQuery, want)
	}
}

func TestRouteOperations_WireChannel(t *testing.T) {
	for channel := 1; channel <= 4; channel++ {
		gw := newFakeGateway(t)
		client := NewClient()

		if _, err := client.CreateSendRoute(gw.address(), "10.0.0.5", 0, channel, 5000); err != nil {
			t.Fatalf("CreateSendRoute() error = %v", err)
		}
		if _, err := client.CreateReceiveRoute(gw.address(), 1, channel, 5000); err != nil {
			t.Fatalf("CreateReceiveRoute() error = %v", err)
		}

		want := "can_chan=can" + string(rune('0'+channel-1))
		for _, req := range gw.recorded() {
			if req.Path == RouteAddPath && !strings.Contains(req.RawQuery, want+"&") {
				t.Errorf("channel %d: query %q does not contain %q", channel, req.RawQuery, want)
			}
		}
	}
}

func TestCreateRoute_RejectedIsNotAnError(t *testing.T) {
	gw := newFakeGateway(t)
	gw.setStatus(RouteAddPath, http.StatusInternalServerError)

	result, err := NewClient().CreateReceiveRoute(gw.address(), 2, 1, 5000)
	if err != nil {
		t.Fatalf("CreateReceiveRoute() error = %v, want nil for a rejected request", err)
	}
	if result.Success() {
		t.Error("result should not succeed when the gateway rejects the route")
	}

	failed := result.Failed()
	if len(failed) != 1 {
		t.Fatalf("got %d failed steps, want 1", len(failed))
	}
	if !IsHTTPError(failed[0].Err) {
		t.Errorf("failed step error should be an HTTP error, got %v", failed[0].Err)
	}
	if failed[0].StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", failed[0].StatusCode)
	}
}

func TestRemoveAllRoutes(t *testing.T) {
	gw := newFakeGateway(t)
	client := NewClient()

	result, err := client.RemoveAllRoutes(gw.address())
	if err != nil {
		t.Fatalf("RemoveAllRoutes() error = %v", err)
	}
	if !result.Success() {
		t.Errorf("result should succeed, got %v", result.Err())
	}

	reqs := gw.recorded()
	if len(reqs) != 2+MaxRoutes {
		t.Fatalf("got %d requests, want %d", len(reqs), 2+MaxRoutes)
	}
	assertHandshake(t, reqs, "admin", "admin")

	for i, req := range reqs[2:] {
		wantQuery := "delete=" + string(rune('0'+MaxRouteIndex-i))
		if req.Method != http.MethodGet || req.Path != RouteDeletePath || req.RawQuery != wantQuery {
			t.Errorf("delete %d = %s %s?%s, want GET %s?%s", i, req.Method, req.Path, req.RawQuery, RouteDeletePath, wantQuery)
		}
	}
}

func TestRemoveAllRoutes_ContinuesAfterFailures(t *testing.T) {
	gw := newFakeGateway(t)
	gw.setStatus(RouteDeletePath+"?delete=7", http.StatusNotFound)
	gw.setStatus(RouteDeletePath+"?delete=2", http.StatusInternalServerError)

	result, err := NewClient().RemoveAllRoutes(gw.address())
	if err != nil {
		t.Fatalf("RemoveAllRoutes() error = %v", err)
	}

	deletes := 0
	for _, req := range gw.recorded() {
		if req.Path == RouteDeletePath {
			deletes++
		}
	}
	if deletes != MaxRoutes {
		t.Errorf("sent %d deletes, want %d", deletes, MaxRoutes)
	}

	if result.Success() {
		t.Error("result should not succeed with failed deletes")
	}
	if got := len(result.Failed()); got != 2 {
		t.Errorf("got %d failed steps, want 2", got)
	}
	if result.Err() == nil {
		t.Fatal("Err() should aggregate the failures")
	}
	if !strings.Contains(result.Err().Error(), "404") || !strings.Contains(result.Err().Error(), "500") {
		t.Errorf("Err() = %v, want both failures", result.Err())
	}
}

func TestRemoveAllRoutes_ContinuesAfterTransportErrors(t *testing.T) {
	gw := newFakeGateway(t)

	gw.dropConnection(RouteDeletePath + "?delete=5")

	result, err := NewClient().RemoveAllRoutes(gw.address())
	if err != nil {
		t.Fatalf("RemoveAllRoutes() error = %v, want nil", err)
	}

	if got := len(result.ConfigSteps()); got != MaxRoutes {
		t.Errorf("got %d delete steps, want %d", got, MaxRoutes)
	}

	failed := result.Failed()
	if len(failed) != 1 {
		t.Fatalf("got %d failed steps, want 1", len(failed))
	}
	if !IsNetworkError(failed[0].Err) {
		t.Errorf("failed step should be a network error, got %v", failed[0].Err)
	}

	// The dropped slot included: nothing is re-sent
	for slot := MaxRoutes - 1; slot >= 0; slot-- {
		if got := gw.count(DeleteRoutePath(slot)); got != 1 {
			t.Errorf("gateway saw delete=%d %d times, want 1", slot, got)
		}
	}
}

func TestAuthenticate_DroppedModeSwitchIsSentOnce(t *testing.T) {
	gw := newFakeGateway(t)
	modeKey := ModePath + "?" + ExpertModeQuery
	gw.dropConnection(modeKey)

	_, err := NewClient().Authenticate(gw.address(), DefaultCredentials())
	if !IsNetworkError(err) {
		t.Fatalf("Authenticate() error = %v, want network error", err)
	}
	if got := gw.count(modeKey); got != 1 {
		t.Errorf("gateway saw the expert mode switch %d times, want exactly 1", got)
	}
	if got := len(gw.recorded()); got != 2 {
		t.Errorf("gateway saw %d requests, want login and mode switch only", got)
	}
}

func TestSetChannelBaudRate(t *testing.T) {
	tests := []struct {
		name      string
		channel   int
		kbits     float64
		wantQuery string
	}{
		{
			name:      "channel 1 is the actuation bus",
			channel:   1,
			kbits:     500,
			wantQuery: "index=1&set_can_status=2&bitrate=500000&info=Actuation+Bus",
		},
		{
			name:      "channel 2 is an OEM bus",
			channel:   2,
			kbits:     250.0,
			wantQuery: "index=2&set_can_status=2&bitrate=250000&info=OEM+Bus",
		},
		{
			name:      "fraction is truncated before scaling",
			channel:   3,
			kbits:     83.9,
			wantQuery: "index=3&set_can_status=2&bitrate=83000&info=OEM+Bus",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newFakeGateway(t)

			result, err := NewClient().SetChannelBaudRate(gw.address(), tt.channel, tt.kbits)
			if err != nil {
				t.Fatalf("SetChannelBaudRate() error = %v", err)
			}
			if !result.Success() {
				t.Errorf("result should succeed, got %v", result.Err())
			}

			reqs := gw.recorded()
			if len(reqs) != 3 {
				t.Fatalf("got %d requests, want 3", len(reqs))
			}
			assertHandshake(t, reqs, "admin", "admin")

			if reqs[2].Method != http.MethodPost || reqs[2].Path != CanEditPath {
				t.Errorf("bitrate request = %s %s, want POST %s", reqs[2].Method, reqs[2].Path, CanEditPath)
			}
			if reqs[2].RawQuery != tt.wantQuery {
				t.Errorf("bitrate query = %q, want %q", reqs[2].RawQuery, tt.wantQuery)
			}
		})
	}
}

func TestCreateCanChannel(t *testing.T) {
	gw := newFakeGateway(t)
	client := NewClient()
	client.ChangeLoginCredentials("tech", "pw")

	result, err := client.CreateCanChannel(3, gw.address(), "10.0.0.5", 5003, 1000)
	if err != nil {
		t.Fatalf("CreateCanChannel() error = %v", err)
	}
	if !result.Success() {
		t.Errorf("result should succeed, got %v", result.Err())
	}

	reqs := gw.recorded()
	if len(reqs) != 5 {
		t.Fatalf("got %d requests, want 5 (one login, three configuration)", len(reqs))
	}
	assertHandshake(t, reqs, "tech", "pw")

	receive, send, bitrate := reqs[2], reqs[3], reqs[4]

	if !strings.HasPrefix(receive.RawQuery, "route_index=6&route_direction=1&") {
		t.Errorf("receive leg query = %q, want route 6 direction 1", receive.RawQuery)
	}
	if !strings.Contains(receive.RawQuery, "&ip1=0&ip2=0&ip3=0&ip4=0&port=5003&") {
		t.Errorf("receive leg query = %q, want 0.0.0.0:5003", receive.RawQuery)
	}

	if !strings.HasPrefix(send.RawQuery, "route_index=5&route_direction=0&") {
		t.Errorf("send leg query = %q, want route 5 direction 0", send.RawQuery)
	}
	if !strings.Contains(send.RawQuery, "&can_chan=can2&ip1=10&ip2=0&ip3=0&ip4=5&port=5003&") {
		t.Errorf("send leg query = %q, want can2 to 10.0.0.5:5003", send.RawQuery)
	}

	if bitrate.Path != CanEditPath || bitrate.RawQuery != "index=3&set_can_status=2&bitrate=1000000&info=OEM+Bus" {
		t.Errorf("bitrate request = %s?%s", bitrate.Path, bitrate.RawQuery)
	}

	for _, req := range reqs[1:] {
		if req.Cookie != "session-tech" {
			t.Errorf("%s used cookie %q, want the one session", req.Path, req.Cookie)
		}
	}
}

func TestCreateCanChannel_NoRollback(t *testing.T) {
	gw := newFakeGateway(t)
	gw.setStatus(RouteAddPath, http.StatusBadRequest)

	result, err := NewClient().CreateCanChannel(1, gw.address(), "10.0.0.5", 5000, 500)
	if err != nil {
		t.Fatalf("CreateCanChannel() error = %v", err)
	}

	steps := result.ConfigSteps()
	if len(steps) != 3 {
		t.Fatalf("got %d configuration steps, want 3", len(steps))
	}
	if steps[0].OK() || steps[1].OK() {
		t.Error("both route steps should have failed")
	}
	if !steps[2].OK() {
		t.Error("bitrate step should still run and succeed")
	}
}

func TestCreateCanChannel_MalformedAddress(t *testing.T) {
	gw := newFakeGateway(t)

	_, err := NewClient().CreateCanChannel(1, gw.address(), "10.0.0", 5000, 500)
	if !IsMalformedAddressError(err) {
		t.Fatalf("error = %v, want malformed address error", err)
	}
	if n := len(gw.recorded()); n != 0 {
		t.Errorf("sent %d requests, want 0", n)
	}
}

func TestOperations_FreshSessionEachCall(t *testing.T) {
	gw := newFakeGateway(t)
	client := NewClient()

	if _, err := client.SetChannelBaudRate(gw.address(), 1, 500); err != nil {
		t.Fatal(err)
	}
	client.ChangeLoginCredentials("second", "pw")
	if _, err := client.SetChannelBaudRate(gw.address(), 2, 250); err != nil {
		t.Fatal(err)
	}

	reqs := gw.recorded()
	if len(reqs) != 6 {
		t.Fatalf("got %d requests, want 6", len(reqs))
	}
	assertHandshake(t, reqs[:3], "admin", "admin")
	assertHandshake(t, reqs[3:], "second", "pw")

	// The second operation logs in again with no cookie from the first
	if reqs[3].Cookie != "" {
		t.Errorf("second login carried cookie %q from the first session", reqs[3].Cookie)
	}
}

func TestOperations_TransportErrorAborts(t *testing.T) {
	client := NewClient()
	client.SetTimeout(500 * time.Millisecond)
	address := closedAddress(t)

	result, err := client.CreateCanChannel(1, address, "10.0.0.5", 5000, 500)
	if err == nil {
		t.Fatal("CreateCanChannel() should fail when the gateway is unreachable")
	}
	if !IsNetworkError(err) {
		t.Errorf("error should be a network error, got %v", err)
	}
	if result == nil {
		t.Fatal("result should record the failed login")
	}
	if len(result.ConfigSteps()) != 0 {
		t.Errorf("got %d configuration steps after a failed login, want 0", len(result.ConfigSteps()))
	}

	if _, err := client.RemoveAllRoutes(address); !IsNetworkError(err) {
		t.Errorf("RemoveAllRoutes() error = %v, want network error when login cannot be sent", err)
	}
}

func TestOnStepObserver(t *testing.T) {
	gw := newFakeGateway(t)
	client := NewClient()

	var names []string
	client.OnStep = func(s StepResult) { names = append(names, s.Name) }

	if _, err := client.CreateCanChannel(2, gw.address(), "10.0.0.5", 5000, 500); err != nil {
		t.Fatal(err)
	}

	want := []string{StepLogin, StepExpertMode, StepRouteAdd, StepRouteAdd, StepBitrate}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("observed steps = %v, want %v", names, want)
	}
}

func TestResult_PasswordNotRecorded(t *testing.T) {
	gw := newFakeGateway(t)
	client := NewClientWithCredentials("admin", "topsecret")

	result, err := client.RemoveAllRoutes(gw.address())
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range result.Steps {
		if strings.Contains(s.Path, "topsecret") {
			t.Errorf("step %s path leaks the password: %s", s.Name, s.Path)
		}
	}
	if !strings.Contains(gw.recorded()[0].RawQuery, "UN=topsecret") {
		t.Error("the real login request must still carry the password")
	}
}

// closedAddress returns a host:port with nothing listening on it
func closedAddress(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}
