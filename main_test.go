package tinycache

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/nojima/tinycache-go/input"
	"github.com/pkg/errors"
)

type recordedRequest struct {
	method string
	uri    string
	header http.Header
	body   string
}

func newServer(t *testing.T, response string) (*httptest.Server, *[]recordedRequest) {
	var recorded []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := ioutil.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read request body: %v", err)
		}
		recorded = append(recorded, recordedRequest{
			method: r.Method,
			uri:    r.RequestURI,
			header: r.Header,
			body:   string(b),
		})
		w.Write([]byte(response))
	}))
	return server, &recorded
}

func run(t *testing.T, env map[string]string, args ...string) (string, string, error) {
	var stdout, stderr strings.Builder
	err := Main(&Options{
		Args:   append([]string{"tinycache"}, args...),
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(name string) string { return env[name] },
		AskAPIKey: func() (string, error) {
			return "prompted-key", nil
		},
	})
	return stdout.String(), stderr.String(), err
}

func TestMain_Post(t *testing.T) {
	// Setup
	server, recorded := newServer(t, `{"status":"stored"}`)
	defer server.Close()
	env := map[string]string{"TINYCACHE_API_KEY": "env-key", "TINYCACHE_URL": server.URL + "/api/v1"}

	// Exercise
	stdout, _, err := run(t, env, "post", "greeting", "-v", "hello", "-x", "60", "-e", "secret")
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify
	if stdout != "{\"status\":\"stored\"}\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
	if len(*recorded) != 1 {
		t.Fatalf("expected exactly one request: %d", len(*recorded))
	}
	r := (*recorded)[0]
	if r.method != "POST" || r.uri != "/api/v1/greeting" {
		t.Errorf("unexpected request line: %s %s", r.method, r.uri)
	}
	if r.header.Get("X-Tinycache-Api-Key") != "env-key" {
		t.Errorf("unexpected API key: %s", r.header.Get("X-Tinycache-Api-Key"))
	}
	if r.header.Get("X-Tinycache-Encrypt") != "secret" {
		t.Errorf("unexpected encrypt header: %s", r.header.Get("X-Tinycache-Encrypt"))
	}
	var body map[string]interface{}
	if err := json.Unmarshal([]byte(r.body), &body); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}
	expected := map[string]interface{}{"cache_value": "hello", "expire": "60"}
	if !reflect.DeepEqual(body, expected) {
		t.Errorf("unexpected body: expected=%v, actual=%v", expected, body)
	}
}

func TestMain_GetWithQuery(t *testing.T) {
	server, recorded := newServer(t, "value")
	defer server.Close()

	stdout, _, err := run(t, nil, "GET", "--api-key", "flag-key", "--url", server.URL, "-q", "tag=a&limit=2", "--decrypt", "secret")
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	if stdout != "value\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
	r := (*recorded)[0]
	if r.method != "GET" || r.uri != "/?tag=a&limit=2" {
		t.Errorf("unexpected request line: %s %s", r.method, r.uri)
	}
	if r.header.Get("X-Tinycache-Decrypt") != "secret" {
		t.Errorf("unexpected decrypt header: %s", r.header.Get("X-Tinycache-Decrypt"))
	}
	if r.body != "" {
		t.Errorf("GET must have no body: %s", r.body)
	}
}

func TestMain_AskAPIKey(t *testing.T) {
	server, recorded := newServer(t, "")
	defer server.Close()

	_, _, err := run(t, nil, "DELETE", "k", "--ask-api-key", "--url", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	r := (*recorded)[0]
	if r.method != "DELETE" || r.header.Get("X-Tinycache-Api-Key") != "prompted-key" {
		t.Errorf("unexpected request: %s %v", r.method, r.header)
	}
}

func TestMain_ConfigFile(t *testing.T) {
	server, recorded := newServer(t, "")
	defer server.Close()
	tmpfile, err := ioutil.TempFile("", "tinycache-go-test-")
	if err != nil {
		t.Fatalf("failed to create temporary file: %v", err)
	}
	defer os.Remove(tmpfile.Name())
	tmpfile.WriteString("api_key: file-key\nurl: " + server.URL + "/v2\n")
	tmpfile.Close()

	_, _, err = run(t, nil, "--config", tmpfile.Name(), "GET", "k")
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	r := (*recorded)[0]
	if r.uri != "/v2/k" || r.header.Get("X-Tinycache-Api-Key") != "file-key" {
		t.Errorf("unexpected request: %s %v", r.uri, r.header)
	}
}

func TestMain_Verbose(t *testing.T) {
	server, _ := newServer(t, "ok")
	defer server.Close()

	_, stderr, err := run(t, nil, "--verbose", "--api-key", "abcdefgh", "--url", server.URL, "PUT", "k", "-v", "a")
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	if !strings.Contains(stderr, "PUT") || !strings.Contains(stderr, server.URL+"/k") {
		t.Errorf("request line missing from stderr: %s", stderr)
	}
	if strings.Contains(stderr, "abcdefgh") || !strings.Contains(stderr, "abcd****") {
		t.Errorf("API key should be masked: %s", stderr)
	}
}

func TestMain_Errors(t *testing.T) {
	server, recorded := newServer(t, "")
	defer server.Close()
	env := map[string]string{"TINYCACHE_API_KEY": "env-key", "TINYCACHE_URL": server.URL}

	testCases := []struct {
		title        string
		env          map[string]string
		args         []string
		expectedKind input.ErrorKind
	}{
		{title: "Invalid verb", env: env, args: []string{"PATCH", "k"}, expectedKind: input.InvalidVerb},
		{title: "Missing cache key", env: env, args: []string{"PUT", "-v", "a"}, expectedKind: input.MissingCacheKey},
		{title: "Missing value", env: env, args: []string{"POST", "k"}, expectedKind: input.MissingValue},
		{title: "Malformed JSON", env: env, args: []string{"POST", "k", "-j", "{not valid}"}, expectedKind: input.MalformedJSON},
		{title: "Unreadable file", env: env, args: []string{"POST", "k", "-f", "/nonexistent/tinycache-go-test"}, expectedKind: input.FileReadError},
		{title: "Missing credential", env: map[string]string{"TINYCACHE_URL": server.URL}, args: []string{"DELETE"}, expectedKind: input.MissingCredential},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			_, _, err := run(t, tt.env, tt.args...)
			if input.KindOf(err) != tt.expectedKind {
				t.Errorf("unexpected error kind: expected=%v, actual=%v (err=%v)", tt.expectedKind, input.KindOf(err), err)
			}
		})
	}
	if len(*recorded) != 0 {
		t.Errorf("no request should be sent: %d sent", len(*recorded))
	}
}

func TestMain_UsageError(t *testing.T) {
	_, stderr, err := run(t, nil)
	if _, ok := errors.Cause(err).(*input.UsageError); !ok {
		t.Errorf("expected usage error: err=%v", err)
	}
	if !strings.Contains(stderr, "CACHE_KEY") {
		t.Errorf("usage should be printed: %s", stderr)
	}
}

func TestMain_Version(t *testing.T) {
	stdout, _, err := run(t, nil, "--version")
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	if !strings.HasPrefix(stdout, "tinycache-go ") {
		t.Errorf("unexpected version output: %s", stdout)
	}
}
