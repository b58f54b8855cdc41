package exchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/nojima/tinycache-go/input"
	"github.com/nojima/tinycache-go/version"
	"github.com/pkg/errors"
)

const (
	HeaderAPIKey  = "X-TINYCACHE-API-KEY"
	HeaderEncrypt = "X-TINYCACHE-ENCRYPT"
	HeaderDecrypt = "X-TINYCACHE-DECRYPT"
)

// Request describes the one request a run sends. Body is nil when the request
// has no body.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// BuildRequest assembles the request for in and payload. It performs no I/O.
func BuildRequest(in *input.Input, payload *input.Payload, config *Config) (*Request, error) {
	header, err := buildHeader(payload, config)
	if err != nil {
		return nil, err
	}

	body, err := buildBody(payload)
	if err != nil {
		return nil, err
	}
	if body != nil {
		header.Set("Content-Type", "application/json")
	}

	return &Request{
		Method: in.Verb.String(),
		URL:    buildURL(in, config),
		Header: header,
		Body:   body,
	}, nil
}

func buildHeader(payload *input.Payload, config *Config) (http.Header, error) {
	if config.APIKey == "" {
		return nil, input.NewError(input.MissingCredential, "invalid API key")
	}

	header := make(http.Header)
	header.Set(HeaderAPIKey, config.APIKey)
	header.Set("User-Agent", fmt.Sprintf("tinycache-go/%s", version.Current()))
	if payload == nil {
		return header, nil
	}
	if payload.Encrypt != nil {
		header.Set(HeaderEncrypt, input.Text(payload.Encrypt))
	}
	if payload.Decrypt != nil {
		header.Set(HeaderDecrypt, input.Text(payload.Decrypt))
	}
	return header, nil
}

func buildURL(in *input.Input, config *Config) string {
	u := config.baseURL()
	if in.CacheKey != "" {
		u += "/" + in.CacheKey
	}
	if in.Query != "" {
		u += "?" + in.Query
	}
	return u
}

func buildBody(payload *input.Payload) ([]byte, error) {
	if payload == nil || payload.CacheValue == nil {
		return nil, nil
	}
	body, err := json.Marshal(payload.Fields())
	if err != nil {
		return nil, errors.Wrap(err, "marshaling JSON of HTTP body")
	}
	return body, nil
}

// BuildHTTPRequest converts r into an *http.Request ready for a client.
func BuildHTTPRequest(r *Request) (*http.Request, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing URL '%s'", r.URL)
	}

	header := r.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}

	req := http.Request{
		Method: r.Method,
		URL:    u,
		Header: header,
		Host:   u.Host,
	}
	if r.Body != nil {
		req.Body = ioutil.NopCloser(bytes.NewReader(r.Body))
		req.ContentLength = int64(len(r.Body))
	}
	return &req, nil
}
