package input

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	FieldCacheValue = "cache_value"
	FieldExpire     = "expire"
	FieldEncrypt    = "encrypt"
	FieldDecrypt    = "decrypt"
)

// Payload is the set of cache fields bound for a request. Every known field is
// held as encoded JSON so values from --json keep their type; nil means unset.
type Payload struct {
	CacheValue json.RawMessage
	Expire     json.RawMessage
	Encrypt    json.RawMessage
	Decrypt    json.RawMessage

	// Extra carries any other field of --json or --data through to the body.
	Extra map[string]json.RawMessage
}

// BuildPayload resolves the payload for the verb of in. DELETE has no payload
// and returns nil.
func BuildPayload(in *Input, options *Options) (*Payload, error) {
	switch in.Verb {
	case Get:
		return buildReadPayload(options), nil
	case Post, Put:
		return buildWritePayload(options)
	case Delete:
		return nil, nil
	default:
		return nil, errors.Errorf("unknown verb: %v", in.Verb)
	}
}

func buildReadPayload(options *Options) *Payload {
	p := &Payload{}
	if options.Encrypt != "" {
		p.Decrypt = stringValue(options.Encrypt)
	}
	return p
}

func buildWritePayload(options *Options) (*Payload, error) {
	p, err := parseBase(options)
	if err != nil {
		return nil, err
	}

	if p.CacheValue == nil && options.Value != "" {
		p.CacheValue = stringValue(options.Value)
	}
	if p.Expire == nil && options.Expire != "" {
		p.Expire = stringValue(options.Expire)
	}
	if p.Encrypt == nil && options.Encrypt != "" {
		p.Encrypt = stringValue(options.Encrypt)
	}

	if options.File != "" {
		data, err := os.ReadFile(options.File)
		if err != nil {
			return nil, newErrorf(FileReadError, err, "reading file '%s'", options.File)
		}
		if p.CacheValue != nil {
			logrus.WithField("file", options.File).Debug("cache_value replaced by file contents")
		}
		p.CacheValue = stringValue(base64.StdEncoding.EncodeToString(data))
	}

	if p.CacheValue == nil {
		return nil, NewError(MissingValue, "cache value must be set")
	}
	return p, nil
}

func parseBase(options *Options) (*Payload, error) {
	if options.JSON != "" {
		return parseJSON(options.JSON)
	}
	if options.Data != "" {
		return parseData(options.Data)
	}
	return &Payload{}, nil
}

func parseJSON(s string) (*Payload, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, newErrorf(MalformedJSON, err, "JSON could not be parsed")
	}
	if obj == nil {
		return nil, NewError(MalformedJSON, "JSON could not be parsed: not an object")
	}
	p := &Payload{}
	for name, value := range obj {
		// null leaves a known field unset; other fields keep it
		if isNull(value) && isKnownField(name) {
			continue
		}
		p.set(name, value)
	}
	return p, nil
}

// parseData splits URL-encoded pairs leniently: ';' is not a separator and a
// part that fails to unescape is kept as written. Later pairs win.
func parseData(s string) (*Payload, error) {
	p := &Payload{}
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}
		name, value := pair, ""
		if i := strings.Index(pair, "="); i >= 0 {
			name, value = pair[:i], pair[i+1:]
		}
		name = unescapeLenient(name)
		if name == "" {
			continue
		}
		p.set(name, stringValue(unescapeLenient(value)))
	}
	return p, nil
}

func unescapeLenient(s string) string {
	u, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return u
}

func isKnownField(name string) bool {
	switch name {
	case FieldCacheValue, FieldExpire, FieldEncrypt, FieldDecrypt:
		return true
	}
	return false
}

func (p *Payload) set(name string, value json.RawMessage) {
	switch name {
	case FieldCacheValue:
		p.CacheValue = value
	case FieldExpire:
		p.Expire = value
	case FieldEncrypt:
		p.Encrypt = value
	case FieldDecrypt:
		p.Decrypt = value
	default:
		if p.Extra == nil {
			p.Extra = map[string]json.RawMessage{}
		}
		p.Extra[name] = value
	}
}

// Fields returns the fields that go into a request body, i.e. everything but
// encrypt and decrypt.
func (p *Payload) Fields() map[string]json.RawMessage {
	fields := make(map[string]json.RawMessage, len(p.Extra)+2)
	for name, value := range p.Extra {
		fields[name] = value
	}
	if p.CacheValue != nil {
		fields[FieldCacheValue] = p.CacheValue
	}
	if p.Expire != nil {
		fields[FieldExpire] = p.Expire
	}
	return fields
}

// Text renders a field for use outside JSON, such as in a header. JSON strings
// are unquoted, other values are kept as written.
func Text(value json.RawMessage) string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(value))
}

func stringValue(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
