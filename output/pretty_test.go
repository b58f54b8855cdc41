package output

import (
	"net/http"
	"strings"
	"testing"

	"github.com/nojima/tinycache-go/exchange"
)

func TestPrettyPrinter_PrintRequest(t *testing.T) {
	// Setup
	var buffer strings.Builder
	printer := NewPrettyPrinter(PrettyPrinterConfig{
		Writer:      &buffer,
		EnableColor: false,
	})
	request := &exchange.Request{
		Method: "POST",
		URL:    "https://tinycache.io/api/v1/hello",
		Header: http.Header{
			"X-Tinycache-Api-Key": []string{"abcd1234"},
			"X-Tinycache-Encrypt": []string{"secret"},
			"Content-Type":        []string{"application/json"},
		},
		Body: []byte(`{"cache_value":"a"}`),
	}

	// Exercise
	err := printer.PrintRequest(request)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify
	expected := strings.Join([]string{
		"POST https://tinycache.io/api/v1/hello\n",
		"Content-Type: application/json\n",
		"X-Tinycache-Api-Key: abcd****\n",
		"X-Tinycache-Encrypt: secret\n",
		"\n",
		`{"cache_value":"a"}`,
		"\n(19B body)\n\n",
	}, "")
	if buffer.String() != expected {
		t.Errorf("unexpected output: expected=\n%s\nactual=\n%s", expected, buffer.String())
	}
}

func TestPrettyPrinter_PrintRequest_NoBody(t *testing.T) {
	var buffer strings.Builder
	printer := NewPrettyPrinter(PrettyPrinterConfig{Writer: &buffer})
	request := &exchange.Request{
		Method: "DELETE",
		URL:    "https://tinycache.io/api/v1/hello",
		Header: http.Header{"X-Tinycache-Api-Key": []string{"key"}},
	}

	if err := printer.PrintRequest(request); err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	expected := "DELETE https://tinycache.io/api/v1/hello\nX-Tinycache-Api-Key: ****\n\n"
	if buffer.String() != expected {
		t.Errorf("unexpected output: expected=\n%s\nactual=\n%s", expected, buffer.String())
	}
}

func TestPrinter_PrintResponse(t *testing.T) {
	testCases := []struct {
		title    string
		body     string
		expected string
	}{
		{title: "JSON", body: `{"cache_value":"a"}`, expected: "{\"cache_value\":\"a\"}\n"},
		{title: "Empty", body: "", expected: "\n"},
		{title: "Already ends with newline", body: "text\n", expected: "text\n\n"},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			for _, newPrinter := range []func(*strings.Builder) Printer{
				func(b *strings.Builder) Printer { return NewPlainPrinter(b) },
				func(b *strings.Builder) Printer { return NewPrettyPrinter(PrettyPrinterConfig{Writer: b, EnableColor: true}) },
			} {
				var buffer strings.Builder
				if err := newPrinter(&buffer).PrintResponse(tt.body); err != nil {
					t.Fatalf("unexpected error: err=%+v", err)
				}
				if buffer.String() != tt.expected {
					t.Errorf("unexpected output: expected=%q, actual=%q", tt.expected, buffer.String())
				}
			}
		})
	}
}

func TestPlainPrinter_PrintRequest(t *testing.T) {
	var buffer strings.Builder
	printer := NewPlainPrinter(&buffer)
	request := &exchange.Request{
		Method: "GET",
		URL:    "https://tinycache.io/api/v1/hello?x=1",
		Header: http.Header{
			"X-Tinycache-Decrypt": []string{"secret"},
			"X-Tinycache-Api-Key": []string{"0123456789"},
		},
	}

	if err := printer.PrintRequest(request); err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	expected := strings.Join([]string{
		"GET https://tinycache.io/api/v1/hello?x=1\n",
		"X-Tinycache-Api-Key: 0123******\n",
		"X-Tinycache-Decrypt: secret\n",
		"\n",
	}, "")
	if buffer.String() != expected {
		t.Errorf("unexpected output: expected=\n%s\nactual=\n%s", expected, buffer.String())
	}
}
