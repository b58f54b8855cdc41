package output

import (
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/nojima/tinycache-go/exchange"
	"github.com/pkg/errors"
)

type PlainPrinter struct {
	writer io.Writer
}

func NewPlainPrinter(writer io.Writer) Printer {
	return &PlainPrinter{
		writer: writer,
	}
}

func (p *PlainPrinter) PrintRequest(request *exchange.Request) error {
	fmt.Fprintf(p.writer, "%s %s\n", request.Method, request.URL)
	for _, name := range sortedNames(request.Header) {
		for _, value := range request.Header[name] {
			fmt.Fprintf(p.writer, "%s: %s\n", name, displayValue(name, value))
		}
	}
	fmt.Fprintln(p.writer)
	if request.Body != nil {
		if _, err := p.writer.Write(request.Body); err != nil {
			return errors.Wrap(err, "printing request body")
		}
		fmt.Fprintln(p.writer)
		fmt.Fprintln(p.writer)
	}
	return nil
}

// PrintResponse writes the response text unchanged, followed by a newline.
func (p *PlainPrinter) PrintResponse(body string) error {
	if _, err := io.WriteString(p.writer, body+"\n"); err != nil {
		return errors.Wrap(err, "printing response body")
	}
	return nil
}

func sortedNames(header http.Header) []string {
	var names []string
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// displayValue hides all but the first characters of the API key.
func displayValue(name, value string) string {
	if http.CanonicalHeaderKey(name) != http.CanonicalHeaderKey(exchange.HeaderAPIKey) {
		return value
	}
	const visible = 4
	if len(value) <= visible {
		return "****"
	}
	masked := []byte(value)
	for i := visible; i < len(masked); i++ {
		masked[i] = '*'
	}
	return string(masked)
}
