package output

import (
	"fmt"
	"io"

	"code.cloudfoundry.org/bytefmt"
	"github.com/logrusorgru/aurora"
	"github.com/nojima/tinycache-go/exchange"
	"github.com/pkg/errors"
)

type PrettyPrinter struct {
	writer        io.Writer
	plain         Printer
	aurora        aurora.Aurora
	headerPalette *HeaderPalette
}

type PrettyPrinterConfig struct {
	Writer      io.Writer
	EnableColor bool
}

type HeaderPalette struct {
	Method         aurora.Color
	URL            aurora.Color
	FieldName      aurora.Color
	FieldValue     aurora.Color
	FieldSeparator aurora.Color
	BodySize       aurora.Color
}

var defaultHeaderPalette = HeaderPalette{
	Method:         aurora.GreenFg | aurora.BoldFm,
	URL:            aurora.CyanFg | aurora.UnderlineFm,
	FieldName:      aurora.WhiteFg,
	FieldValue:     aurora.CyanFg,
	FieldSeparator: aurora.WhiteFg,
	BodySize:       aurora.BrownFg,
}

func NewPrettyPrinter(config PrettyPrinterConfig) Printer {
	return &PrettyPrinter{
		writer:        config.Writer,
		plain:         NewPlainPrinter(config.Writer),
		aurora:        aurora.NewAurora(config.EnableColor),
		headerPalette: &defaultHeaderPalette,
	}
}

func (p *PrettyPrinter) PrintRequest(request *exchange.Request) error {
	fmt.Fprintf(p.writer, "%s %s\n",
		p.aurora.Colorize(request.Method, p.headerPalette.Method),
		p.aurora.Colorize(request.URL, p.headerPalette.URL))

	for _, name := range sortedNames(request.Header) {
		for _, value := range request.Header[name] {
			fmt.Fprintf(p.writer, "%s%s %s\n",
				p.aurora.Colorize(name, p.headerPalette.FieldName),
				p.aurora.Colorize(":", p.headerPalette.FieldSeparator),
				p.aurora.Colorize(displayValue(name, value), p.headerPalette.FieldValue))
		}
	}
	fmt.Fprintln(p.writer)

	if request.Body == nil {
		return nil
	}
	if _, err := p.writer.Write(request.Body); err != nil {
		return errors.Wrap(err, "printing request body")
	}
	fmt.Fprintf(p.writer, "\n%s\n\n",
		p.aurora.Colorize(fmt.Sprintf("(%s body)", bytefmt.ByteSize(uint64(len(request.Body)))), p.headerPalette.BodySize))
	return nil
}

// PrintResponse is never colored; the response is passed through as is.
func (p *PrettyPrinter) PrintResponse(body string) error {
	return p.plain.PrintResponse(body)
}
