package output

import (
	"github.com/nojima/tinycache-go/exchange"
)

type Printer interface {
	PrintRequest(request *exchange.Request) error
	PrintResponse(body string) error
}
