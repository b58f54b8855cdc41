package flags

import (
	"io"
	"os"
	"regexp"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/nojima/tinycache-go/exchange"
	"github.com/nojima/tinycache-go/input"
	"github.com/nojima/tinycache-go/output"
	"github.com/pborman/getopt"
	"github.com/pkg/errors"
)

var reNumber = regexp.MustCompile(`^[0-9.]+$`)

type terminalInfo struct {
	stdinIsTerminal  bool
	stderrIsTerminal bool
}

// CredentialOptions select where the endpoint and API key come from.
type CredentialOptions struct {
	APIKey     string
	AskAPIKey  bool
	URL        string
	ConfigPath string
}

type OptionSet struct {
	InputOptions      input.Options
	ExchangeOptions   exchange.Options
	OutputOptions     output.Options
	CredentialOptions CredentialOptions

	ReadJSONFromStdin bool
	Debug             bool
	PrintHelp         bool
	PrintVersion      bool
	PrintLicenses     bool
}

// Parse parses args (args[0] is the program name). It returns the positional
// arguments and a function printing the usage.
func Parse(args []string) ([]string, func(io.Writer), *OptionSet, error) {
	return parse(args, terminalInfo{
		stdinIsTerminal:  isatty.IsTerminal(os.Stdin.Fd()),
		stderrIsTerminal: isatty.IsTerminal(os.Stderr.Fd()),
	})
}

func parse(args []string, terminalInfo terminalInfo) ([]string, func(io.Writer), *OptionSet, error) {
	inputOptions := input.Options{}
	outputOptions := output.Options{}
	exchangeOptions := exchange.Options{}
	credentialOptions := CredentialOptions{}
	optionSet := &OptionSet{}
	timeout := "30s"

	flagSet := getopt.New()
	flagSet.SetProgram("tinycache")
	flagSet.SetParameters("METHOD [CACHE_KEY]")
	flagSet.StringVarLong(&inputOptions.Key, "key", 'k', "cache key to interact with", "KEY")
	flagSet.StringVarLong(&inputOptions.Data, "data", 'd', "URL-encoded fields to send", "DATA")
	flagSet.StringVarLong(&inputOptions.JSON, "json", 'j', "raw JSON object to send (- reads stdin)", "JSON")
	flagSet.StringVarLong(&inputOptions.Expire, "expire", 'x', "expire time to set in POST or PUT", "EXPIRE")
	flagSet.StringVarLong(&inputOptions.Value, "value", 'v', "cache value to POST or PUT", "VALUE")
	flagSet.StringVarLong(&inputOptions.Encrypt, "encrypt", 'e', "encryption key (POST, PUT) or decryption key (GET)", "SECRET")
	flagSet.StringVarLong(&inputOptions.Encrypt, "decrypt", 0, "same as --encrypt", "SECRET")
	flagSet.StringVarLong(&inputOptions.File, "file", 'f', "file to send as the cache value, base64 encoded", "PATH")
	flagSet.StringVarLong(&inputOptions.Query, "query", 'q', "raw query string for an advanced cache query", "QUERY")
	flagSet.StringVarLong(&credentialOptions.APIKey, "api-key", 0, "API key (default: $TINYCACHE_API_KEY)", "KEY")
	flagSet.BoolVarLong(&credentialOptions.AskAPIKey, "ask-api-key", 0, "prompt for the API key")
	flagSet.StringVarLong(&credentialOptions.URL, "url", 0, "base URL of the API (default: $TINYCACHE_URL)", "URL")
	flagSet.StringVarLong(&credentialOptions.ConfigPath, "config", 0, "YAML config file", "PATH")
	flagSet.StringVarLong(&timeout, "timeout", 0, "timeout that you allow the whole operation to take", "DURATION")
	flagSet.BoolVarLong(&exchangeOptions.SkipVerify, "insecure", 0, "skip TLS certificate verification")
	flagSet.BoolVarLong(&exchangeOptions.FollowRedirects, "follow", 0, "follow redirects")
	flagSet.BoolVarLong(&exchangeOptions.ForceHTTP1, "http1", 0, "force HTTP/1.1")
	flagSet.BoolVarLong(&outputOptions.PrintRequest, "verbose", 0, "print the request to stderr before sending it")
	flagSet.BoolVarLong(&optionSet.Debug, "debug", 0, "print debug logs to stderr")
	flagSet.BoolVarLong(&optionSet.PrintVersion, "version", 0, "print version and exit")
	flagSet.BoolVarLong(&optionSet.PrintLicenses, "licenses", 0, "print licenses and exit")
	flagSet.BoolVarLong(&optionSet.PrintHelp, "help", 'h', "print this help and exit")
	usage := func(w io.Writer) { flagSet.PrintUsage(w) }

	positionals, err := getoptInterleaved(flagSet, args)
	if err != nil {
		return nil, usage, nil, err
	}

	// Parse --timeout
	d, err := parseDurationOrSeconds(timeout)
	if err != nil {
		return nil, usage, nil, err
	}
	exchangeOptions.Timeout = d

	// --json -
	if inputOptions.JSON == "-" {
		if terminalInfo.stdinIsTerminal {
			return nil, usage, nil, errors.New("--json - requires JSON on stdin")
		}
		optionSet.ReadJSONFromStdin = true
	}

	// Color
	outputOptions.EnableColor = terminalInfo.stderrIsTerminal

	optionSet.InputOptions = inputOptions
	optionSet.ExchangeOptions = exchangeOptions
	optionSet.OutputOptions = outputOptions
	optionSet.CredentialOptions = credentialOptions
	return positionals, usage, optionSet, nil
}

// getoptInterleaved lets options follow positional arguments, e.g.
// "POST hello -v world". Everything after "--" is positional.
func getoptInterleaved(flagSet *getopt.Set, args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, nil
	}
	program := args[0]
	var positionals []string
	for {
		if err := flagSet.Getopt(args, nil); err != nil {
			return nil, errors.Wrap(err, "parsing options")
		}
		rest := flagSet.Args()
		if flagSet.State == getopt.DashDash || len(rest) == 0 {
			return append(positionals, rest...), nil
		}
		positionals = append(positionals, rest[0])
		args = append([]string{program}, rest[1:]...)
	}
}

func parseDurationOrSeconds(timeout string) (time.Duration, error) {
	if reNumber.MatchString(timeout) {
		timeout += "s"
	}
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return time.Duration(0), errors.Errorf("Value of --timeout must be a number or duration string: %v", timeout)
	}
	return d, nil
}

// AskAPIKey reads the API key from the terminal without echoing it.
func AskAPIKey() (string, error) {
	return askPassword()
}
