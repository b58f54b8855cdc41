package tinycache

import (
	"io"
	"io/ioutil"
	"net/http"
	"os"

	"github.com/nojima/tinycache-go/config"
	"github.com/nojima/tinycache-go/exchange"
	"github.com/nojima/tinycache-go/flags"
	"github.com/nojima/tinycache-go/input"
	"github.com/nojima/tinycache-go/output"
	"github.com/nojima/tinycache-go/version"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Options replace the process environment of Main. Zero fields fall back to
// the real ones.
type Options struct {
	Args      []string
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Getenv    func(string) string
	AskAPIKey func() (string, error)

	// Transport replaces the default HTTP transport when set.
	Transport http.RoundTripper
}

func (o *Options) fillDefaults() {
	if o.Args == nil {
		o.Args = os.Args
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
	if o.AskAPIKey == nil {
		o.AskAPIKey = flags.AskAPIKey
	}
}

func Main(options *Options) error {
	options.fillDefaults()

	// Parse flags
	args, usage, optionSet, err := flags.Parse(options.Args)
	if err != nil {
		usage(options.Stderr)
		return err
	}
	optionSet.ExchangeOptions.Transport = options.Transport
	setupLogging(options.Stderr, optionSet.Debug)

	switch {
	case optionSet.PrintHelp:
		usage(options.Stdout)
		return nil
	case optionSet.PrintVersion:
		_, err := io.WriteString(options.Stdout, "tinycache-go "+version.Current().String()+"\n")
		return err
	case optionSet.PrintLicenses:
		version.PrintLicenses(options.Stdout)
		return nil
	}

	inputOptions := optionSet.InputOptions
	if optionSet.ReadJSONFromStdin {
		b, err := ioutil.ReadAll(options.Stdin)
		if err != nil {
			return errors.Wrap(err, "failed to read stdin")
		}
		inputOptions.JSON = string(b)
	}

	// Validate and build the payload
	in, err := input.ParseArgs(args, &inputOptions)
	if _, ok := errors.Cause(err).(*input.UsageError); ok {
		usage(options.Stderr)
		return err
	}
	if err != nil {
		return err
	}
	payload, err := input.BuildPayload(in, &inputOptions)
	if err != nil {
		return err
	}

	// Assemble the request
	cfg, err := resolveConfig(options, &optionSet.CredentialOptions)
	if err != nil {
		return err
	}
	request, err := exchange.BuildRequest(in, payload, cfg)
	if err != nil {
		return err
	}

	if optionSet.OutputOptions.PrintRequest {
		printer := output.NewPrettyPrinter(output.PrettyPrinterConfig{
			Writer:      options.Stderr,
			EnableColor: optionSet.OutputOptions.EnableColor,
		})
		if err := printer.PrintRequest(request); err != nil {
			return err
		}
	}

	// Send request and print response
	body, err := exchange.Send(request, &optionSet.ExchangeOptions)
	if err != nil {
		return err
	}
	return output.NewPlainPrinter(options.Stdout).PrintResponse(body)
}

func resolveConfig(options *Options, credentialOptions *flags.CredentialOptions) (*exchange.Config, error) {
	path := credentialOptions.ConfigPath
	mustExist := path != ""
	if path == "" {
		path = config.DefaultPath(options.Getenv)
	}
	file, err := config.Load(path, mustExist)
	if err != nil {
		return nil, err
	}

	overrides := config.Overrides{
		APIKey: credentialOptions.APIKey,
		URL:    credentialOptions.URL,
	}
	if overrides.APIKey == "" && credentialOptions.AskAPIKey {
		overrides.APIKey, err = options.AskAPIKey()
		if err != nil {
			return nil, err
		}
	}
	return config.Resolve(overrides, options.Getenv, file), nil
}

func setupLogging(w io.Writer, debug bool) {
	logrus.SetOutput(w)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}
