package input

import (
	"fmt"
)

// ParseArgs validates the positional arguments (VERB [CACHE_KEY]) against the
// request options. It checks the verb and, for writes, the cache key. The
// payload and the credential are checked later.
func ParseArgs(args []string, options *Options) (*Input, error) {
	var argVerb string
	var argKey string
	switch len(args) {
	case 0:
		return nil, newUsageError("METHOD is required")
	case 1:
		argVerb = args[0]
	case 2:
		argVerb = args[0]
		argKey = args[1]
	default:
		return nil, newUsageError(fmt.Sprintf("too many arguments: %q", args[2:]))
	}

	verb, err := ParseVerb(argVerb)
	if err != nil {
		return nil, err
	}

	in := Input{
		Verb:     verb,
		CacheKey: resolveCacheKey(argKey, options.Key),
		Query:    options.Query,
	}

	if verb.IsWrite() && in.CacheKey == "" {
		return nil, NewError(MissingCacheKey, "cache key is required")
	}

	return &in, nil
}

func resolveCacheKey(positional, flag string) string {
	if positional != "" {
		return positional
	}
	return flag
}
