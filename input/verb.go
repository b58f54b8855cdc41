package input

import (
	"strings"
)

// Verb is the HTTP method of the single request a run performs.
type Verb int

// The four verbs the service accepts.
const (
	Get Verb = iota + 1
	Post
	Put
	Delete
)

var verbNames = map[Verb]string{
	Get:    "GET",
	Post:   "POST",
	Put:    "PUT",
	Delete: "DELETE",
}

func (v Verb) String() string {
	if name, ok := verbNames[v]; ok {
		return name
	}
	return "INVALID"
}

// IsWrite reports whether the verb stores a cache value.
func (v Verb) IsWrite() bool {
	return v == Post || v == Put
}

// ParseVerb parses s case-insensitively.
func ParseVerb(s string) (Verb, error) {
	switch strings.ToUpper(s) {
	case "GET":
		return Get, nil
	case "POST":
		return Post, nil
	case "PUT":
		return Put, nil
	case "DELETE":
		return Delete, nil
	default:
		return 0, newErrorf(InvalidVerb, nil, "invalid method %q given", s)
	}
}
