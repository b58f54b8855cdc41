package input

// Options holds the raw values of the request flags. Empty means not given.
type Options struct {
	Key     string
	Data    string
	JSON    string
	Expire  string
	Value   string
	Encrypt string // also --decrypt; meaning depends on the verb
	File    string
	Query   string
}

// Input is the validated request target.
type Input struct {
	Verb     Verb
	CacheKey string
	Query    string
}
