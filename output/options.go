package output

type Options struct {
	PrintRequest bool
	EnableColor  bool
}
