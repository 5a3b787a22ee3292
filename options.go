package confbind

// BinderOptions controls the behavior of generated binders at runtime.
type BinderOptions struct {
	// ErrorOnUnknownConfiguration makes a binder fail with [UnknownKeyError]
	// when a bound object's section has a child key that matches none of its
	// members. It only takes effect in code generated with the strict policy.
	ErrorOnUnknownConfiguration bool
}

// NewBinderOptions copies defaults and applies configure to the copy. The
// generated entry points pass the defaults they were generated with.
func NewBinderOptions(defaults BinderOptions, configure func(*BinderOptions)) *BinderOptions {
	opts := defaults
	if configure != nil {
		configure(&opts)
	}
	return &opts
}
