package main

// Section collides with the runtime, so the generated code cannot dot-import
// it.
//
//confbind:generate bind,get
type Section struct {
	Name    string
	Options Options
}

type Options struct {
	Debug bool
}

var (
	opts    = 1
	section = "section"
)
