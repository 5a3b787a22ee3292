package main

//confbind:generate bind
//confbind:generate get
type Settings struct {
	Name string
	Base
	Limits Limits
}

type Base struct {
	Region string
	Port   int `confbind:"port_number"`
}

// Limits has an Add method but is bound by its members.
type Limits struct {
	Max   int
	total int
}

func (l *Limits) Add(n int) { l.total += n }
