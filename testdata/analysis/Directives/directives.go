package directives

//confbind:generate
type Box[T any] struct{ V T } // want `cannot generate binders for generic type Box`

//confbind:generate bind,nope
type Settings struct{ Port int } // want `unknown entry point "nope"`

//confbind:generate bind,get
type Fine struct{ Port int }

//confbind:generate
type Alias = Fine // want `Alias is not a defined type`

// confbind:generate is not a directive with the space.
type Ignored struct{ Hook func() }
