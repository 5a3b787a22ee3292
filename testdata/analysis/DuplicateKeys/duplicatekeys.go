package duplicatekeys

//confbind:generate
type Settings struct {
	A int `confbind:"x"`
	B int `confbind:"X"` // want `duplicate configuration key "X" in Settings`
	C int `confbind:"-"`
	D int `confbind:"-"`
}

type A struct{ Region string }

type B struct{ Region string }

//confbind:generate
type Embedded struct { // want `duplicate configuration key "Region" in Embedded: A.Region and B.Region`
	A
	B
}
