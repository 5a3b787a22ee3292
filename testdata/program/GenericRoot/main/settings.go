package main

//confbind:generate
type Box[T any] struct {
	Value T
}

//confbind:generate bind,later
type Settings struct {
	Port int
}

//confbind:generate
type Alias = Settings

func main() {}
