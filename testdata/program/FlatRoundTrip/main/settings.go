package main

//confbind:generate bind,get
type Settings struct {
	Port  int
	Debug bool
	Name  string
}
