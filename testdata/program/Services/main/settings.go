package main

//confbind:generate options,services
type Settings struct {
	Port int
	Name string
}
