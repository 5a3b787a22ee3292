package main

//confbind:generate
type Settings struct {
	Values []int
}
