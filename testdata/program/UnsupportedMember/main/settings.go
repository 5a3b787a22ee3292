package main

//confbind:generate bind
type Settings struct {
	Port  int
	Hook  Hook
	Hooks []Hook
}

type Hook func()
