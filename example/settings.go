package main

import "time"

//go:generate go run github.com/sublee/confbind/cmd/confbind -strict .

// Settings is the server configuration under the "server" section.
//
//confbind:generate bind,get,services
type Settings struct {
	Addr     string
	Greeting string
	Timeout  time.Duration
	Routes   map[string]Route
	TLS      *TLS
}

type Route struct {
	Status int
	Body   string
}

type TLS struct {
	Cert string
	Key  string
}
