package main

//confbind:generate bind
type Settings struct {
	Port int
	TLS  TLS
}

type TLS struct {
	Cert string
}
