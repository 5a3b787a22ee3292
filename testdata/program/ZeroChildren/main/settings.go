package main

//confbind:generate bind,get
type Settings struct {
	Port int
	TLS  *TLS
}

type TLS struct {
	Cert string
}
