package clean

import "time"

//confbind:generate bind,get,options,services
type Settings struct {
	Port    int
	Timeout time.Duration
	Servers []string
	Limits  map[string]int
	TLS     *TLS
}

type TLS struct {
	Cert string
	Key  string `confbind:"key"`
}
