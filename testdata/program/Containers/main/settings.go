package main

import (
	"fmt"
	"time"
)

//confbind:generate bind
type Settings struct {
	Timeout time.Duration
	Level   Level
	Limits  map[string]int
	Ports   map[int]string
	TLS     *TLS
	Backups map[string]TLS
	Peers   []*TLS
	Tags    Tags
	Retries *int
}

type TLS struct {
	Cert string
}

type Level int

func (l *Level) UnmarshalText(text []byte) error {
	switch string(text) {
	case "debug":
		*l = 1
	case "info":
		*l = 2
	default:
		return fmt.Errorf("unknown level %q", text)
	}
	return nil
}

type Tags struct {
	list []string
}

func (t *Tags) Add(tag string) {
	t.list = append(t.list, tag)
}
