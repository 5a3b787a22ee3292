//go:build !confbind

package main

import (
	"fmt"

	"github.com/sublee/confbind"
)

func main() {
	cfg := confbind.NewMap(map[string]string{
		"Timeout":           "1m30s",
		"Level":             "debug",
		"Limits:rps":        "100",
		"Limits:burst":      "10",
		"Ports:80":          "http",
		"Ports:443":         "https",
		"TLS:Cert":          "a.pem",
		"Backups:east:Cert": "b.pem",
		"Peers:0:Cert":      "c.pem",
		"Peers:1:Cert":      "d.pem",
		"Tags:0":            "x",
		"Tags:1":            "y",
		"Retries":           "3",
	})

	var s Settings
	if err := BindSettings(cfg, &s, nil); err != nil {
		panic(err)
	}
	fmt.Println(s.Timeout, s.Level)
	fmt.Println(s.Limits, s.Ports)
	fmt.Println(s.TLS.Cert, s.Backups["east"].Cert, len(s.Peers), s.Peers[0].Cert, s.Peers[1].Cert)
	fmt.Println(s.Tags.list, *s.Retries)

	// Existing pointers are updated in place.
	tls, retries := s.TLS, s.Retries
	err := BindSettings(confbind.NewMap(map[string]string{"TLS:Cert": "e.pem", "Retries": "4"}), &s, nil)
	fmt.Println(err, tls == s.TLS, tls.Cert, retries == s.Retries, *retries)

	fmt.Println(BindSettings(confbind.NewMap(map[string]string{"Level": "loud"}), &s, nil))
	fmt.Println(BindSettings(confbind.NewMap(map[string]string{"Ports:x": "http"}), &s, nil))
}
