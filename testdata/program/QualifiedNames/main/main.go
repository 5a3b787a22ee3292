//go:build !confbind

package main

import (
	"fmt"

	"github.com/sublee/confbind"
)

func main() {
	cfg := confbind.NewMap(map[string]string{
		"Name":          "n",
		"Options:Debug": "true",
	})

	s, err := GetSection(cfg, nil)
	fmt.Println(s.Name, s.Options.Debug, err, opts, section)
}
