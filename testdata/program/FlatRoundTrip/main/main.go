//go:build !confbind

package main

import (
	"fmt"

	"github.com/sublee/confbind"
)

func main() {
	cfg := confbind.NewMap(map[string]string{
		"Port":  "1",
		"Debug": "true",
		"Name":  "x",
	})

	var s Settings
	if err := BindSettings(cfg, &s, nil); err != nil {
		panic(err)
	}
	fmt.Println(s.Port, s.Debug, s.Name)

	// Keys are case-insensitive.
	got, err := GetSettings(confbind.NewMap(map[string]string{"port": "2"}), nil)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%+v\n", *got)

	fmt.Println(BindSettings(nil, &s, nil))
}
