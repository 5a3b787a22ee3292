//go:build !confbind

package main

import (
	"fmt"

	"github.com/sublee/confbind"
)

func main() {
	cfg := confbind.NewMap(map[string]string{
		"Name":        "app",
		"Region":      "eu",
		"port_number": "8080",
		"Limits:Max":  "3",
	})

	var s Settings
	if err := BindSettings(cfg, &s, nil); err != nil {
		panic(err)
	}
	fmt.Println(s.Name, s.Region, s.Port, s.Limits.Max)

	got, err := GetSettings(cfg, nil)
	fmt.Println(got.Region, got.Base.Port, err)

	fmt.Println(BindSettings(confbind.NewMap(map[string]string{"Base:Region": "x"}), &s, nil))
}
