//go:build !confbind

package main

import (
	"fmt"

	"github.com/sublee/confbind"
)

func main() {
	empty := confbind.NewMap(nil)

	s := Settings{Port: 7}
	err := BindSettings(empty, &s, nil)
	fmt.Println(err, s.Port, s.TLS == nil)

	got, err := GetSettings(empty, nil)
	fmt.Println(got == nil, err)

	err = BindSettings(confbind.NewMap(map[string]string{"Port": "8"}), &s, nil)
	fmt.Println(err, s.Port, s.TLS == nil)
}
