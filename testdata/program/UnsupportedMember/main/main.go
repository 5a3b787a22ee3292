//go:build !confbind

package main

import (
	"errors"
	"fmt"

	"github.com/sublee/confbind"
)

func main() {
	var s Settings

	// Unbindable members are fine as long as the configuration leaves them.
	err := BindSettings(confbind.NewMap(map[string]string{"Port": "1"}), &s, nil)
	fmt.Println(err, s.Port)

	err = BindSettings(confbind.NewMap(map[string]string{"Hook": "x"}), &s, nil)
	fmt.Println(err)

	var initErr *confbind.InitError
	fmt.Println(errors.As(err, &initErr), initErr.Type, initErr.Path)

	err = BindSettings(confbind.NewMap(map[string]string{"Hooks:0": "x"}), &s, nil)
	fmt.Println(err)
}
