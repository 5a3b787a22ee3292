//go:build !confbind

package main

import (
	"errors"
	"fmt"

	"github.com/sublee/confbind"
)

func main() {
	var s Settings

	err := BindSettings(confbind.NewMap(map[string]string{"Port": "1", "Prot": "2"}), &s, nil)
	fmt.Println(err)

	var unknown *confbind.UnknownKeyError
	fmt.Println(errors.As(err, &unknown), unknown.Key)

	nested := confbind.NewMap(map[string]string{"TLS:Cert": "c", "TLS:Key": "k"})
	fmt.Println(BindSettings(nested, &s, nil))

	err = BindSettings(nested, &s, func(o *confbind.BinderOptions) {
		o.ErrorOnUnknownConfiguration = false
	})
	fmt.Println(err, s.TLS.Cert)
}
