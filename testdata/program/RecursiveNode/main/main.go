//go:build !confbind

package main

import (
	"fmt"

	"github.com/sublee/confbind"
)

func main() {
	cfg := confbind.NewMap(map[string]string{
		"Name":                       "a",
		"Children:0:Name":            "b",
		"Children:0:Children:0:Name": "c",
		"Next:Name":                  "d",
	})

	n, err := GetNode(cfg, nil)
	if err != nil {
		panic(err)
	}
	fmt.Println(n.Name, n.Children[0].Name, n.Children[0].Children[0].Name, n.Next.Name, n.Next.Next == nil)
}
