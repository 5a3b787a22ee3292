//go:build !confbind

package main

import (
	"fmt"

	"github.com/sublee/confbind"
)

func main() {
	cfg := confbind.NewMap(map[string]string{
		"Values:0": "10",
		"Values:1": "20",
		"Values:2": "30",
	})

	var s Settings
	if err := BindSettings(cfg, &s, nil); err != nil {
		panic(err)
	}
	fmt.Println(s.Values)

	// Bound elements follow the existing ones.
	s = Settings{Values: []int{1}}
	if err := BindSettings(cfg, &s, nil); err != nil {
		panic(err)
	}
	fmt.Println(s.Values)

	// Indices are not positions.
	s = Settings{}
	sparse := confbind.NewMap(map[string]string{
		"Values:10": "100",
		"Values:2":  "20",
	})
	if err := BindSettings(sparse, &s, nil); err != nil {
		panic(err)
	}
	fmt.Println(s.Values)
}
