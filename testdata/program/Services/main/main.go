//go:build !confbind

package main

import (
	"fmt"

	"github.com/sublee/confbind"
)

func main() {
	cfg := confbind.NewMap(map[string]string{
		"App:Port":   "1",
		"App:Name":   "a",
		"Other:Port": "2",
	})
	services := confbind.NewServiceCollection(cfg)

	if err := ConfigureSettings(services, "other", cfg.Section("Other"), nil); err != nil {
		panic(err)
	}

	builder := confbind.AddOptions[Settings](services, confbind.DefaultName)
	if err := BindSettingsConfiguration(builder, "App", nil); err != nil {
		panic(err)
	}
	builder.Configure(func(s *Settings) error {
		s.Name += "!"
		return nil
	})

	direct := confbind.AddOptions[Settings](services, "direct")
	if err := BindSettingsOptions(direct, cfg.Section("Other"), nil); err != nil {
		panic(err)
	}

	for _, name := range []string{confbind.DefaultName, "other", "direct", "missing"} {
		s, err := confbind.Resolve[Settings](services, name)
		fmt.Printf("%q %+v %v\n", name, *s, err)
	}

	fmt.Println(ConfigureSettings(services, "", nil, nil))
	fmt.Println(BindSettingsOptions(nil, cfg, nil))
}
