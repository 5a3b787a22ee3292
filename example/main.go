//go:build !confbind

package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sublee/confbind"
	"github.com/sublee/confbind/pkg/confyaml"
)

func main() {
	path := flag.String("c", "config.yaml", "configuration file")
	flag.Parse()

	cfg, err := confyaml.Load(*path)
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	services := confbind.NewServiceCollection(cfg)
	strict := func(o *confbind.BinderOptions) { o.ErrorOnUnknownConfiguration = true }
	if err := ConfigureSettings(services, confbind.DefaultName, cfg.Section("server"), strict); err != nil {
		slog.Error("failed to configure settings", "err", err)
		os.Exit(1)
	}

	s, err := confbind.Resolve[Settings](services, confbind.DefaultName)
	if err != nil {
		slog.Error("bad configuration", "err", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Server.ReadTimeout = s.Timeout

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, s.Greeting)
	})
	for path, route := range s.Routes {
		e.GET(path, func(c echo.Context) error {
			status := route.Status
			if status == 0 {
				status = http.StatusOK
			}
			return c.String(status, route.Body)
		})
	}

	if s.TLS != nil {
		e.Logger.Fatal(e.StartTLS(s.Addr, s.TLS.Cert, s.TLS.Key))
	}
	e.Logger.Fatal(e.Start(s.Addr))
}
