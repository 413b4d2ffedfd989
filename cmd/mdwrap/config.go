package main

import (
	"fmt"

	"github.com/jallum/mdwrap/internal/config"
)

func cmdConfig(a Args, w Writer) error {
	cfg, err := resolveConfig(a)
	if err != nil {
		return err
	}
	if a.JSON() {
		fprintJSON(w, cfg)
		return nil
	}
	for _, k := range config.Keys {
		v, _ := cfg.Value(k)
		fmt.Fprintf(w, "%s=%s %s\n", k, v, w.Style("("+string(cfg.Sources[k])+")", Dim))
	}
	return nil
}
