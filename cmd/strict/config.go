package main

import (
	"errors"

	"github.com/joeshaw/envdecode"
)

// replEnv carries environment defaults for the repl command. Explicit
// flags always win over environment values.
type replEnv struct {
	Classes string `env:"STRICT_CLASSES"`
	Watch   bool   `env:"STRICT_WATCH,default=false"`
}

func loadReplEnv() (replEnv, error) {
	var cfg replEnv
	err := envdecode.Decode(&cfg)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, err
	}
	return cfg, nil
}
