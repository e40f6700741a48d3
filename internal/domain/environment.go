package domain

import "strings"

type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

func ParseEnvironment(s string) (Environment, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev", "development", "local":
		return EnvDevelopment, true
	case "prod", "production":
		return EnvProduction, true
	}
	return EnvDevelopment, false
}
