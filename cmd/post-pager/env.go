package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	// EnvironmentVariablePrefix prefixes the env variable behind each flag.
	EnvironmentVariablePrefix = "POSTS_"

	// DefaultEnvFile is loaded into the environment when present.
	DefaultEnvFile = ".env"
)

// LoadEnvFile loads path into the environment. A missing file is not an error;
// variables already set take precedence.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// SetFlagsFromEnvVariables sets each flag from its env variable, e.g.
// --page-size from POSTS_PAGE_SIZE. Command line arguments parsed afterwards win.
func SetFlagsFromEnvVariables(fs *pflag.FlagSet) error {
	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		envVar := flagToEnvVarName(f)
		if val, present := os.LookupEnv(envVar); present {
			if err := fs.Set(f.Name, val); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", envVar, err))
			}
		}
	})
	return errors.Join(errs...)
}

func flagToEnvVarName(f *pflag.Flag) string {
	return fmt.Sprintf("%s%s", EnvironmentVariablePrefix, strings.ReplaceAll(strings.ToUpper(f.Name), "-", "_"))
}
