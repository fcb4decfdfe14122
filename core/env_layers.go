package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Env file directories, relative to the working directory and the home directory.
const (
	BaoyuEnvDir  = ".baoyu-skills"
	ShuliuEnvDir = ".shuliu-skills"
)

// EnvLayers holds the values read from the working-directory and home-directory
// .env files. Lookups resolve in the order: process environment, working
// directory file, home directory file. Empty values count as unset at every layer.
type EnvLayers struct {
	CwdPath  string
	HomePath string
	Cwd      map[string]string
	Home     map[string]string
}

// LoadEnvLayers reads <cwd>/<dir>/.env and ~/<dir>/.env. Missing files yield
// empty layers; unreadable or malformed files are reported.
func LoadEnvLayers(dir string) (*EnvLayers, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// No home directory: only the working-directory file applies.
		home = ""
	}
	return LoadEnvLayersFrom(cwd, home, dir)
}

// LoadEnvLayersFrom is LoadEnvLayers with explicit base directories.
func LoadEnvLayersFrom(cwd, home, dir string) (*EnvLayers, error) {
	layers := &EnvLayers{}

	if cwd != "" {
		layers.CwdPath = filepath.Join(cwd, dir, ".env")
		values, err := readEnvFile(layers.CwdPath)
		if err != nil {
			return nil, err
		}
		layers.Cwd = values
	}

	if home != "" {
		layers.HomePath = filepath.Join(home, dir, ".env")
		values, err := readEnvFile(layers.HomePath)
		if err != nil {
			return nil, err
		}
		layers.Home = values
	}

	return layers, nil
}

// Lookuper returns an envconfig.Lookuper over the process environment and both files.
func (l *EnvLayers) Lookuper() envconfig.Lookuper {
	if l == nil {
		return presentEnvLookuper{}
	}
	return envconfig.MultiLookuper(
		presentEnvLookuper{},
		envconfig.MapLookuper(l.Cwd),
		envconfig.MapLookuper(l.Home),
	)
}

// Lookup resolves a single key through the layers.
func (l *EnvLayers) Lookup(key string) (string, bool) {
	return l.Lookuper().Lookup(key)
}

// readEnvFile parses a dotenv file, dropping empty values.
func readEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, &ConfigError{
			Code:    ErrCodeInvalidConfig,
			Message: fmt.Sprintf("Cannot read env file %s: %v", path, err),
			Action:  "Fix or remove the file",
		}
	}

	for key, value := range values {
		if value == "" {
			delete(values, key)
		}
	}
	return values, nil
}

// presentEnvLookuper reads the process environment, treating empty variables as unset.
type presentEnvLookuper struct{}

func (presentEnvLookuper) Lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
