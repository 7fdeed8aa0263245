package shell

import (
	"log"
	"os"
	"path/filepath"
)

// configRoot resolves the scheme handler's file root
// $XDG_CONFIG_HOME/<scheme>/, falling back to $HOME/.config/<scheme>/, with
// HOME taken as "." when it is unset (§4.6/§6.3; no TOML file is read or
// written here, and the directory is not created).
func configRoot(scheme string) string {
	return filepath.Join(xdgOrFallback("XDG_CONFIG_HOME", filepath.Join(homeOrFallback(), ".config")), scheme)
}

func homeOrFallback() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	return "."
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func xdgOrFallback(xdg string, fallback string) string {
	dir := os.Getenv(xdg)
	if dir != "" {
		if ok, err := exists(dir); ok && err == nil {
			log.Printf("shell: resolved $%s to %q", xdg, dir)
			return dir
		}
	}
	log.Printf("shell: couldn't resolve $%s, falling back to %q", xdg, fallback)
	return fallback
}
