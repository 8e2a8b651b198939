// Package config resolves storage paths and endpoint configuration for siplog.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultListenAddr is where `siplog serve` listens unless SIPLOG_ADDR is set.
const DefaultListenAddr = ":8787"

const (
	proxyURLEnv   = "SIPLOG_PROXY_URL"
	remoteURLEnv  = "SIPLOG_REMOTE_URL"
	listenAddrEnv = "SIPLOG_ADDR"
)

// GetDataDir resolves the base directory for all siplog storage. SIPLOG_DIR
// takes precedence, then the XDG data home, then the user's home directory.
func GetDataDir() string {
	if explicit := os.Getenv("SIPLOG_DIR"); explicit != "" {
		return explicit
	}

	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "siplog")
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "siplog")
}

// GetDBPath returns the absolute path to the SQLite database file.
func GetDBPath() string {
	return filepath.Join(GetDataDir(), "siplog.db")
}

// ProxyURL returns the backup proxy endpoint the backup/restore commands talk
// to. Empty means cloud backup is unconfigured.
func ProxyURL() string {
	return os.Getenv(proxyURLEnv)
}

// RemoteURL returns the upstream blob-store endpoint the proxy forwards to.
// Empty makes the proxy answer every request with a configuration error.
func RemoteURL() string {
	return os.Getenv(remoteURLEnv)
}

// ListenAddr returns the listen address for `siplog serve`.
func ListenAddr() string {
	if addr := os.Getenv(listenAddrEnv); addr != "" {
		return addr
	}
	return DefaultListenAddr
}
