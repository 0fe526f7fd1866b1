// Package misc keeps build stamping and program identity in one place.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// These are set at link time with -X.
var (
	version = "dev"
	gitHash = "unknown"
	appName = ""
)

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns commit hash program was built from.
func GetGitHash() string {
	return gitHash
}

// GetAppName returns program name without extension.
func GetAppName() string {
	if len(appName) > 0 {
		return appName
	}
	name := filepath.Base(os.Args[0])
	return strings.TrimSuffix(name, filepath.Ext(name))
}
