package toolchain

import (
	"os"
	"runtime"
	"sort"
	"strings"
)

// MergeEnv applies overrides on top of base, replacing existing keys in
// place and appending new ones in sorted key order.
func MergeEnv(base []string, overrides map[string]string) []string {
	env := append([]string(nil), base...)
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = setEnv(env, k, overrides[k])
	}
	return env
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
// Windows paths are returned unchanged.
func ExpandHome(path string) string {
	if runtime.GOOS == "windows" || !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + path[1:]
}
