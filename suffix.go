package wheelext

import (
	"runtime"
	"strings"
)

// Binary suffixes for native extension modules.
const (
	SuffixUnix    = ".so"
	SuffixWindows = ".pyd"

	platformWindows = "windows"
)

// KnownSuffixes lists every suffix a shared artifact directory may hold.
var KnownSuffixes = []string{SuffixUnix, SuffixWindows}

// ExtensionSuffix returns the native extension suffix for the given operating
// system identifier. Windows maps to ".pyd"; every other value, including
// unrecognised ones, maps to ".so". Matching is case-insensitive so both
// GOOS values ("windows") and platform names ("Windows") resolve.
func ExtensionSuffix(goos string) string {
	if strings.EqualFold(goos, platformWindows) {
		return SuffixWindows
	}
	return SuffixUnix
}

// NativeSuffix returns the extension suffix for the running host.
func NativeSuffix() string {
	return ExtensionSuffix(runtime.GOOS)
}
