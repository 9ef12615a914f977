//go:build !ios && !android && (amd64 || arm64)

// Package platform knows how shared libraries are named and where they live
// on each supported operating system.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"unsafe"
)

// Is64Bit indicates whether the platform is 64-bit.
// Only 64-bit platforms are supported because tokens and handles travel as
// pointer-sized integers.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension string

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix string

func init() {
	switch runtime.GOOS {
	case "darwin":
		LibraryExtension = ".dylib"
		LibraryPrefix = "lib"
	case "windows":
		LibraryExtension = ".dll"
		LibraryPrefix = ""
	default: // linux, freebsd, etc.
		LibraryExtension = ".so"
		LibraryPrefix = "lib"
	}
}

// FormatLibraryName returns the platform-specific library filename.
// If version is 0, returns the unversioned library name.
//
// Examples:
//   - Linux:   FormatLibraryName("opentok", 2) -> "libopentok.so.2"
//   - macOS:   FormatLibraryName("opentok", 2) -> "libopentok.2.dylib"
//   - Windows: FormatLibraryName("opentok", 0) -> "opentok.dll"
func FormatLibraryName(name string, version int) string {
	switch runtime.GOOS {
	case "darwin":
		if version > 0 {
			return fmt.Sprintf("%s%s.%d%s", LibraryPrefix, name, version, LibraryExtension)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	case "windows":
		if version > 0 {
			return fmt.Sprintf("%s%s-%d%s", LibraryPrefix, name, version, LibraryExtension)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	default: // linux, freebsd
		if version > 0 {
			return fmt.Sprintf("%s%s%s.%d", LibraryPrefix, name, LibraryExtension, version)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	}
}

// SearchPaths returns directories to search for a shared library, most
// specific first. Directories listed in the environment variable named by
// envVar come before the loader's own path variables and system defaults.
func SearchPaths(envVar string) []string {
	var paths []string

	if envVar != "" {
		if dir := os.Getenv(envVar); dir != "" {
			paths = append(paths, filepath.SplitList(dir)...)
		}
	}

	switch runtime.GOOS {
	case "linux", "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/local/lib",
			"/usr/lib",
		)

	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		paths = append(paths,
			"/opt/homebrew/lib", // Apple Silicon
			"/usr/local/lib",    // Intel
		)

	case "windows":
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}
		if winPath := os.Getenv("PATH"); winPath != "" {
			paths = append(paths, filepath.SplitList(winPath)...)
		}
	}

	return paths
}

// Candidates lists every path to try when opening a library: each
// versioned name in each search directory, then the bare names for the
// system loader to resolve. Versions are tried in the order given.
func Candidates(name string, versions []int, envVar string) []string {
	var out []string
	for _, dir := range SearchPaths(envVar) {
		for _, ver := range versions {
			out = append(out, filepath.Join(dir, FormatLibraryName(name, ver)))
		}
	}
	for _, ver := range versions {
		out = append(out, FormatLibraryName(name, ver))
	}
	return out
}
