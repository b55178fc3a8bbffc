package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
)

// ErrUnavailable is returned when a tool has no executable for the platform.
var ErrUnavailable = errors.New("executable unavailable")

// Tool names an external executable.
type Tool string

const (
	MSMS     Tool = "msms"
	AOEmbree Tool = "AOEmbree"
)

// Executable is a resolved external executable.
type Executable struct {
	Path string

	// LibraryPathVar, when set, names the environment variable that must
	// point to the executable's directory for its shared libraries to load.
	LibraryPathVar string
}

// Dir returns the directory containing the executable.
func (e Executable) Dir() string {
	return filepath.Dir(e.Path)
}

type platformBinary struct {
	rel    string
	libVar string
}

// binaries maps tool and GOOS to the bundled binary, relative to the bin dir.
var binaries = map[Tool]map[string]platformBinary{
	MSMS: {
		"linux":   {rel: "MSMS_binaries/Linux/msms"},
		"darwin":  {rel: "MSMS_binaries/OSX/msms"},
		"windows": {rel: "MSMS_binaries/Windows/msms.exe"},
	},
	AOEmbree: {
		"linux":   {rel: "AO_binaries/Linux64/AOEmbree", libVar: "LD_LIBRARY_PATH"},
		"windows": {rel: "AO_binaries/Windows/AOEmbree.exe"},
	},
}

// Locator resolves tools to executables for one platform.
type Locator struct {
	BinDir string
	GOOS   string

	// Overrides maps a tool to an explicit path, bypassing the platform table.
	Overrides map[Tool]string
}

// NewLocator returns a locator for the running platform.
func NewLocator(binDir string) *Locator {
	return &Locator{BinDir: binDir, GOOS: runtime.GOOS, Overrides: make(map[Tool]string)}
}

// Lookup returns the executable for tool, or ErrUnavailable if the platform
// has none or the file is missing.
func (l *Locator) Lookup(tool Tool) (Executable, error) {
	var exe Executable
	if p, ok := l.Overrides[tool]; ok {
		exe.Path = p
		if b, ok := binaries[tool][l.GOOS]; ok {
			exe.LibraryPathVar = b.libVar
		}
	} else {
		b, ok := binaries[tool][l.GOOS]
		if !ok {
			return exe, errors.Wrapf(ErrUnavailable, "%s on %s", tool, l.GOOS)
		}
		exe.Path = filepath.Join(l.BinDir, b.rel)
		exe.LibraryPathVar = b.libVar
	}

	abs, err := filepath.Abs(exe.Path)
	if err != nil {
		return exe, err
	}
	exe.Path = abs

	if _, err := os.Stat(exe.Path); os.IsNotExist(err) {
		return exe, errors.Wrapf(ErrUnavailable, "%s: %s not found", tool, exe.Path)
	}
	return exe, nil
}
