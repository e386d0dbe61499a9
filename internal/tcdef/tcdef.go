// Package tcdef has functions for loading console definitions using the TCD
// (TunaCon Definitions) file format, a TOML-based format that declares the
// commands, variables, and enumerations a console starts with.
package tcdef

import (
	"errors"
	"os"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/tunacon/dynamic"
)

// MaxManifestRecursionDepth is the deepest that manifests may include other
// manifests.
const MaxManifestRecursionDepth = 32

// FormatName is the value that the 'format' key of every TCD file must have.
const FormatName = "TCD"

var (
	// ErrManifestEmpty is the error returned when a manifest file is read
	// successfully but specifies no additional files to load.
	ErrManifestEmpty = errors.New("does not list any valid files to include")

	// ErrManifestStackOverflow is the error returned when the recusion level of
	// MaxManifestRecursionDepth is reached and an additional Manifest is then
	// specified, which would cause recursion to go deeper.
	ErrManifestStackOverflow = errors.New("too many manifests deep")

	// ErrManifestCircularRef is the error returned when a manifest specifies any
	// series of files that with their own manifests refer back to the original
	// manifest, and therefore cannot be followed.
	ErrManifestCircularRef = errors.New("manifest inclusion chain refers back to itself")
)

// Manifest contains data loaded from a TCD Manifest file.
type Manifest struct {
	Files []string
}

// CommandDef is a command declared in a definitions file.
type CommandDef struct {
	// Name is the name of the command, taken from its compiled scheme.
	Name string

	// Scheme is the scheme the command is compiled from.
	Scheme string

	// Action is the name of the built-in action the command runs.
	Action string

	// Help is a description of what the command does.
	Help string

	// File is the path of the file that declared the command.
	File string
}

// VarDef is a variable declared in a definitions file.
type VarDef struct {
	Name  string
	Value dynamic.Value
}

// EnumDef is a named enumeration declared in a definitions file.
type EnumDef struct {
	Name   string
	Values []string
}

// Definitions contains data loaded from one or more TCD definition files.
type Definitions struct {
	// Commands is every command in declaration order.
	Commands []CommandDef

	// Vars is every variable in declaration order.
	Vars []VarDef

	// Enums is every named enumeration in declaration order.
	Enums []EnumDef
}

// FileInfo contains the essential information all TCD format files must
// contain. It can be obtained from a file by reading it into memory and calling
// ScanFileInfo on the bytes.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// LoadDefinitions loads console definitions from the given TCD file. The
// file's type is auto-detected; it can either be "DEFS" type or "MANIFEST"
// type. If it's manifest type, the files listed in it relative to it are also
// loaded, recursively. All files included are combined into one single set of
// definitions before being checked.
func LoadDefinitions(path string) (Definitions, error) {
	unmarshaled, err := recursiveUnmarshalResource(path, nil)
	if err != nil {
		return Definitions{}, err
	}

	return parseDefinitions(unmarshaled)
}

// LoadManifestFile loads manifest data from a TCD file.
func LoadManifestFile(path string) (manif Manifest, err error) {
	manifestData, loadErr := os.ReadFile(path)
	if loadErr != nil {
		return manif, loadErr
	}

	unmarshaled, err := unmarshalManifest(manifestData)
	if err != nil {
		return manif, err
	}
	return parseManifest(unmarshaled)
}

// ParseDefinitions parses definitions from the bytes of a single DEFS type
// file. path is only used to label where commands came from.
func ParseDefinitions(data []byte, path string) (Definitions, error) {
	unmarshaled, err := unmarshalDefinitions(data)
	if err != nil {
		return Definitions{}, err
	}
	unmarshaled.setFile(path)

	return parseDefinitions(unmarshaled)
}

// ScanFileInfo takes the given data bytes of bytes and attempts to read the TCD
// format common header info from it. The bytes are read up to the first
// instance of a table definition header and those bytes are parsed for the
// info. If there is an error reading the info, returns a non-nil error.
func ScanFileInfo(data []byte) (FileInfo, error) {
	// only run the toml parser up to the end of the top-lev table
	var topLevelEnd int = -1
	onNewLine := true
	for b := range data {
		if onNewLine {
			if data[b] == '[' {
				topLevelEnd = b
				break
			}
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}
