package tcdef

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// manifStack is for two reasons ->
// * detect circular deps (not an error, but we need to know to avoid them)
// * avoid infinite recursion (allow up to MaxManifestRecursionDepth levels)
//
// Returns ErrManifestEmpty if and only if the first manifest in the stack is
// empty, otherwise it is not an error.
func recursiveUnmarshalResource(path string, manifStack []string) (data topLevelDefs, err error) {
	path = filepath.Clean(path)

	fileData, loadErr := os.ReadFile(path)
	if loadErr != nil {
		return topLevelDefs{}, fmt.Errorf("%q: reading from disk: %w", path, loadErr)
	}

	fileInfo, err := ScanFileInfo(fileData)
	if err != nil {
		return topLevelDefs{}, fmt.Errorf("%q: detecting file type: %w", path, err)
	}

	if strings.ToUpper(fileInfo.Format) != FormatName {
		return topLevelDefs{}, fmt.Errorf("%q: file does not have a 'format = \"%s\"' entry", path, FormatName)
	}

	fileType := strings.ToUpper(fileInfo.Type)
	switch fileType {
	case "DEFS":
		unmarshaled, err := unmarshalDefinitions(fileData)
		if err != nil {
			return unmarshaled, fmt.Errorf("definitions file %q: %w", path, err)
		}
		unmarshaled.setFile(path)
		return unmarshaled, nil
	case "MANIFEST":
		// check the stack to be sure we havent recursed too far and to be sure
		// we aren't about to re-scan a circular-ref'd manifest file we've
		// already brought in.
		if len(manifStack) >= MaxManifestRecursionDepth {
			return topLevelDefs{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestStackOverflow)
		}
		for i := range manifStack {
			if manifStack[i] == path {
				return topLevelDefs{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestCircularRef)
			}
		}

		unmarshaledManif, err := unmarshalManifest(fileData)
		if err != nil {
			return topLevelDefs{}, fmt.Errorf("manifest file %q: %w", path, err)
		}
		manif, err := parseManifest(unmarshaledManif)
		if err != nil {
			return topLevelDefs{}, fmt.Errorf("manifest file %q: %w", path, err)
		}

		// an empty manifest is only a problem for the very first manifest.
		if len(manif.Files) < 1 && len(manifStack) == 0 {
			return topLevelDefs{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}

		unmarshaled := topLevelDefs{}

		manifSubStack := make([]string, len(manifStack)+1)
		copy(manifSubStack, manifStack)
		manifSubStack[len(manifSubStack)-1] = path

		manifDir := filepath.Dir(path)

		processedFiles := 0

		for _, manifRelPath := range manif.Files {
			includedFilePath := filepath.Join(manifDir, manifRelPath)

			included, err := recursiveUnmarshalResource(includedFilePath, manifSubStack)
			if err != nil {
				// circular references are skipped, not failed
				if errors.Is(err, ErrManifestCircularRef) {
					continue
				}

				return topLevelDefs{}, fmt.Errorf("in file referred to by manifest file:\n    %q\n%w", path, err)
			}

			unmarshaled.Commands = append(unmarshaled.Commands, included.Commands...)
			unmarshaled.Vars = append(unmarshaled.Vars, included.Vars...)
			unmarshaled.Enums = append(unmarshaled.Enums, included.Enums...)
			processedFiles++
		}

		if len(manifStack) == 0 && processedFiles == 0 {
			// first file was a manifest and it gave no definitions at all
			return unmarshaled, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}
		return unmarshaled, nil

	default:
		return topLevelDefs{}, fmt.Errorf("%q: file does not have 'type = ' entry set to either \"DEFS\" or \"MANIFEST\"", path)
	}
}

// unmarshalDefinitions unmarshals definitions from the given bytes. It does not
// parse or check them.
func unmarshalDefinitions(tomlData []byte) (topLevelDefs, error) {
	var tcd topLevelDefs
	if tomlErr := toml.Unmarshal(tomlData, &tcd); tomlErr != nil {
		return tcd, tomlErr
	}

	if strings.ToUpper(tcd.Format) != FormatName {
		return tcd, fmt.Errorf("in header: 'format' key must exist and be set to '%s'", FormatName)
	}
	if strings.ToUpper(tcd.Type) != "DEFS" {
		return tcd, fmt.Errorf("in header: 'type' must exist and be set to 'DEFS'")
	}

	return tcd, nil
}

// unmarshalManifest unmarshals a TCD manifest from the given bytes. It does not
// parse or check it.
func unmarshalManifest(tomlData []byte) (topLevelManifest, error) {
	var tcd topLevelManifest
	if tomlErr := toml.Unmarshal(tomlData, &tcd); tomlErr != nil {
		return tcd, tomlErr
	}

	if strings.ToUpper(tcd.Format) != FormatName {
		return tcd, fmt.Errorf("in header: 'format' key must exist and be set to '%s'", FormatName)
	}
	if strings.ToUpper(tcd.Type) != "MANIFEST" {
		return tcd, fmt.Errorf("in header: 'type' must exist and be set to 'MANIFEST'")
	}

	return tcd, nil
}
