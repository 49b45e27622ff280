package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/flowlens/flowlens/internal/compiler"
	"github.com/flowlens/flowlens/internal/ir"
)

// LoadSchemaPack loads a schema declaration from path, which may be a CUE
// package directory, a single .cue file, or a JSON/YAML field list.
func LoadSchemaPack(path string) ([]ir.SchemaField, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("schema path: %w", err)
	}

	if info.IsDir() {
		return loadSchemaDir(path)
	}

	switch filepath.Ext(path) {
	case ".cue":
		return loadSchemaCUEFile(path)
	case ".json", ".yaml", ".yml":
		return compiler.LoadSchemaListFile(path)
	default:
		return nil, fmt.Errorf("schema path %s: unsupported extension (want .cue, .json, .yaml, or a directory)", path)
	}
}

// loadSchemaDir loads a CUE package directory through the CUE build
// system, so imports and multi-file packs resolve.
func loadSchemaDir(dir string) ([]ir.SchemaField, error) {
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("schema dir %s: no CUE instances found", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("schema dir %s: %w", dir, inst.Err)
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("schema dir %s: %w", dir, err)
	}
	return compiler.CompileSchema(value)
}

func loadSchemaCUEFile(path string) ([]ir.SchemaField, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema file: %w", err)
	}

	value := cuecontext.New().CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("schema file %s: %w", path, err)
	}
	return compiler.CompileSchema(value)
}

// loadStoredVars merges --stored names with an optional --stored-file.
func loadStoredVars(names []string, file string) ([]ir.StoredVar, error) {
	var stored []ir.StoredVar
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		stored = append(stored, ir.StoredVar{Name: name})
	}

	if file != "" {
		fromFile, err := compiler.LoadStoredFile(file)
		if err != nil {
			return nil, err
		}
		for _, v := range fromFile {
			if seen[v.Name] {
				continue
			}
			seen[v.Name] = true
			stored = append(stored, v)
		}
	}
	return stored, nil
}
