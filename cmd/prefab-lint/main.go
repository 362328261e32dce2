// prefab-lint checks snapshot files for structural problems without needing
// the component types that produced them: the outer map must key entities by
// decimal id, each entity must be a map from type name to a value, and the
// file must carry a recognized extension.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/plus3/prefab/prefab"
)

func main() {
	verbose := flag.Bool("v", false, "List every entity and its component types.")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("usage: prefab-lint [-v] file.prefab ...")
	}

	failed := false
	for _, path := range flag.Args() {
		if err := lint(path, *verbose); err != nil {
			log.Printf("%s: %v", path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func lint(path string, verbose bool) error {
	if !prefab.HasExtension(path) {
		return fmt.Errorf("unrecognized extension (want %s or %s)", prefab.Extension, prefab.ExtensionLong)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc map[any]map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("not an entity map: %w", err)
	}

	byId := make(map[uint32]map[string]any, len(doc))
	ids := make([]uint32, 0, len(doc))
	components := 0
	for key, entity := range doc {
		id, err := entityId(key)
		if err != nil {
			return err
		}
		byId[id] = entity
		ids = append(ids, id)
		if len(entity) == 0 {
			return fmt.Errorf("entity %d has no components", id)
		}
		components += len(entity)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fmt.Printf("%s: %d entities, %d components\n", path, len(ids), components)
	if verbose {
		for _, id := range ids {
			names := make([]string, 0, len(byId[id]))
			for name := range byId[id] {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Printf("  %d: %v\n", id, names)
		}
	}
	return nil
}

// entityId accepts the quoted and unquoted decimal key forms the codec emits
// and accepts.
func entityId(key any) (uint32, error) {
	switch k := key.(type) {
	case string:
		id, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("entity id %q: not a decimal id", k)
		}
		return uint32(id), nil
	case uint64:
		if k > math.MaxUint32 {
			return 0, fmt.Errorf("entity id %d out of range", k)
		}
		return uint32(k), nil
	default:
		return 0, fmt.Errorf("entity id %v: not a decimal id", key)
	}
}
