// cmd/catalogcheck validates a directory of catalog namespace definitions
// without starting the server.
//
// It loads every .cue and .json file the way the server does at startup,
// then checks the parts the loader treats as opaque: action skills are
// named, integration reads point at a declared integration, and every
// args_schema compiles as JSON Schema.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/glasspane/glasspane/internal/catalog"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("catalogcheck: ")

	dir := flag.String("dir", "catalogs", "directory of catalog definition files")
	flag.Parse()

	reg := catalog.NewRegistry()
	loaded, err := catalog.LoadDir(reg, *dir)
	if err != nil {
		log.Fatalf("loading %s: %v", *dir, err)
	}

	problems := 0
	for _, name := range loaded {
		ns := reg.Get(name)
		fmt.Printf("%s: %d read(s), %d action(s), %d integration(s)\n",
			name, len(ns.Reads), len(ns.Actions), len(ns.Integrations))

		for key, def := range ns.Reads {
			if def.Source == catalog.SourceIntegration {
				if _, ok := ns.Integrations[def.Endpoint]; def.Endpoint != "" && !ok {
					fmt.Printf("  read %s: integration %q not declared in namespace\n", key, def.Endpoint)
					problems++
				}
			}
			if def.Source == catalog.SourceSkill && def.Skill == "" {
				fmt.Printf("  read %s: source is skill but no skill named\n", key)
				problems++
			}
		}
		for key, def := range ns.Actions {
			if def.Skill == "" {
				fmt.Printf("  action %s: no skill named\n", key)
				problems++
			}
			if len(def.ArgsSchema) > 0 {
				if _, err := jsonschema.CompileString(key, string(def.ArgsSchema)); err != nil {
					fmt.Printf("  action %s: args_schema does not compile: %v\n", key, err)
					problems++
				}
			}
		}
	}

	if problems > 0 {
		fmt.Printf("%d problem(s) found\n", problems)
		os.Exit(1)
	}
	fmt.Printf("%d namespace(s) ok\n", len(loaded))
}
