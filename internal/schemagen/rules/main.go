package main

import (
	"flag"
	"log"
	"os"

	"github.com/davidfowl/tally/pkg/rules"
	"github.com/davidfowl/tally/pkg/yaml"
)

var outFile = flag.String("o", "rules.v1.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	gen := yaml.NewSchemaGenerator(&rules.File{},
		"github.com/davidfowl/tally/pkg/rules",
	)

	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	// Write rules.v1.json file.
	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
