package main

import (
	"flag"
	"log"
	"os"

	"github.com/davidfowl/tally/pkg/settings"
	"github.com/davidfowl/tally/pkg/yaml"
)

var outFile = flag.String("o", "settings.v1.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	gen := yaml.NewSchemaGenerator(settings.New(),
		"github.com/davidfowl/tally/pkg/settings",
	)

	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	// Write settings.v1.json file.
	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
