package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/dotforge/dotkit/precommit"
)

func main() {
	schemaBytes, err := precommit.GenerateSchema()
	if err != nil {
		log.Fatalf("Error generating schema: %v", err)
	}

	// The hook config schema is embedded by the precommit package itself.
	outputPath := filepath.Join("precommit", "precommit.embedded.schema.json")
	if err := os.WriteFile(outputPath, schemaBytes, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated hook config schema at %s", outputPath)
}
