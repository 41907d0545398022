// Package main provides a CLI tool that generates a world content file:
// a random species roster and action pool, encoded as YAML.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kaizoquest/kaizoquest/internal/game/rng"
	"github.com/kaizoquest/kaizoquest/internal/game/world"
)

func main() {
	start := time.Now()

	outPath := flag.String("out", "content/world.yaml", "path to write the generated world file")
	flag.Parse()

	w := world.Generate(rng.NewCryptoSource())
	if err := w.Validate(); err != nil {
		log.Fatalf("generated world failed validation: %v", err)
	}

	data, err := world.Encode(w)
	if err != nil {
		log.Fatalf("encoding world: %v", err)
	}

	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		log.Fatalf("writing %s: %v", *outPath, err)
	}

	elapsed := time.Since(start)
	fmt.Fprintf(os.Stdout, "wrote %s: %d species, %d actions (padding %d) [%s]\n",
		*outPath, len(w.Species), w.Actions.Len(), w.Actions.Padding(), elapsed)
}
