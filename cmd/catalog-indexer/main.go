package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/giftwise/giftwise-backend/internal/app"
)

// catalog-indexer imports a YAML gift catalog into the database and pushes
// embeddings into the vector index. Run it after editing the catalog file:
//
//	catalog-indexer -file catalog.yaml
//	catalog-indexer -index-only
func main() {
	var (
		file      = flag.String("file", "", "path to a catalog YAML file to import before indexing")
		indexOnly = flag.Bool("index-only", false, "skip the import and re-embed what is already stored")
	)
	flag.Parse()

	if *file == "" && !*indexOnly {
		fmt.Println("nothing to do: pass -file or -index-only")
		os.Exit(2)
	}

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx := context.Background()

	if *file != "" {
		imported, err := a.Services.Catalog.ImportYAML(ctx, *file)
		if err != nil {
			a.Log.Error("Catalog import failed", "error", err)
			os.Exit(1)
		}
		a.Log.Info("Catalog imported", "gifts", imported)
	}

	indexed, err := a.Services.Catalog.IndexAll(ctx)
	if err != nil {
		a.Log.Error("Catalog indexing failed", "error", err)
		os.Exit(1)
	}
	a.Log.Info("Catalog indexed", "gifts", indexed)
}
