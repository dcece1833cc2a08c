package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/catalog"
	"github.com/rebilt/catalogadmin/internal/config"
	"github.com/rebilt/catalogadmin/internal/domain"
	"github.com/rebilt/catalogadmin/internal/service"
)

func main() {
	if len(os.Args) < 2 || (os.Args[1] == "--name" && len(os.Args) < 3) {
		fmt.Println("Usage: go run cmd/list-partner-options/main.go <partner_id>")
		fmt.Println("       go run cmd/list-partner-options/main.go --name <partner_name>")
		fmt.Println("The bearer token is read from CATALOG_API_TOKEN.")
		os.Exit(1)
	}

	token := os.Getenv("CATALOG_API_TOKEN")
	if token == "" {
		fmt.Fprintln(os.Stderr, "CATALOG_API_TOKEN is required")
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx := context.Background()
	svc := service.NewCatalogService(catalog.NewClient(cfg.Catalog, logger), logger)

	var partner *domain.Partner
	if os.Args[1] == "--name" {
		partner, err = svc.FindPartnerByName(ctx, token, os.Args[2])
	} else {
		partner, err = svc.GetPartner(ctx, token, os.Args[1])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch partner: %v\n", err)
		os.Exit(1)
	}
	partnerID := partner.ID
	fmt.Printf("Partner: %s (%s package)\n\n", partner.Name, partner.Package)

	tree, err := svc.ConfigurationTree(ctx, token, partnerID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch configurations: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Configurations (%d):\n", len(tree))
	for _, entry := range tree {
		name := entry.Details.Name
		if name == "" {
			name = entry.Configuration.ID
		}
		fmt.Printf("  %s [%s]\n", name, entry.Configuration.FieldType)
		for _, opt := range entry.Configuration.Options {
			fmt.Printf("    - %s  %s\n", opt.ID, opt.Name)
		}
	}

	used, warnings, err := svc.UsedOptions(ctx, token, partnerID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to collect used options: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nOptions used by products (%d):\n", len(used))
	for _, opt := range used {
		fmt.Printf("  %s  %s  (%d images)\n", opt.OptionID, opt.Name, len(opt.Images))
	}
	for _, w := range warnings {
		fmt.Printf("  ⚠️  %s: %s\n", w.OptionID, w.Message)
	}
}
