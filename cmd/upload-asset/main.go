package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/catalog"
	"github.com/rebilt/catalogadmin/internal/cloudinary"
	"github.com/rebilt/catalogadmin/internal/config"
	"github.com/rebilt/catalogadmin/internal/domain"
	"github.com/rebilt/catalogadmin/internal/service"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run cmd/upload-asset/main.go <partner_id> <product_name> <file>")
		fmt.Println("Example: go run cmd/upload-asset/main.go 64f0c2 \"Lounge Chair\" ./red.png")
		fmt.Println("The bearer token is read from CATALOG_API_TOKEN.")
		os.Exit(1)
	}

	partnerID := os.Args[1]
	productName := os.Args[2]
	path := os.Args[3]

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

	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", path, err)
		os.Exit(1)
	}

	ctx := context.Background()
	catalogClient := catalog.NewClient(cfg.Catalog, logger)
	partner, err := catalogClient.GetPartner(ctx, token, partnerID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch partner: %v\n", err)
		os.Exit(1)
	}

	uploader := service.NewAssetUploader(cloudinary.NewClient(cfg.Cloudinary, logger), cfg.Upload, logger)
	uc := service.UploadContext{
		PartnerID:   partner.ID,
		PartnerName: partner.Name,
		PartnerTier: partner.Package,
		ProductName: productName,
	}

	fmt.Printf("Uploading %s for %s (%s package) to %s\n", filepath.Base(path), partner.Name, partner.Package, uc.Folder())

	url, err := uploader.UploadAsset(ctx, domain.AssetFile{Filename: filepath.Base(path), Content: content}, uc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Upload failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Uploaded: %s\n", url)
}
