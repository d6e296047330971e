// Command assets uploads a built frontend directory to the asset bucket
// served by the API's static catch-all.
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/SpiderCare/internal/assets"
	"github.com/markdave123-py/SpiderCare/internal/config"
	objectclient "github.com/markdave123-py/SpiderCare/internal/core/object-client"
	"github.com/markdave123-py/SpiderCare/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	dir := flag.String("dir", cfg.StaticDir, "directory to upload")
	bucket := flag.String("bucket", cfg.AssetBucket, "target bucket")
	workers := flag.Int("workers", 4, "concurrent uploads")
	flag.Parse()

	logging.Init(cfg.Env)
	cfg.AssetBucket = *bucket

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s3c, err := objectclient.NewS3Client(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("object storage")
	}

	n, err := assets.NewPublisher(s3c, *bucket, *workers).Publish(ctx, *dir)
	if err != nil {
		log.Fatal().Err(err).Int("uploaded", n).Msg("upload failed")
	}
	log.Info().Int("uploaded", n).Str("bucket", *bucket).Msg("assets published")
}
