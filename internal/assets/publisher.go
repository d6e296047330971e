package assets

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/SpiderCare/internal/mimetype"
)

// Uploader is the slice of object storage the publisher needs.
type Uploader interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (string, error)
}

// Publisher mirrors a local build directory into the asset bucket with a
// bounded queue drained by a fixed set of workers.
type Publisher struct {
	up      Uploader
	bucket  string
	workers int
}

func NewPublisher(up Uploader, bucket string, workers int) *Publisher {
	if workers < 1 {
		workers = 1
	}
	return &Publisher{up: up, bucket: bucket, workers: workers}
}

type job struct {
	path string
	key  string
}

// Publish uploads every regular file under dir keyed by its slash-separated
// relative path. The first failure cancels the remaining uploads.
func (p *Publisher) Publish(ctx context.Context, dir string) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan job, 64)
	var uploaded atomic.Int64

	g.Go(func() error {
		defer close(jobs)
		return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			select {
			case jobs <- job{path: path, key: filepath.ToSlash(rel)}:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	for w := 1; w <= p.workers; w++ {
		g.Go(func() error {
			for j := range jobs {
				if err := p.uploadOne(gctx, j); err != nil {
					return err
				}
				uploaded.Add(1)
			}
			return nil
		})
	}

	err := g.Wait()
	return int(uploaded.Load()), err
}

func (p *Publisher) uploadOne(ctx context.Context, j job) error {
	f, err := os.Open(j.path)
	if err != nil {
		return err
	}
	defer f.Close()

	url, err := p.up.UploadFile(ctx, p.bucket, j.key, f, mimetype.ForName(j.key))
	if err != nil {
		return fmt.Errorf("upload %s: %w", j.key, err)
	}
	log.Debug().Str("key", j.key).Str("url", url).Msg("asset uploaded")
	return nil
}
