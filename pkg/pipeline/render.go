package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/btg/pkg/cache"
	"github.com/matzehuels/btg/pkg/errors"
	"github.com/matzehuels/btg/pkg/graph"
	"github.com/matzehuels/btg/pkg/observability"
	"github.com/matzehuels/btg/pkg/render/nodelink"
)

// renderInto writes the DOT file, then renders and writes each artifact.
func (r *Runner) renderInto(ctx context.Context, result *Result, opts Options) error {
	comment := opts.Comment
	if comment != "" {
		comment = fmt.Sprintf("%s run %s", comment, result.RunID)
	}
	result.DOT = nodelink.ToDOT(result.Description, nodelink.Options{Comment: comment})
	result.Artifacts = make(map[string][]byte)
	result.CacheHits = make(map[string]bool)

	if opts.Output != "" {
		if err := writeFile(opts.Output, []byte(result.DOT)); err != nil {
			return err
		}
		result.Files = append(result.Files, opts.Output)
		r.hooks().OnFileWritten(ctx, opts.Output, "dot", false)
	}

	formats := opts.RenderFormats()
	h := r.hooks()
	h.OnRenderStart(ctx, formats)
	start := time.Now()
	err := r.renderFormats(ctx, result, formats, opts)
	result.Stats.RenderTime = time.Since(start)
	h.OnRenderComplete(ctx, formats, result.Stats.RenderTime, err)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if len(formats) > 0 {
		opts.Logger.Info("rendered outputs",
			"formats", formats,
			"duration", result.Stats.RenderTime)
	}
	return nil
}

func (r *Runner) renderFormats(ctx context.Context, result *Result, formats []string, opts Options) error {
	descJSON, err := graph.Marshal(result.Description)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal description")
	}
	descHash := cache.Hash(descJSON)

	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return err
		}

		var data []byte
		var hit bool
		if format == FormatJSON {
			data = descJSON
		} else {
			data, hit, err = r.renderArtifact(ctx, opts.Logger, result.DOT, descHash, format)
			if err != nil {
				return err
			}
		}
		result.Artifacts[format] = data
		result.CacheHits[format] = hit

		if opts.Output == "" {
			continue
		}
		path := opts.ArtifactPath(format)
		if format == FormatJSON {
			err = graph.WriteFile(result.Description, path)
		} else {
			err = writeFile(path, data)
			if err == nil && result.Viewable == "" {
				result.Viewable = path
			}
		}
		if err != nil {
			return err
		}
		result.Files = append(result.Files, path)
		r.hooks().OnFileWritten(ctx, path, format, hit)
	}
	return nil
}

// renderArtifact renders one format, consulting the cache first.
func (r *Runner) renderArtifact(ctx context.Context, logger *log.Logger, dot, descHash, format string) ([]byte, bool, error) {
	key := cache.ArtifactKey(descHash, format)
	if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
		logger.Debug("artifact cache hit", "format", format)
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, true, nil
	} else if err != nil {
		logger.Debug("artifact cache read failed", "format", format, "err", err)
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	render := r.render
	if render == nil {
		render = nodelink.Render
	}
	logger.Debug("rendering", "format", format)
	data, err := render(ctx, dot, format)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, cache.DefaultArtifactTTL); err != nil {
		logger.Warn("failed to cache artifact", "format", format, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWrite, err, "write %s", path)
	}
	return nil
}
