package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/oshokin/httpkit/internal/config"
	"github.com/oshokin/httpkit/internal/exec"
	"github.com/oshokin/httpkit/internal/logger"
	http_transport "github.com/oshokin/httpkit/internal/transport/http"
	"github.com/oshokin/httpkit/internal/utils"
)

// ExecuteRootCommand is the entry point for the application.
// It builds the client from the configuration, runs the URLs as one sequence
// and prints a summary. The connection pool is shut down before returning.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config, urls []string) {
	factory, err := ConfigureLogging(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to configure logging: %v", err)
	}

	client, manager, err := http_transport.NewClientFromConfig(cfg, factory)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize HTTP client: %v", err)
	}

	if err = downloadWithSummary(ctx, cfg, client, manager, urls); err != nil {
		logger.Fatalf(ctx, "Request sequence failed: %v", err)
	}
}

func downloadWithSummary(
	ctx context.Context,
	cfg *config.Config,
	client exec.Doer,
	manager *http_transport.ConnectionManager,
	urls []string,
) error {
	var summary *Summary

	// Ensure the summary is printed and the pool closed even on panic.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		if closeErr := manager.Close(); closeErr != nil {
			logger.Warnf(ctx, "Failed to close connection manager: %v", closeErr)
		}

		if summary != nil {
			summary.Print(ctx)
		}
	}()

	summary, err := DownloadURLs(ctx, cfg, client, urls)

	return err
}

// DownloadURLs runs GET requests for urls in order, reporting progress through the logger.
// It stops at the first failure. The returned summary is nil only when no request could be built.
func DownloadURLs(ctx context.Context, cfg *config.Config, client exec.Doer, urls []string) (*Summary, error) {
	requests, err := buildRequests(ctx, urls)
	if err != nil {
		return nil, err
	}

	opts := []exec.TaskOption{}
	if cfg.ParsedProgressStep > 0 {
		opts = append(opts, exec.WithProgressStep(cfg.ParsedProgressStep))
	}

	task, err := exec.NewTask(client, newBodyHandler(cfg.OutputPath), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create exec task: %w", err)
	}

	observer := newProgressObserver(ctx)
	startTime := time.Now()

	results, err := task.Run(ctx, observer, requests...)

	observer.Close()

	return newSummary(len(urls), results, err, time.Since(startTime)), err
}

func buildRequests(ctx context.Context, urls []string) ([]*http.Request, error) {
	requests := make([]*http.Request, 0, len(urls))

	for _, rawURL := range urls {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
		}

		if req.URL.Scheme == "" || req.URL.Host == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
		}

		requests = append(requests, req)
	}

	return requests, nil
}

// ResolveURLs combines the URLs given as arguments with those listed in inputFile,
// one per line, keeping the first occurrence of each.
func ResolveURLs(args []string, inputFile string) ([]string, error) {
	urls := make([]string, 0, len(args))
	urls = append(urls, args...)

	if inputFile != "" {
		lines, err := utils.ReadUniqueLinesFromFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read URLs from %s: %w", inputFile, err)
		}

		urls = append(urls, lines...)
	}

	seen := make(map[string]struct{}, len(urls))
	unique := urls[:0]

	for _, rawURL := range urls {
		if _, ok := seen[rawURL]; ok {
			continue
		}

		seen[rawURL] = struct{}{}
		unique = append(unique, rawURL)
	}

	if len(unique) == 0 {
		return nil, ErrNoURLs
	}

	return unique, nil
}
