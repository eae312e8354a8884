package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"findings.ee105.org/internal/logging"
)

// Decoder turns raw CSV bytes into a ready-to-use value.
type Decoder[T any] func(io.Reader) (T, error)

// SourceConfig describes where a Source reads from and how long results stay cached.
type SourceConfig struct {
	// Location is an http(s) URL or a local file path.
	Location string
	// CacheTTL is how long a loaded value is served before reloading; zero keeps it forever.
	CacheTTL time.Duration
	// RefreshInterval reloads a URL source in the background; zero disables it.
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	Client          *http.Client
	Logger          *slog.Logger
}

// Source loads a dataset once and serves the cached value until it expires or a caller
// bypasses the cache. Concurrent loads share a single fetch.
type Source[T any] struct {
	config      SourceConfig
	isLocalFile bool
	decode      Decoder[T]
	logger      *slog.Logger
	now         func() time.Time

	mu          sync.RWMutex
	value       T
	loaded      bool
	lastUpdated time.Time

	group        singleflight.Group
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	startOnce    sync.Once
	shutdownOnce sync.Once
}

// NewSource creates a Source; nothing is fetched until Load or Start is called.
func NewSource[T any](config SourceConfig, decode Decoder[T]) *Source[T] {
	if config.Client == nil {
		config.Client = http.DefaultClient
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = 60 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Source[T]{
		config:       config,
		isLocalFile:  IsLocalFile(config.Location),
		decode:       decode,
		logger:       logger.With(slog.String("component", "dataset_source")),
		now:          time.Now,
		shutdownChan: make(chan struct{}),
	}
}

// IsLocalFile reports whether location is a file path rather than an http(s) URL.
func IsLocalFile(location string) bool {
	return !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://")
}

// Location returns the configured URL or path.
func (s *Source[T]) Location() string {
	return s.config.Location
}

// LastUpdated returns when the cached value was loaded, or the zero time.
func (s *Source[T]) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// Load returns the cached value, fetching it when there is none, when it has expired
// or when bypass is set. A failed reload of an expired value serves the stale value.
func (s *Source[T]) Load(ctx context.Context, bypass bool) (T, error) {
	s.mu.RLock()
	value, loaded, fresh := s.value, s.loaded, s.freshLocked()
	s.mu.RUnlock()

	if loaded && fresh && !bypass {
		return value, nil
	}

	v, err, _ := s.group.Do("load", func() (any, error) {
		return s.reload(ctx)
	})
	if err != nil {
		if loaded && !bypass {
			logging.LogError(s.logger, "serving stale dataset after failed reload", err,
				slog.String("location", s.config.Location))
			return value, nil
		}
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (s *Source[T]) freshLocked() bool {
	if s.config.CacheTTL <= 0 {
		return true
	}
	return s.now().Sub(s.lastUpdated) < s.config.CacheTTL
}

func (s *Source[T]) reload(ctx context.Context) (_ T, err error) {
	// The fetch is shared by every waiting caller, so it must not die with the first one.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.FetchTimeout)
	defer cancel()

	start := s.now()
	body, err := s.open(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	defer logging.HandleDeferredError(&err, body.Close, s.logger, "close_dataset_body")

	value, err := s.decode(body)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("decode %s: %w", s.config.Location, err)
	}

	s.mu.Lock()
	s.value = value
	s.loaded = true
	s.lastUpdated = s.now()
	s.mu.Unlock()

	logging.LogOperation(s.logger, "dataset_loaded",
		slog.String("location", s.config.Location),
		slog.Bool("local_file", s.isLocalFile),
		slog.Duration("duration", s.now().Sub(start)))
	return value, nil
}

func (s *Source[T]) open(ctx context.Context) (io.ReadCloser, error) {
	if s.isLocalFile {
		f, err := os.Open(s.config.Location)
		if err != nil {
			return nil, fmt.Errorf("error reading local dataset: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.Location, nil)
	if err != nil {
		return nil, fmt.Errorf("error building dataset request: %w", err)
	}
	resp, err := s.config.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading dataset: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		logging.SafeCloseWithLogging(resp.Body, s.logger, "close_dataset_body")
		return nil, fmt.Errorf("error downloading dataset: unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// Start launches the background refresh when a refresh interval is configured and the
// source is a URL. It is safe to call more than once.
func (s *Source[T]) Start() {
	if s.config.RefreshInterval <= 0 || s.isLocalFile {
		return
	}
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.refreshPeriodically()
	})
}

func (s *Source[T]) refreshPeriodically() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Load(context.Background(), true); err != nil {
				logging.LogError(s.logger, "periodic dataset refresh failed", err,
					slog.String("location", s.config.Location))
			}
		case <-s.shutdownChan:
			s.logger.Info("stopping dataset refresh")
			return
		}
	}
}

// Shutdown stops the background refresh and waits for it to exit.
func (s *Source[T]) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownChan)
		s.wg.Wait()
	})
}
