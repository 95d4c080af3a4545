package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/time/rate"

	"github.com/Alexander-D-Karpov/tracklist/internal/config"
	"github.com/Alexander-D-Karpov/tracklist/internal/logger"
	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

var (
	// ErrCoverPending means the cover is being downloaded; ask again later.
	ErrCoverPending = errors.New("cover download pending")
	ErrNoCover      = errors.New("album has no cover")
)

const (
	maxCoverBytes   = 10 * 1024 * 1024
	cleanupInterval = 5 * time.Minute
	idleCoverTTL    = 30 * time.Minute
)

// AlbumSource resolves albums by id.
type AlbumSource interface {
	Album(ctx context.Context, id int64) (*types.Album, error)
}

// FileCache keeps downloaded covers on disk.
type FileCache interface {
	GetCachedFile(ctx context.Context, url string) (string, error)
	SaveCachedFile(ctx context.Context, url string, data io.Reader) (string, error)
}

type fetchRequest struct {
	albumID int64
	url     string
}

// ArtCache serves album covers scaled to the requested size. Lookups never
// block on the network: remote covers are fetched by background workers and
// reported through OnCoverReady.
type ArtCache struct {
	albums     AlbumSource
	files      FileCache
	httpClient *retryablehttp.Client
	limiter    *rate.Limiter
	lru        *LRUCache
	inflight   sync.Map
	queue      chan fetchRequest
	userAgent  string
	timeout    time.Duration
	log        *zap.Logger

	mu      sync.RWMutex
	onReady func(albumID int64)

	stop      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewArtCache(cfg *config.Config, albums AlbumSource, files FileCache, log *zap.Logger) *ArtCache {
	log = logger.OrNop(log).Named("art")

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Art.Retries
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = nil

	rps := cfg.Art.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Art.BurstSize
	if burst <= 0 {
		burst = 1
	}
	timeout := time.Duration(cfg.Art.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	entries := cfg.Art.MemoryEntries
	if entries <= 0 {
		entries = 500
	}
	workers := cfg.Art.Workers
	if workers <= 0 {
		workers = 2
	}

	c := &ArtCache{
		albums:     albums,
		files:      files,
		httpClient: retryClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		lru:        NewLRUCache(entries),
		queue:      make(chan fetchRequest, 256),
		userAgent:  cfg.Art.UserAgent,
		timeout:    timeout,
		log:        log,
		stop:       make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		c.wg.Add(1)
		go c.worker()
	}
	c.wg.Add(1)
	go c.cleanupWorker()

	return c
}

// OnCoverReady registers a callback run on a worker goroutine after a remote
// cover was stored on disk.
func (c *ArtCache) OnCoverReady(fn func(albumID int64)) {
	c.mu.Lock()
	c.onReady = fn
	c.mu.Unlock()
}

func (c *ArtCache) AlbumCover(ctx context.Context, albumID int64, size int) (fyne.Resource, error) {
	if size <= 0 {
		size = 48
	}
	key := fmt.Sprintf("%d@%d", albumID, size)
	if cached, ok := c.lru.Get(key); ok {
		return cached.resource, nil
	}

	album, err := c.albums.Album(ctx, albumID)
	if err != nil {
		return nil, fmt.Errorf("resolve album: %w", err)
	}

	data, err := c.localCover(ctx, album)
	if err != nil {
		return nil, err
	}

	res, err := c.render(key, data, size)
	if err != nil {
		return nil, fmt.Errorf("render cover for album %d: %w", albumID, err)
	}
	return res, nil
}

func (c *ArtCache) localCover(ctx context.Context, album *types.Album) ([]byte, error) {
	if album.CoverPath != "" {
		data, err := os.ReadFile(album.CoverPath)
		if err == nil {
			return data, nil
		}
		c.log.Debug("local cover unreadable", zap.String("path", album.CoverPath), zap.Error(err))
	}

	if album.CoverURL == "" {
		return nil, ErrNoCover
	}

	if c.files != nil {
		path, err := c.files.GetCachedFile(ctx, album.CoverURL)
		if err == nil && path != "" {
			if data, err := os.ReadFile(path); err == nil {
				return data, nil
			}
		}
	}

	c.enqueue(fetchRequest{albumID: album.ID, url: album.CoverURL})
	return nil, ErrCoverPending
}

func (c *ArtCache) render(key string, data []byte, size int) (fyne.Resource, error) {
	scaled, err := ScaleImage(data, size)
	if err != nil {
		return nil, err
	}
	res := fyne.NewStaticResource("cover-"+key+".png", scaled)
	c.lru.Put(key, &CachedResource{resource: res, lastAccess: time.Now(), size: int64(len(scaled))})
	return res, nil
}

func (c *ArtCache) enqueue(req fetchRequest) {
	if _, loading := c.inflight.LoadOrStore(req.url, struct{}{}); loading {
		return
	}
	select {
	case c.queue <- req:
	default:
		c.inflight.Delete(req.url)
		c.log.Debug("cover queue full", zap.Int64("album_id", req.albumID))
	}
}

func (c *ArtCache) worker() {
	defer c.wg.Done()
	for {
		select {
		case <-c.stop:
			return
		case req := <-c.queue:
			c.fetch(req)
		}
	}
}

func (c *ArtCache) cleanupWorker() {
	defer c.wg.Done()
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if n := c.lru.EvictOlderThan(time.Now().Add(-idleCoverTTL)); n > 0 {
				c.log.Debug("evicted idle covers", zap.Int("count", n))
			}
		}
	}
}

func (c *ArtCache) fetch(req fetchRequest) {
	defer c.inflight.Delete(req.url)

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	go func() {
		select {
		case <-c.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return
	}

	data, err := c.download(ctx, req.url)
	if err != nil {
		c.log.Debug("cover download failed", zap.String("url", req.url), zap.Error(err))
		return
	}

	if c.files != nil {
		if _, err := c.files.SaveCachedFile(ctx, req.url, bytes.NewReader(data)); err != nil {
			c.log.Warn("cover not cached", zap.String("url", req.url), zap.Error(err))
			return
		}
	}

	c.mu.RLock()
	onReady := c.onReady
	c.mu.RUnlock()
	if onReady != nil {
		onReady(req.albumID)
	}
}

func (c *ArtCache) download(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download cover: status %s", resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("invalid content type: %s", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverBytes))
	if err != nil {
		return nil, fmt.Errorf("read cover: %w", err)
	}
	return data, nil
}

// Clear drops every rendered cover from memory.
func (c *ArtCache) Clear() { c.lru.Clear() }

// Close stops the download workers.
func (c *ArtCache) Close() {
	c.closeOnce.Do(func() {
		close(c.stop)
		c.wg.Wait()
	})
}

// ScaleImage decodes data and fits it into a size x size square keeping the
// aspect ratio, re-encoded as PNG.
func ScaleImage(data []byte, size int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, errors.New("empty image")
	}

	if width >= height {
		height = max(1, height*size/width)
		width = size
	} else {
		width = max(1, width*size/height)
		height = size
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
