// Package codecs collects decode failures caused by absent codec plugins and
// asks the platform to install them.
package codecs

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Alexander-D-Karpov/tracklist/internal/config"
	"github.com/Alexander-D-Karpov/tracklist/internal/logger"
	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

var ErrUnsupported = errors.New("plugin installation not supported")

type Domain string

const (
	DomainCore     Domain = "core"
	DomainStream   Domain = "stream"
	DomainResource Domain = "resource"
)

type Code int

const (
	CodeMissingPlugin Code = iota + 1
	CodeDecode
	CodeNotFound
)

// Diagnostic describes a decode failure. Detail is the installer detail for
// missing plugins, e.g. "decoder-audio/x-flac".
type Diagnostic struct {
	Domain      Domain
	Code        Code
	Message     string
	Description string
	Detail      string
	Source      string
}

func (d *Diagnostic) Error() string {
	if d.Source == "" {
		return d.Message
	}
	return fmt.Sprintf("%s: %s", d.Source, d.Message)
}

// MissingPlugin builds the diagnostic reported when no decoder handles an
// audio file.
func MissingPlugin(source, format string) *Diagnostic {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	return &Diagnostic{
		Domain:      DomainCore,
		Code:        CodeMissingPlugin,
		Message:     fmt.Sprintf("no decoder available for %s", format),
		Description: strings.ToUpper(format) + " decoder",
		Detail:      "decoder-audio/x-" + format,
		Source:      source,
	}
}

// MissingPluginFor returns the diagnostic for path based on its extension.
func MissingPluginFor(path string) *Diagnostic {
	ext := filepath.Ext(path)
	if ext == "" {
		ext = "unknown"
	}
	return MissingPlugin(path, ext)
}

// IsMissingCodec reports whether d was caused by an absent plugin rather
// than any other decode failure.
func IsMissingCodec(d *Diagnostic) bool {
	return d != nil && d.Domain == DomainCore && d.Code == CodeMissingPlugin
}

// InstallerDetail renders d in the format understood by the plugin installer.
func (d *Diagnostic) InstallerDetail(app string) string {
	return strings.Join([]string{"gstreamer", "1.0", app, d.Description, d.Detail}, "|")
}

// PluginInstaller is the platform installation backend.
type PluginInstaller interface {
	SetDesktopID(id string) error
	Install(ctx context.Context, details []string) error
}

type Installer struct {
	backend     PluginInstaller
	notifier    types.Notifier
	appName     string
	desktopID   string
	noticeDelay time.Duration
	log         *zap.Logger

	mu       sync.Mutex
	messages []*Diagnostic
	wg       sync.WaitGroup
}

type Options struct {
	Backend  PluginInstaller
	Notifier types.Notifier
	AppName  string
	Logger   *zap.Logger
}

func NewInstaller(cfg *config.Config, opts Options) *Installer {
	delay := cfg.Codecs.RestartNoticeDelay
	if delay <= 0 {
		delay = 10 * time.Second
	}
	app := opts.AppName
	if app == "" {
		app = "Tracklist"
	}
	return &Installer{
		backend:     opts.Backend,
		notifier:    opts.Notifier,
		appName:     app,
		desktopID:   cfg.Codecs.DesktopID,
		noticeDelay: delay,
		log:         logger.OrNop(opts.Logger).Named("codecs"),
	}
}

// Record remembers a missing-plugin diagnostic for the next Install.
func (i *Installer) Record(d *Diagnostic) {
	if d == nil {
		return
	}
	i.mu.Lock()
	i.messages = append(i.messages, d)
	i.mu.Unlock()
	i.log.Debug("missing plugin recorded", zap.String("detail", d.Detail), zap.String("source", d.Source))
}

// Pending returns the recorded diagnostics.
func (i *Installer) Pending() []*Diagnostic {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]*Diagnostic, len(i.messages))
	copy(out, i.messages)
	return out
}

// Install starts installation of every recorded plugin and returns at once.
// It never fails: problems are logged.
func (i *Installer) Install() {
	log := i.log.With(zap.String("request_id", uuid.NewString()))
	defer func() {
		if r := recover(); r != nil {
			log.Error("codec install aborted", zap.Any("panic", r))
		}
	}()

	if i.backend == nil {
		log.Warn("no plugin installer available")
		return
	}

	pending := i.Pending()
	if len(pending) == 0 {
		log.Debug("nothing to install")
		return
	}

	if err := i.backend.SetDesktopID(i.desktopID); err != nil {
		log.Debug("desktop id rejected", zap.Error(err))
	}

	details := make([]string, 0, len(pending))
	for _, d := range pending {
		details = append(details, d.InstallerDetail(i.appName))
	}

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error("plugin installer panicked", zap.Any("panic", r))
			}
		}()
		if err := i.backend.Install(context.Background(), details); err != nil {
			log.Warn("plugin install failed", zap.Error(err), zap.Strings("details", details))
			return
		}
		log.Info("plugin install finished", zap.Int("count", len(details)))
	}()

	if i.notifier != nil {
		time.AfterFunc(i.noticeDelay, func() {
			i.notifier.Send(fmt.Sprintf("Restart %s after installing codecs", i.appName))
		})
	}
}

// Wait blocks until every install started so far has returned.
func (i *Installer) Wait() { i.wg.Wait() }

// HelperInstaller runs the desktop's install-plugins helper.
type HelperInstaller struct {
	path      string
	desktopID string
}

func NewHelperInstaller(cfg *config.Config) *HelperInstaller {
	path := cfg.Codecs.HelperPath
	if path == "" {
		path = "gst-install-plugins-helper"
	}
	return &HelperInstaller{path: path}
}

func (h *HelperInstaller) SetDesktopID(id string) error {
	if runtime.GOOS != "linux" {
		return ErrUnsupported
	}
	h.desktopID = id
	return nil
}

func (h *HelperInstaller) Install(ctx context.Context, details []string) error {
	bin, err := exec.LookPath(h.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	args := make([]string, 0, len(details)+1)
	if h.desktopID != "" {
		args = append(args, "--desktop-id="+h.desktopID)
	}
	args = append(args, details...)

	if out, err := exec.CommandContext(ctx, bin, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("run %s: %w: %s", filepath.Base(bin), err, strings.TrimSpace(string(out)))
	}
	return nil
}
