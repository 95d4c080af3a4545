package codecs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexander-D-Karpov/tracklist/internal/config"
)

type fakeBackend struct {
	mu         sync.Mutex
	desktopErr error
	desktopIDs []string
	installed  chan []string
	panics     bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{installed: make(chan []string, 4)}
}

func (f *fakeBackend) SetDesktopID(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.desktopIDs = append(f.desktopIDs, id)
	return f.desktopErr
}

func (f *fakeBackend) Install(_ context.Context, details []string) error {
	if f.panics {
		panic("backend exploded")
	}
	f.installed <- details
	return nil
}

type fakeNotifier struct {
	sent chan string
}

func (n *fakeNotifier) Send(text string) { n.sent <- text }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Codecs.DesktopID = "tracklist.desktop"
	cfg.Codecs.RestartNoticeDelay = 20 * time.Millisecond
	return cfg
}

func TestIsMissingCodec(t *testing.T) {
	assert.True(t, IsMissingCodec(MissingPluginFor("/m/song.flac")))
	assert.False(t, IsMissingCodec(&Diagnostic{Domain: DomainStream, Code: CodeDecode, Message: "corrupt frame"}))
	assert.False(t, IsMissingCodec(&Diagnostic{Domain: DomainCore, Code: CodeNotFound}))
	assert.False(t, IsMissingCodec(nil))
}

func TestInstallerDetail(t *testing.T) {
	d := MissingPluginFor("/m/song.FLAC")
	assert.Equal(t, "gstreamer|1.0|Tracklist|FLAC decoder|decoder-audio/x-flac", d.InstallerDetail("Tracklist"))
	assert.Contains(t, d.Error(), "/m/song.FLAC")
}

func TestInstallSendsOneDetailPerDiagnostic(t *testing.T) {
	backend := newFakeBackend()
	backend.desktopErr = errors.New("not supported here")
	notifier := &fakeNotifier{sent: make(chan string, 1)}
	inst := NewInstaller(testConfig(), Options{Backend: backend, Notifier: notifier})

	inst.Record(MissingPluginFor("/m/a.flac"))
	inst.Record(MissingPluginFor("/m/b.flac"))
	inst.Record(MissingPluginFor("/m/c.ogg"))
	require.Len(t, inst.Pending(), 3)

	assert.NotPanics(t, inst.Install)

	select {
	case details := <-backend.installed:
		assert.Equal(t, []string{
			"gstreamer|1.0|Tracklist|FLAC decoder|decoder-audio/x-flac",
			"gstreamer|1.0|Tracklist|FLAC decoder|decoder-audio/x-flac",
			"gstreamer|1.0|Tracklist|OGG decoder|decoder-audio/x-ogg",
		}, details)
	case <-time.After(2 * time.Second):
		t.Fatal("installer was not invoked")
	}

	select {
	case text := <-notifier.sent:
		assert.Equal(t, "Restart Tracklist after installing codecs", text)
	case <-time.After(2 * time.Second):
		t.Fatal("restart notice was not sent")
	}

	backend.mu.Lock()
	assert.Equal(t, []string{"tracklist.desktop"}, backend.desktopIDs)
	backend.mu.Unlock()
}

func TestInstallWithoutNotifierOrBackend(t *testing.T) {
	inst := NewInstaller(testConfig(), Options{})
	inst.Record(MissingPluginFor("/m/a.flac"))
	assert.NotPanics(t, inst.Install)

	backend := newFakeBackend()
	inst = NewInstaller(testConfig(), Options{Backend: backend})
	inst.Record(MissingPluginFor("/m/a.flac"))
	inst.Install()

	select {
	case details := <-backend.installed:
		assert.Len(t, details, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("installer was not invoked")
	}
}

func TestInstallNeverPropagatesFailures(t *testing.T) {
	backend := newFakeBackend()
	backend.panics = true
	inst := NewInstaller(testConfig(), Options{Backend: backend})
	inst.Record(MissingPluginFor("/m/a.flac"))

	assert.NotPanics(t, inst.Install)
	time.Sleep(20 * time.Millisecond)
}

func TestRecordIgnoresNil(t *testing.T) {
	inst := NewInstaller(testConfig(), Options{})
	inst.Record(nil)
	assert.Empty(t, inst.Pending())
}

func TestHelperInstallerMissingBinary(t *testing.T) {
	cfg := testConfig()
	cfg.Codecs.HelperPath = "/nonexistent/tracklist-install-helper"
	h := NewHelperInstaller(cfg)

	err := h.Install(context.Background(), []string{"gstreamer|1.0|x|y|z"})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestWaitBlocksUntilInstallReturns(t *testing.T) {
	backend := newFakeBackend()
	inst := NewInstaller(testConfig(), Options{Backend: backend})
	inst.Record(MissingPluginFor("/m/a.opus"))

	inst.Install()
	inst.Wait()

	select {
	case details := <-backend.installed:
		assert.Len(t, details, 1)
	default:
		t.Fatal("Wait returned before the backend ran")
	}
}
