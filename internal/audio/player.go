package audio

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/Alexander-D-Karpov/tracklist/internal/codecs"
	"github.com/Alexander-D-Karpov/tracklist/internal/config"
	"github.com/Alexander-D-Karpov/tracklist/internal/handlers"
	"github.com/Alexander-D-Karpov/tracklist/internal/logger"
	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

// TrackSource resolves tracks to play.
type TrackSource interface {
	Track(ctx context.Context, id int64) (*types.Track, error)
}

// CodecReporter receives decode failures caused by missing plugins.
type CodecReporter interface {
	Record(d *codecs.Diagnostic)
	Install()
}

// Output is where decoded audio goes.
type Output interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

type speakerOutput struct{}

func (speakerOutput) Init(sr beep.SampleRate, bufferSize int) error { return speaker.Init(sr, bufferSize) }
func (speakerOutput) Play(s ...beep.Streamer)                      { speaker.Play(s...) }
func (speakerOutput) Clear()                                        { speaker.Clear() }
func (speakerOutput) Lock()                                         { speaker.Lock() }
func (speakerOutput) Unlock()                                       { speaker.Unlock() }

var (
	speakerInitialized bool
	speakerMutex       sync.Mutex
)

type Options struct {
	Tracks TrackSource
	Codecs CodecReporter
	Bus    *handlers.EventBus
	Output Output
	Logger *zap.Logger
}

type Player struct {
	mu sync.Mutex

	cfg        *config.Config
	tracks     TrackSource
	codecs     CodecReporter
	bus        *handlers.EventBus
	output     Output
	log        *zap.Logger
	sampleRate beep.SampleRate
	volumeLvl  float64

	queue    Queue
	current  *types.Track
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	playing  bool
	paused   bool
	// generation invalidates loads and finish callbacks of replaced tracks.
	generation uint64
	outputInit bool
}

func NewPlayer(cfg *config.Config, opts Options) *Player {
	bus := opts.Bus
	if bus == nil {
		bus = handlers.NewEventBus()
	}
	output := opts.Output
	if output == nil {
		output = speakerOutput{}
	}
	sampleRate := cfg.Audio.SampleRate
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return &Player{
		cfg:        cfg,
		tracks:     opts.Tracks,
		codecs:     opts.Codecs,
		bus:        bus,
		output:     output,
		log:        logger.OrNop(opts.Logger).Named("player"),
		sampleRate: beep.SampleRate(sampleRate),
		volumeLvl:  cfg.Audio.DefaultVolume,
	}
}

func (p *Player) Bus() *handlers.EventBus { return p.bus }

func (p *Player) CurrentTrackID() (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return 0, false
	}
	return p.current.ID, true
}

func (p *Player) CurrentTrack() *types.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *Player) IsInQueue(trackID int64) bool {
	_, ok := p.QueuePosition(trackID)
	return ok
}

func (p *Player) QueuePosition(trackID int64) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Position(trackID)
}

func (p *Player) Queue() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Items()
}

func (p *Player) Enqueue(trackID int64) {
	p.mu.Lock()
	changed := p.queue.Push(trackID)
	p.mu.Unlock()
	if changed {
		p.bus.Publish(handlers.EventQueueChanged, nil)
	}
}

func (p *Player) Dequeue(trackID int64) {
	p.mu.Lock()
	changed := p.queue.Remove(trackID)
	p.mu.Unlock()
	if changed {
		p.bus.Publish(handlers.EventQueueChanged, nil)
	}
}

func (p *Player) ClearQueue() {
	p.mu.Lock()
	changed := p.queue.Clear()
	p.mu.Unlock()
	if changed {
		p.bus.Publish(handlers.EventQueueChanged, nil)
	}
}

func (p *Player) SubscribeQueueChanged(fn func()) types.SubscriptionID {
	return p.bus.Subscribe(handlers.EventQueueChanged, func(interface{}) { fn() })
}

func (p *Player) Unsubscribe(id types.SubscriptionID) {
	p.bus.Unsubscribe(id)
}

// OnTrackChanged registers fn for every change of the current track. The id
// passed is 0 after Stop.
func (p *Player) OnTrackChanged(fn func(trackID int64)) types.SubscriptionID {
	return p.bus.Subscribe(handlers.EventTrackChanged, func(data interface{}) {
		id, _ := data.(int64)
		fn(id)
	})
}

// Play makes trackID current and starts decoding it in the background. A
// track without a decoder is reported to the codec installer and returned
// as a *codecs.Diagnostic.
func (p *Player) Play(ctx context.Context, trackID int64) error {
	if p.tracks == nil {
		return errors.New("no track source")
	}
	track, err := p.tracks.Track(ctx, trackID)
	if err != nil {
		return fmt.Errorf("load track %d: %w", trackID, err)
	}

	if !CanDecode(track.Path) {
		diag := codecs.MissingPluginFor(track.Path)
		p.reportMissing(diag)
		return diag
	}

	p.mu.Lock()
	p.stopLocked()
	p.generation++
	gen := p.generation
	p.current = track
	dequeued := p.queue.Remove(track.ID)
	p.mu.Unlock()

	p.log.Debug("starting playback", zap.Int64("track_id", track.ID), zap.String("title", track.Title))
	p.bus.Publish(handlers.EventTrackChanged, track.ID)
	if dequeued {
		p.bus.Publish(handlers.EventQueueChanged, nil)
	}

	go p.load(track, gen)
	return nil
}

// Next plays the head of the queue. It reports false when the queue is empty.
func (p *Player) Next(ctx context.Context) (bool, error) {
	p.mu.Lock()
	id, ok := p.queue.Pop()
	p.mu.Unlock()
	if !ok {
		return false, nil
	}
	p.bus.Publish(handlers.EventQueueChanged, nil)
	return true, p.Play(ctx, id)
}

func (p *Player) reportMissing(diag *codecs.Diagnostic) {
	p.log.Warn("missing codec", zap.String("path", diag.Source), zap.String("detail", diag.Detail))
	p.bus.Publish(handlers.EventMissingCodec, diag)
	if p.codecs == nil {
		return
	}
	p.codecs.Record(diag)
	p.codecs.Install()
}

func (p *Player) load(track *types.Track, gen uint64) {
	streamer, format, err := Open(track.Path)
	if err != nil {
		var diag *codecs.Diagnostic
		if errors.As(err, &diag) && codecs.IsMissingCodec(diag) {
			p.reportMissing(diag)
		}
		p.log.Warn("playback failed", zap.Int64("track_id", track.ID), zap.Error(err))
		return
	}

	if err := p.ensureOutput(); err != nil {
		_ = streamer.Close()
		p.log.Error("audio output unavailable", zap.Error(err))
		return
	}

	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		_ = streamer.Close()
		p.log.Debug("track changed during loading", zap.Int64("track_id", track.ID))
		return
	}

	p.streamer = streamer
	p.format = format
	resampled := beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	p.ctrl = &beep.Ctrl{Streamer: resampled}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   (p.volumeLvl - 1) * 5,
		Silent:   p.volumeLvl == 0,
	}

	p.output.Clear()
	p.output.Play(beep.Seq(p.volume, beep.Callback(func() {
		go p.finished(gen)
	})))
	p.playing = true
	p.paused = false
	p.mu.Unlock()

	p.log.Debug("playback started",
		zap.Int64("track_id", track.ID),
		zap.Duration("duration", format.SampleRate.D(streamer.Len())),
		zap.Int("channels", format.NumChannels))
}

func (p *Player) finished(gen uint64) {
	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		return
	}
	p.playing = false
	p.mu.Unlock()

	advanced, err := p.Next(context.Background())
	if err != nil {
		p.log.Warn("advance failed", zap.Error(err))
	}
	if !advanced {
		_ = p.Stop()
	}
}

func (p *Player) ensureOutput() error {
	p.mu.Lock()
	ready := p.outputInit
	p.mu.Unlock()
	if ready {
		return nil
	}

	if _, ok := p.output.(speakerOutput); ok {
		speakerMutex.Lock()
		defer speakerMutex.Unlock()
		if speakerInitialized {
			p.markOutputReady()
			return nil
		}
	}

	bufferSize := p.sampleRate.N(time.Second / 10)
	if runtime.GOOS == "linux" {
		bufferSize = p.sampleRate.N(time.Second / 5)
	}
	if err := p.output.Init(p.sampleRate, bufferSize); err != nil {
		return fmt.Errorf("init audio output: %w", err)
	}
	if _, ok := p.output.(speakerOutput); ok {
		speakerInitialized = true
	}
	p.markOutputReady()

	p.log.Debug("audio output initialized",
		zap.Int("sample_rate", int(p.sampleRate)),
		zap.Int("buffer_size", bufferSize),
		zap.String("os", runtime.GOOS))
	return nil
}

func (p *Player) markOutputReady() {
	p.mu.Lock()
	p.outputInit = true
	p.mu.Unlock()
}

func (p *Player) stopLocked() {
	if p.playing || p.paused {
		p.output.Clear()
	}
	if p.streamer != nil {
		if err := p.streamer.Close(); err != nil {
			p.log.Debug("closing streamer", zap.Error(err))
		}
		p.streamer = nil
	}
	p.ctrl = nil
	p.volume = nil
	p.playing = false
	p.paused = false
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing && !p.paused && p.ctrl != nil
}

func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl != nil && p.playing && !p.paused {
		p.output.Lock()
		p.ctrl.Paused = true
		p.output.Unlock()
		p.paused = true
	}
	return nil
}

func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl != nil && p.playing && p.paused {
		p.output.Lock()
		p.ctrl.Paused = false
		p.output.Unlock()
		p.paused = false
	}
	return nil
}

// Stop ends playback and clears the current track.
func (p *Player) Stop() error {
	p.mu.Lock()
	p.stopLocked()
	p.generation++
	hadTrack := p.current != nil
	p.current = nil
	p.mu.Unlock()

	if hadTrack {
		p.bus.Publish(handlers.EventTrackChanged, int64(0))
	}
	return nil
}

func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volumeLvl = volume
	if p.volume != nil {
		p.output.Lock()
		p.volume.Volume = (volume - 1) * 5
		p.volume.Silent = volume == 0
		p.output.Unlock()
	}
}

// Position returns how far into the current track playback is.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	p.output.Lock()
	defer p.output.Unlock()
	return p.format.SampleRate.D(p.streamer.Position())
}

func (p *Player) Close() error {
	return p.Stop()
}
