// Package session runs the single-threaded event loop that owns the
// location tracker, the chat buffer and the latest player snapshot.
// Producers hand it events through Submit; only the goroutine inside Run
// touches the owned state.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"entityscrape/internal/chat"
	"entityscrape/internal/export"
	"entityscrape/internal/extract"
	"entityscrape/internal/players"
	"entityscrape/internal/tracker"
)

var ErrClosed = errors.New("session closed")

var errRunning = errors.New("session already running")

const eventBuffer = 64

type Config struct {
	Items     extract.Range
	DumpIcons bool
	NPCs      extract.Range
	Icons     extract.Range

	TrackerEnabled bool
	Tracker        tracker.Options

	PublicChatOnly bool
	AllPlayers     bool
}

// Deps are the collaborators a session drives. Extractor and Players may
// be nil when no composition source is available.
type Deps struct {
	Extractor *extract.Extractor
	Sink      export.Sink
	Players   *players.Scraper
	Logger    *zap.Logger
}

type Session struct {
	cfg       Config
	extractor *extract.Extractor
	sink      export.Sink
	scraper   *players.Scraper
	log       *zap.Logger
	now       func() time.Time

	tracker  *tracker.Tracker
	chat     *chat.Buffer
	snapshot players.Snapshot
	tick     int
	handlers map[Command]handler

	events  chan Event
	done    chan struct{}
	stopped chan struct{}

	mu      sync.Mutex
	running bool
	closed  bool
}

func New(cfg Config, deps Deps) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		cfg:       cfg,
		extractor: deps.Extractor,
		sink:      deps.Sink,
		scraper:   deps.Players,
		log:       logger,
		now:       time.Now,
		tracker:   tracker.New(cfg.Tracker, logger),
		chat:      chat.NewBuffer(cfg.PublicChatOnly),
		events:    make(chan Event, eventBuffer),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	s.registerHandlers()
	return s
}

// Submit queues ev for the loop. It blocks while the queue is full.
func (s *Session) Submit(ctx context.Context, ev Event) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Exec runs a command token on the loop and waits for its report.
func (s *Session) Exec(ctx context.Context, token string) (Report, error) {
	reply := make(chan Report, 1)
	if err := s.Submit(ctx, CommandEvent{Token: token, Reply: reply}); err != nil {
		return Report{}, err
	}
	select {
	case report := <-reply:
		return report, nil
	case <-s.stopped:
		return Report{}, ErrClosed
	case <-ctx.Done():
		return Report{}, ctx.Err()
	}
}

// State returns a copy of the loop's state once every event submitted
// before it has been handled.
func (s *Session) State(ctx context.Context) (State, error) {
	reply := make(chan State, 1)
	if err := s.Submit(ctx, StateRequest{Reply: reply}); err != nil {
		return State{}, err
	}
	select {
	case state := <-reply:
		return state, nil
	case <-s.stopped:
		return State{}, ErrClosed
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Run drains events until ctx ends or Close is called, then tears the
// session down. Events queued before Close are still handled.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrClosed
	case s.running:
		s.mu.Unlock()
		return errRunning
	}
	s.running = true
	s.mu.Unlock()

	defer close(s.stopped)
	defer s.teardown()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			s.drain(ctx)
			return nil
		case ev := <-s.events:
			s.handle(ctx, ev)
		}
	}
}

// Close stops the loop once the events already submitted are handled,
// waits for background player scrapes and clears the tracker and chat
// buffer. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	running := s.running
	close(s.done)
	s.mu.Unlock()

	if running {
		<-s.stopped
		return nil
	}
	s.drain(context.Background())
	s.teardown()
	return nil
}

// drain handles whatever is already queued without waiting for more.
func (s *Session) drain(ctx context.Context) {
	for {
		select {
		case ev := <-s.events:
			s.handle(ctx, ev)
		default:
			return
		}
	}
}

func (s *Session) teardown() {
	if s.scraper != nil {
		s.scraper.Wait()
	}
	s.tracker.Reset()
	s.chat.Clear()
	s.snapshot = players.Snapshot{}
	s.log.Debug("session closed")
}

func (s *Session) handle(ctx context.Context, ev Event) {
	switch ev := ev.(type) {
	case TickEvent:
		s.observe(ev)
	case CommandEvent:
		report := s.runCommand(ctx, ev.Token)
		if ev.Reply != nil {
			ev.Reply <- report
		}
	case ChatEvent:
		s.chat.Add(ev.Message)
	case MenuEvent:
		s.scrapePlayer(ctx, ev.Target)
	case StateRequest:
		ev.Reply <- State{
			Tick:           s.tick,
			World:          s.snapshot.World,
			Locations:      s.tracker.Export(),
			ChatBuffered:   s.chat.Len(),
			VisiblePlayers: len(s.snapshot.Players),
		}
	default:
		s.log.Warn("ignoring unsupported event")
	}
}

func (s *Session) observe(ev TickEvent) {
	s.tick = ev.Tick
	s.snapshot = players.Snapshot{
		World:   ev.World,
		Players: append([]players.Player(nil), ev.Players...),
	}
	if !s.cfg.TrackerEnabled {
		return
	}
	added := s.tracker.Observe(ev.NPCs)
	if added > 0 {
		s.log.Debug("tick observed", zap.Int("tick", ev.Tick), zap.Int("added", added))
	}
}

func (s *Session) scrapePlayer(ctx context.Context, target string) {
	if s.scraper == nil {
		s.log.Debug("player scrape unavailable", zap.String("target", target))
		return
	}
	snapshot := players.Snapshot{
		World:   s.snapshot.World,
		Players: append([]players.Player(nil), s.snapshot.Players...),
	}
	job := s.scraper.Enqueue(ctx, snapshot, target, s.cfg.AllPlayers)
	s.log.Debug("player scrape queued", zap.String("job", job))
}
