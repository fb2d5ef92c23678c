// Package store is the single authoritative state container of the storefront.
//
// Views read deep copies through State and mutate only through Store actions.
// Gateway calls run outside the store mutex; the chat in-flight flag is the only
// mutual exclusion between actions, so concurrent config saves are last-writer-wins.
package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inmobiliaria/storefront/internal/models"
)

// User-visible messages
const (
	MsgConfigLoadFailed     = "No se pudo cargar la configuración del servidor. Usando configuración por defecto."
	MsgConfigSaveFailed     = "No se pudo guardar la configuración."
	MsgPropertiesLoadFailed = "Error al cargar las propiedades"
	MsgChatEmpty            = "No he podido procesar tu solicitud."
	MsgChatFailed           = "Lo siento, ha ocurrido un error. Por favor, intenta de nuevo."
)

const (
	defaultTypingDelay    = 1500 * time.Millisecond
	defaultRequestTimeout = 30 * time.Second
)

// State is a point-in-time copy of everything the views render
type State struct {
	Config           models.AppConfig
	ChatMessages     []models.ChatMessage
	IsLoading        bool
	Error            string
	IsAuthenticated  bool
	IsSendingMessage bool
	ChatSessionID    string

	SelectedProperty    *models.Property
	IsPropertyModalOpen bool
	IsImageModalOpen    bool
	ImageModalURL       string
	IsChatOpen          bool
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	out := s
	out.Config = s.Config.Clone()
	if s.ChatMessages != nil {
		out.ChatMessages = make([]models.ChatMessage, len(s.ChatMessages))
		for i, m := range s.ChatMessages {
			out.ChatMessages[i] = m.Clone()
		}
	}
	if s.SelectedProperty != nil {
		p := s.SelectedProperty.Clone()
		out.SelectedProperty = &p
	}
	return out
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the store logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithClock replaces time.Now for ids and timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithTypingDelay sets how long the greeting placeholder shows before the greeting
func WithTypingDelay(d time.Duration) Option {
	return func(s *Store) {
		s.typingDelay = d
	}
}

// WithRequestTimeout bounds each gateway call; zero disables the bound
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.requestTimeout = d
	}
}

// Store holds the application state and orchestrates the gateways
type Store struct {
	deps           Deps
	log            zerolog.Logger
	now            func() time.Time
	typingDelay    time.Duration
	requestTimeout time.Duration

	mu    sync.Mutex
	state State

	seq atomic.Uint64

	// greeting timer; greetGen invalidates a timer that already fired
	greetTimer *time.Timer
	greetGen   uint64

	subs    map[int]chan struct{}
	nextSub int
	closed  bool
}

// New creates a store with the default configuration
func New(deps Deps, opts ...Option) *Store {
	s := &Store{
		deps:           deps,
		log:            zerolog.Nop(),
		now:            time.Now,
		typingDelay:    defaultTypingDelay,
		requestTimeout: defaultRequestTimeout,
		subs:           make(map[int]chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.state = State{
		Config:        models.DefaultAppConfig(),
		ChatMessages:  []models.ChatMessage{},
		ChatSessionID: fmt.Sprintf("session-%d-%s", s.now().UnixMilli(), uuid.NewString()),
	}
	return s
}

// State returns a deep copy of the current state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe returns a channel signalled after every state change, and a function
// that cancels the subscription. Signals coalesce while the reader is busy.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Close cancels the pending greeting and ends all subscriptions
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancelGreetingLocked()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// update applies fn under the lock and notifies subscribers
func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *Store) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// SetLoading sets the global loading flag
func (s *Store) SetLoading(loading bool) {
	s.update(func(st *State) { st.IsLoading = loading })
}

// SetError sets the global error banner; an empty string clears it
func (s *Store) SetError(msg string) {
	s.update(func(st *State) { st.Error = msg })
}

func (s *Store) nextID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, s.now().UnixMilli(), s.seq.Add(1))
}

func (s *Store) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout > 0 {
		return context.WithTimeout(ctx, s.requestTimeout)
	}
	return context.WithCancel(ctx)
}
