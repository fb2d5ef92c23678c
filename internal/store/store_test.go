package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inmobiliaria/storefront/internal/chat"
	"github.com/inmobiliaria/storefront/internal/localstate"
	"github.com/inmobiliaria/storefront/internal/models"
	"github.com/inmobiliaria/storefront/internal/properties"
)

var errBoom = errors.New("boom")

type fakeConfig struct {
	mu        sync.Mutex
	cfg       models.AppConfig
	fetchErr  error
	updateErr error
	updates   []models.AppConfig
	// hold, when set, blocks Update until closed
	hold chan struct{}
}

func (f *fakeConfig) Fetch(ctx context.Context) (models.AppConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return models.DefaultAppConfig(), f.fetchErr
	}
	return f.cfg.Clone(), nil
}

func (f *fakeConfig) Update(ctx context.Context, cfg models.AppConfig) error {
	if f.hold != nil {
		<-f.hold
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, cfg.Clone())
	return f.updateErr
}

func (f *fakeConfig) lastUpdate() models.AppConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates[len(f.updates)-1]
}

type fakeProperties struct {
	mu       sync.Mutex
	results  map[string][]models.Property
	errs     map[string]error
	probeErr error
	fetched  []string
}

func (f *fakeProperties) FetchByCategory(ctx context.Context, params properties.Params, category string) ([]models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, category)
	if err := f.errs[category]; err != nil {
		return nil, err
	}
	return f.results[category], nil
}

func (f *fakeProperties) Probe(ctx context.Context, params properties.Params) error {
	return f.probeErr
}

type fakeChat struct {
	mu      sync.Mutex
	resp    *chat.Response
	err     error
	release chan struct{}
	texts   []string
	session string
	webhook string
}

func (f *fakeChat) Send(ctx context.Context, webhookURL, text, sessionID string) (*chat.Response, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.session = sessionID
	f.webhook = webhookURL
	release := f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.resp, f.err
}

type fakeLocal struct {
	mu    sync.Mutex
	snap  localstate.Snapshot
	saves int
}

func (f *fakeLocal) Load() (localstate.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, nil
}

func (f *fakeLocal) Save(snap localstate.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = snap
	f.saves++
	return nil
}

func (f *fakeLocal) saved() localstate.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

type fixture struct {
	store *Store
	cfg   *fakeConfig
	props *fakeProperties
	chat  *fakeChat
	local *fakeLocal
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		cfg:   &fakeConfig{cfg: models.DefaultAppConfig()},
		props: &fakeProperties{results: map[string][]models.Property{}, errs: map[string]error{}},
		chat:  &fakeChat{resp: &chat.Response{Text: "Hi"}},
		local: &fakeLocal{},
	}
	f.store = New(Deps{Config: f.cfg, Properties: f.props, Chat: f.chat, Local: f.local},
		append([]Option{WithTypingDelay(10 * time.Millisecond)}, opts...)...)
	t.Cleanup(f.store.Close)
	return f
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	st := f.store.State()

	assert.Equal(t, models.DefaultAppConfig(), st.Config)
	assert.Empty(t, st.ChatMessages)
	assert.Regexp(t, `^session-\d+-[0-9a-f-]{36}$`, st.ChatSessionID)
	assert.False(t, st.IsAuthenticated)

	other := newFixture(t)
	assert.NotEqual(t, st.ChatSessionID, other.store.State().ChatSessionID)
}

func TestState_IsDeepCopy(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.store.SetCategories([]models.Category{{ID: "c1", Name: "Casas"}})
	f.store.SetCategoryProperties("c1", []models.Property{{Title: "Casa", Images: []string{"a"}}})

	st := f.store.State()
	st.Config.Title = "changed"
	st.Config.Categories[0].Listing.Items[0].Images[0] = "changed"
	st.Config.QuickQuestions[0].Text = "changed"

	again := f.store.State()
	assert.Equal(t, "Inmobiliaria Moderna", again.Config.Title)
	assert.Equal(t, "a", again.Config.Categories[0].Listing.Items[0].Images[0])
	assert.NotEqual(t, "changed", again.Config.QuickQuestions[0].Text)
}

func TestSubscribe_NotifiesAndCloses(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ch, cancel := f.store.Subscribe()
	defer cancel()

	f.store.ToggleChat()
	f.store.ToggleChat()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}

	f.store.Close()
	_, ok := <-drain(ch)
	assert.False(t, ok)

	late, _ := f.store.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}

// drain skips pending signals and returns ch once it is closed
func drain(ch <-chan struct{}) <-chan struct{} {
	for range ch {
	}
	return ch
}

func TestModals_AreIndependent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := models.Property{ID: "1", Title: "Casa"}

	f.store.OpenPropertyModal(p)
	f.store.OpenImageModal("https://img/1.jpg")
	st := f.store.State()
	assert.True(t, st.IsPropertyModalOpen)
	assert.True(t, st.IsImageModalOpen)
	require.NotNil(t, st.SelectedProperty)
	assert.Equal(t, "Casa", st.SelectedProperty.Title)
	assert.Equal(t, "https://img/1.jpg", st.ImageModalURL)

	f.store.CloseImageModal()
	st = f.store.State()
	assert.True(t, st.IsPropertyModalOpen)
	assert.False(t, st.IsImageModalOpen)
	assert.Empty(t, st.ImageModalURL)

	f.store.ClosePropertyModal()
	st = f.store.State()
	assert.False(t, st.IsPropertyModalOpen)
	assert.Nil(t, st.SelectedProperty)
}

func TestSetLoadingAndError(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.store.SetLoading(true)
	f.store.SetError("algo falló")
	st := f.store.State()
	assert.True(t, st.IsLoading)
	assert.Equal(t, "algo falló", st.Error)

	f.store.SetError("")
	assert.Empty(t, f.store.State().Error)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	assert.False(t, f.store.Login("x", "y"))
	assert.False(t, f.store.State().IsAuthenticated)

	assert.True(t, f.store.Login("admin", "admin123"))
	assert.True(t, f.store.State().IsAuthenticated)
	assert.True(t, f.local.saved().Authenticated)

	f.store.Logout()
	assert.False(t, f.store.State().IsAuthenticated)
	assert.False(t, f.local.saved().Authenticated)
}

func TestLogin_ConfiguredAndEmptyCredentials(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.cfg.cfg.AdminUsername = "gerente"
	f.cfg.cfg.AdminPassword = "s3creto"
	require.NoError(t, f.store.FetchAndSetConfig(context.Background()))
	assert.False(t, f.store.Login("admin", "admin123"))
	assert.True(t, f.store.Login("gerente", "s3creto"))

	f.store.Logout()
	require.NoError(t, f.store.UpdateAndSaveConfig(context.Background(), func(cfg *models.AppConfig) {
		cfg.AdminUsername = ""
		cfg.AdminPassword = ""
	}))
	assert.True(t, f.store.Login("admin", "admin123"))
}

func TestRestore(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.local.snap = localstate.Snapshot{
		Authenticated: true,
		Categories:    []models.Category{{ID: "c1", Name: "Casas", Color: "#fff000"}},
	}

	require.NoError(t, f.store.Restore())
	st := f.store.State()
	assert.True(t, st.IsAuthenticated)
	require.Len(t, st.Config.Categories, 1)
	assert.Equal(t, "Casas", st.Config.Categories[0].Name)
	assert.False(t, st.Config.Categories[0].Listing.Loaded)
}

func TestRestore_WithoutLocalState(t *testing.T) {
	t.Parallel()
	s := New(Deps{Config: &fakeConfig{}, Chat: &fakeChat{}, Properties: &fakeProperties{}})
	defer s.Close()

	require.NoError(t, s.Restore())
	assert.True(t, s.Login("admin", "admin123"))
}
