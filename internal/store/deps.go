package store

import (
	"context"

	"github.com/inmobiliaria/storefront/internal/chat"
	"github.com/inmobiliaria/storefront/internal/localstate"
	"github.com/inmobiliaria/storefront/internal/models"
	"github.com/inmobiliaria/storefront/internal/properties"
)

// ConfigGateway loads and persists the tenant configuration document
type ConfigGateway interface {
	Fetch(ctx context.Context) (models.AppConfig, error)
	Update(ctx context.Context, cfg models.AppConfig) error
}

// PropertyGateway reads property listings
type PropertyGateway interface {
	FetchByCategory(ctx context.Context, params properties.Params, category string) ([]models.Property, error)
	Probe(ctx context.Context, params properties.Params) error
}

// ChatGateway delivers a chat turn to the assistant webhook
type ChatGateway interface {
	Send(ctx context.Context, webhookURL, text, sessionID string) (*chat.Response, error)
}

// LocalState persists the authentication flag and category metadata across restarts
type LocalState interface {
	Load() (localstate.Snapshot, error)
	Save(snap localstate.Snapshot) error
}

// Deps are the collaborators of a Store. Local may be nil.
type Deps struct {
	Config     ConfigGateway
	Properties PropertyGateway
	Chat       ChatGateway
	Local      LocalState
}
