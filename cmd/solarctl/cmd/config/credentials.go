package config

import (
	"github.com/solarops/solar-console/credstore"
)

// ContextStore adapts the active CLI context to the SDK's credential store.
// The session fragment of the context is read and written through the config
// file, so the same token the transport refreshes is what 'auth whoami' sees.
type ContextStore struct{}

var _ credstore.Store = ContextStore{}

func (ContextStore) Load() (credstore.Credentials, error) {
	ctx, err := GetCurrentContext()
	if err != nil {
		return credstore.Credentials{}, err
	}
	return credstore.Credentials{
		AccessToken: ctx.AccessToken,
		UserID:      ctx.UserID,
		Role:        ctx.Role,
	}, nil
}

func (ContextStore) Save(creds credstore.Credentials) error {
	ctx, err := GetCurrentContext()
	if err != nil {
		return err
	}
	ctx.AccessToken = creds.AccessToken
	ctx.UserID = creds.UserID
	ctx.Role = creds.Role
	GlobalConfig.Contexts[GlobalConfig.CurrentContext] = ctx
	return SaveConfig()
}

func (ContextStore) Clear() error {
	return ContextStore{}.Save(credstore.Credentials{})
}
