package handlers

import (
	"context"
	"errors"

	"github.com/Werneck0live/simulador-tributario/internal/broker"
	"github.com/Werneck0live/simulador-tributario/internal/fx"
	"github.com/Werneck0live/simulador-tributario/internal/repository"
)

type pubMock struct {
	PublishFn func(ctx context.Context, ev broker.Event) error
}

func (p *pubMock) Publish(ctx context.Context, ev broker.Event) error {
	if p.PublishFn == nil {
		return nil
	}
	return p.PublishFn(ctx, ev)
}

type fxMock struct {
	USDBRLFn func(ctx context.Context) fx.Quote
}

func (m *fxMock) USDBRL(ctx context.Context) fx.Quote {
	if m.USDBRLFn == nil {
		return fx.Quote{}
	}
	return m.USDBRLFn(ctx)
}

type versionsMock struct {
	ListVersionsFn func(ctx context.Context) ([]repository.VersionInfo, error)
}

func (m *versionsMock) ListVersions(ctx context.Context) ([]repository.VersionInfo, error) {
	if m.ListVersionsFn == nil {
		return nil, errors.New("ListVersionsFn not set")
	}
	return m.ListVersionsFn(ctx)
}
