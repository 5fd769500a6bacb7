package bootstrap_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetbook/driverapp/internal/bootstrap"
	"github.com/fleetbook/driverapp/internal/config"
	"github.com/fleetbook/driverapp/internal/fleetapi"
)

func TestOpen_REST(t *testing.T) {
	cfg := config.Config{Source: config.SourceREST, FleetAPIURL: "https://fleet.example.com/api", FleetAPITimeout: time.Second}

	src, err := bootstrap.Open(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, err)
	defer src.Close()
	assert.IsType(t, &fleetapi.Client{}, src.Trips)
	assert.Nil(t, src.Pool)
	assert.NotNil(t, src.NewDriverApp(nil))
}

func TestOpen_RESTRejectsBadURL(t *testing.T) {
	cfg := config.Config{Source: config.SourceREST, FleetAPIURL: "not a url"}

	_, err := bootstrap.Open(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Error(t, err)
}

func TestOpen_UnknownSource(t *testing.T) {
	_, err := bootstrap.Open(context.Background(), config.Config{Source: "mongo"}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.ErrorContains(t, err, "mongo")
}
