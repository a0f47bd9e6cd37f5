package server_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tiliavir/headache-tracker/internal/logging"
	"github.com/Tiliavir/headache-tracker/internal/logstore"
	"github.com/Tiliavir/headache-tracker/internal/server"
	"github.com/Tiliavir/headache-tracker/internal/storage"
	"github.com/Tiliavir/headache-tracker/internal/uistate"
)

func TestNew(t *testing.T) {
	adapter := storage.NewAdapter(storage.NewMemoryBackend(), storage.Options{})
	store := logstore.Open(context.Background(), adapter, logging.Nop())

	assert.NotNil(t, server.New(server.Deps{Store: store, UI: uistate.New(t.TempDir(), nil), Window: 7}))
	assert.NotNil(t, server.New(server.Deps{Store: store}), "panels tool is optional")
}
