package factory

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/pickupgames/internal/dependencies/mocks"
	"github.com/mcoot/pickupgames/internal/kv/memory"
	"github.com/mcoot/pickupgames/internal/model"
	"github.com/mcoot/pickupgames/internal/services/auth"
	"github.com/mcoot/pickupgames/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDs
	MemoryKV  *memory.Storage
}

// NewTestApp creates an App over an in-memory KV store with mocked time and ids
func NewTestApp() *TestApp {
	backing := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDs()

	app, err := newWithDependencies(
		context.Background(),
		backing,
		mockClock,
		mockIDs,
		auth.Config{BcryptCost: bcrypt.MinCost},
		testutil.NopLogger(),
	)
	if err != nil {
		// The memory store cannot fail to open
		panic(err)
	}

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
		MemoryKV:  backing,
	}
}

// NewEventInput returns a valid event input starting after the given offset from now
func (t *TestApp) NewEventInput(title string, startIn time.Duration, maxPlayers int) model.EventInput {
	start := t.MockClock.Now().Add(startIn)
	return model.EventInput{
		Title:      title,
		Sport:      "football",
		Location:   "Hackney Marshes",
		StartTime:  start,
		EndTime:    start.Add(90 * time.Minute),
		MaxPlayers: maxPlayers,
	}
}
