package validation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/pickupgames/internal/model"
)

func TestEvent(t *testing.T) {
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	valid := model.EventInput{
		Title:      "Five-a-side",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		MaxPlayers: model.MinPlayers,
	}

	tests := []struct {
		name   string
		mutate func(in *model.EventInput)
		want   error
	}{
		{name: "valid", mutate: func(in *model.EventInput) {}, want: nil},
		{name: "end equals start", mutate: func(in *model.EventInput) { in.EndTime = in.StartTime }, want: model.ErrInvalidTimeRange},
		{name: "end before start", mutate: func(in *model.EventInput) { in.EndTime = start.Add(-time.Minute) }, want: model.ErrInvalidTimeRange},
		{name: "one player", mutate: func(in *model.EventInput) { in.MaxPlayers = 1 }, want: model.ErrInvalidMaxPlayers},
		{name: "negative players", mutate: func(in *model.EventInput) { in.MaxPlayers = -3 }, want: model.ErrInvalidMaxPlayers},
		{name: "empty free text allowed", mutate: func(in *model.EventInput) { in.Title = "" }, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			err := Event(context.Background(), in)

			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestAccount(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, Account(ctx, Credentials{Username: "alice", Password: "pw"}))
	assert.ErrorIs(t, Account(ctx, Credentials{Password: "pw"}), model.ErrInvalidInput)
	assert.ErrorIs(t, Account(ctx, Credentials{Username: "alice"}), model.ErrInvalidInput)
}
