package events_test

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/KirkDiggler/state-accumulation/internal/events"
	"github.com/KirkDiggler/state-accumulation/internal/uuid/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBus_PriorityOrder(t *testing.T) {
	bus := events.NewBus(nil)

	var order []string
	record := func(name string) func(*events.Event) error {
		return func(*events.Event) error {
			order = append(order, name)
			return nil
		}
	}

	bus.Subscribe(events.OnStateActivated, events.NewListener("log", events.PriorityLog, record("log")))
	bus.Subscribe(events.OnStateActivated, events.NewListener("record", 100, record("record")))
	bus.Subscribe(events.OnStateActivated, events.NewListener("display", 200, record("display")))

	require.NoError(t, bus.Emit(&events.Event{Type: events.OnStateActivated}))
	assert.Equal(t, []string{"record", "display", "log"}, order)
}

func TestBus_StampsEventIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	ids := mocks.NewMockGenerator(ctrl)
	ids.EXPECT().New().Return("evt-1")

	bus := events.NewBus(ids)

	event := &events.Event{Type: events.OnAccumulated}
	require.NoError(t, bus.Emit(event))
	assert.Equal(t, "evt-1", event.ID)

	preset := &events.Event{ID: "keep", Type: events.OnAccumulated}
	require.NoError(t, bus.Emit(preset))
	assert.Equal(t, "keep", preset.ID)
}

func TestBus_CancelStopsPropagation(t *testing.T) {
	bus := events.NewBus(nil)

	reached := false
	bus.Subscribe(events.OnAccumulated, events.NewListener("first", 1, func(e *events.Event) error {
		e.Cancel()
		return nil
	}))
	bus.Subscribe(events.OnAccumulated, events.NewListener("second", 2, func(*events.Event) error {
		reached = true
		return nil
	}))

	require.NoError(t, bus.Emit(&events.Event{Type: events.OnAccumulated}))
	assert.False(t, reached)
}

func TestBus_ListenerErrorAndUnsubscribe(t *testing.T) {
	bus := events.NewBus(nil)
	bus.Subscribe(events.OnStateRemoved, events.NewListener("broken", 1, func(*events.Event) error {
		return errors.New("boom")
	}))

	err := bus.Emit(&events.Event{Type: events.OnStateRemoved})
	assert.ErrorContains(t, err, "listener broken failed")

	bus.Unsubscribe(events.OnStateRemoved, "broken")
	assert.NoError(t, bus.Emit(&events.Event{Type: events.OnStateRemoved}))

	bus.Subscribe(events.OnStateRemoved, events.NewListener("broken", 1, func(*events.Event) error {
		return errors.New("boom")
	}))
	bus.Clear()
	assert.NoError(t, bus.Emit(&events.Event{Type: events.OnStateRemoved}))
}

func TestBattleLogListener(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	bus := events.NewBus(nil)
	for _, et := range events.BattleLogEvents {
		bus.Subscribe(et, events.NewBattleLogListener())
	}

	require.NoError(t, bus.Emit(&events.Event{Type: events.OnStateActivated, CharacterID: "orc", StateID: 3, Total: 1.2}))
	require.NoError(t, bus.Emit(&events.Event{Type: events.OnBattleEndReset, CharacterID: "hero", StateID: 3, Value: 0.4}))
	require.NoError(t, bus.Emit(&events.Event{Type: events.OnFormulaError, CharacterID: "hero"}))

	out := buf.String()
	assert.Contains(t, out, "[ACCUMULATION] State 3 activated on orc at 1.200")
	assert.Contains(t, out, "[ACCUMULATION] Battle end reset state 3 on hero from 0.400")
	assert.NotContains(t, out, "formula", "formula errors belong to the author warning listener")
}
