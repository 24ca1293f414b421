// internal/rules/engine_test.go
package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// orderModule records dispatch order and returns configurable effects.
type orderModule struct {
	name    string
	effects Effects
	log     *[]string
}

func (m *orderModule) Name() string { return m.name }

func (m *orderModule) OnChat(ctx Context) { *m.log = append(*m.log, m.name+":chat") }

func (m *orderModule) OnPlayValidated(ctx Context) Effects {
	*m.log = append(*m.log, m.name+":play")
	return m.effects
}

// chatOnlyModule opts into nothing but the Module interface.
type chatOnlyModule struct{}

func (m *chatOnlyModule) Name() string { return "inert" }

func TestEngineDispatchOrder(t *testing.T) {
	var log []string
	e := NewEngine(
		&orderModule{name: "first", log: &log},
		&orderModule{name: "second", log: &log},
	)
	e.Use(&orderModule{name: "third", log: &log})

	e.OnChat(newFakeCtx())
	assert.Equal(t, []string{"first:chat", "second:chat", "third:chat"}, log)
}

func TestEngineMergesEffects(t *testing.T) {
	var log []string
	e := NewEngine(
		&orderModule{name: "a", log: &log},
		&orderModule{name: "b", effects: Effects{SkipNext: true}, log: &log},
		&orderModule{name: "c", log: &log},
	)
	effects := e.OnPlayValidated(newFakeCtx())
	assert.True(t, effects.SkipNext, "any module's skip survives the merge")
	assert.Len(t, log, 3, "every play hook still runs")
}

func TestEngineSkipsUnimplementedHooks(t *testing.T) {
	e := NewEngine(&chatOnlyModule{})
	// Must not panic and must return zero effects.
	e.OnChat(newFakeCtx())
	e.OnSing(newFakeCtx())
	e.OnKnock(newFakeCtx())
	assert.False(t, e.OnPlayValidated(newFakeCtx()).SkipNext)
}
