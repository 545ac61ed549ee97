package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerDialogLifecycle(t *testing.T) {
	t.Parallel()

	sm := NewManager()
	assert.Equal(t, StateNone, sm.GetState(1))

	sm.Begin(1, StateLoginHandle)
	sm.SetData(1, KeyHandle, "ivan")
	sm.SetState(1, StateLoginSecret)

	assert.Equal(t, StateLoginSecret, sm.GetState(1))
	assert.True(t, sm.GetState(1).Secret())
	assert.Equal(t, "ivan", sm.GetString(1, KeyHandle))

	// новый диалог стирает старые данные
	sm.Begin(1, StateRegisterName)
	assert.Empty(t, sm.GetString(1, KeyHandle))

	sm.SetState(1, StateNone)
	assert.Equal(t, StateNone, sm.GetState(1))

	// чаты независимы
	sm.SetData(2, KeyField, 42)
	assert.Equal(t, "", sm.GetString(2, KeyField))
	v, ok := sm.GetData(2, KeyField)
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	sm.ClearState(2)
	_, ok = sm.GetData(2, KeyField)
	assert.False(t, ok)
}
