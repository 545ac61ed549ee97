package state

import (
	"sync"
)

// Manager хранит шаги диалогов по чатам
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // chatID -> UserData
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]*UserData),
	}
}

// GetState получает текущий шаг диалога
func (sm *Manager) GetState(chatID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[chatID]; exists {
		return userData.State
	}
	return StateNone
}

// SetState переводит диалог на шаг state, данные сохраняются
func (sm *Manager) SetState(chatID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.states, chatID)
		return
	}

	sm.entryLocked(chatID).State = state
}

// Begin начинает новый диалог с чистыми данными
func (sm *Manager) Begin(chatID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[chatID] = &UserData{
		State: state,
		Data:  make(map[string]any),
	}
}

// GetData получает временные данные
func (sm *Manager) GetData(chatID int64, key string) (any, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[chatID]; exists {
		value, ok := userData.Data[key]
		return value, ok
	}
	return nil, false
}

// GetString получает строковое значение, пустая строка если его нет
func (sm *Manager) GetString(chatID int64, key string) string {
	v, ok := sm.GetData(chatID, key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// SetData устанавливает временные данные
func (sm *Manager) SetData(chatID int64, key string, value any) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.entryLocked(chatID).Data[key] = value
}

// ClearState завершает диалог
func (sm *Manager) ClearState(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, chatID)
}

func (sm *Manager) entryLocked(chatID int64) *UserData {
	userData, exists := sm.states[chatID]
	if !exists {
		userData = &UserData{
			State: StateNone,
			Data:  make(map[string]any),
		}
		sm.states[chatID] = userData
	}
	return userData
}
