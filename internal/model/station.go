package model

// StationKind тип рабочего поста
type StationKind string

const (
	StationKindLift  StationKind = "lift"
	StationKindPit   StationKind = "pit"
	StationKindOther StationKind = "other"
)

// Station физический пост (подъёмник, яма, мойка).
// Набор постов задаётся при деплое и не меняется во время работы.
type Station struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Kind StationKind `json:"kind"`
}
