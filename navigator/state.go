package navigator

//go:generate go tool go-enum --marshal --names --values

// Stage of locator tracking.
// ENUM(idle, settling, stable)
type State int
