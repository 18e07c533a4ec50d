package game

// GameStatus is the lifecycle state of a session. The in-play serve/playing/
// game-over machine lives on the Table; these track the session around it.
type GameStatus string

const (
	StatusWaiting    GameStatus = "WAITING"     // created, player not yet connected
	StatusInProgress GameStatus = "IN_PROGRESS" // loop running
	StatusCompleted  GameStatus = "COMPLETED"   // game over reached
	StatusCancelled  GameStatus = "CANCELLED"   // quit, expired, or idled out
)
