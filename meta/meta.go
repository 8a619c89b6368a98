// meta/meta.go
package meta

// WORKERS defines the number of MCTS workers per agent in self-play.
const WORKERS = 4

// ITERATIONS defines the per-worker iteration budget in self-play.
const ITERATIONS = 2000

// GAMES defines the number of games per match up.
const GAMES = 10

// MAX_TURNS caps the length of a self-play game; longer games are recorded as undecided.
const MAX_TURNS = 300
