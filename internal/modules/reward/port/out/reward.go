package out

// Identity names the local entry on the leaderboard.
type Identity interface {
	Username() string
}
