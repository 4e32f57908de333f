package domain

// LocalFallbackName labels the local entry when nobody is logged in.
const LocalFallbackName = "You"

type Peer struct {
	Name  string
	Coins int
}

// Peers are the fixed competitors every leaderboard is ranked against.
var Peers = []Peer{
	{Name: "FocusMaster", Coins: 2800},
	{Name: "ZenMind", Coins: 2500},
	{Name: "BrainWave", Coins: 2200},
	{Name: "NeuroHacker", Coins: 2000},
	{Name: "MindfulPro", Coins: 1800},
	{Name: "FocusNinja", Coins: 1600},
	{Name: "BrainBooster", Coins: 1400},
	{Name: "CalmMaster", Coins: 1200},
	{Name: "ZenWarrior", Coins: 1000},
}

type Entry struct {
	Rank  int
	Name  string
	Coins int
	Local bool
}
