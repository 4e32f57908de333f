package dto

type EntryOutput struct {
	Rank  int
	Name  string
	Coins int
	Local bool
}

type LeaderboardOutput struct {
	Entries []EntryOutput
	Rank    int
	Coins   int
}
