package service

import (
	"iter"
	"sort"
	"sync"

	"neurofade/internal/modules/reward/domain"
)

// Ledger holds the local coin balance for the logged-in user.
type Ledger struct {
	mu    sync.Mutex
	coins int
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Increment adds one coin and returns the new balance.
func (l *Ledger) Increment() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.coins++
	return l.coins
}

func (l *Ledger) Coins() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.coins
}

func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.coins = 0
}

// RankedView ranks the local balance against the fixed peers. The local
// entry is inserted first and the sort is stable, so it wins ties.
func (l *Ledger) RankedView(username string) []domain.Entry {
	name := username
	if name == "" {
		name = domain.LocalFallbackName
	}
	entries := make([]domain.Entry, 0, len(domain.Peers)+1)
	entries = append(entries, domain.Entry{Name: name, Coins: l.Coins(), Local: true})
	for _, p := range domain.Peers {
		entries = append(entries, domain.Entry{Name: p.Name, Coins: p.Coins})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Coins > entries[j].Coins })
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// All yields a freshly ranked view on every iteration.
func (l *Ledger) All(username string) iter.Seq[domain.Entry] {
	return func(yield func(domain.Entry) bool) {
		for _, e := range l.RankedView(username) {
			if !yield(e) {
				return
			}
		}
	}
}

func LocalRank(entries []domain.Entry) int {
	for _, e := range entries {
		if e.Local {
			return e.Rank
		}
	}
	return 0
}
