package service

import (
	"sync"

	"neurofade/internal/modules/account/domain"
	"neurofade/internal/platform/clock"
)

// Directory holds the logged-in user for the lifetime of the process.
// Credentials are accepted as given.
type Directory struct {
	clock clock.Clock

	mu      sync.RWMutex
	current *domain.User
}

func NewDirectory(clk clock.Clock) *Directory {
	return &Directory{clock: clk}
}

// SignIn replaces the current user and reports whether a different user was
// logged in before.
func (d *Directory) SignIn(user domain.User) (domain.User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switched := d.current != nil && d.current.Username != user.Username
	user.LoggedInAt = d.clock.Now()
	d.current = &user
	return user, switched
}

// Restore puts back a user saved by an earlier process, keeping its login
// time.
func (d *Directory) Restore(user domain.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = &user
}

func (d *Directory) SignOut() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	had := d.current != nil
	d.current = nil
	return had
}

func (d *Directory) Current() (domain.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.current == nil {
		return domain.User{}, false
	}
	return *d.current, true
}

// Update applies fn to the current user. It reports false when nobody is
// logged in.
func (d *Directory) Update(fn func(*domain.User)) (domain.User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return domain.User{}, false
	}
	fn(d.current)
	return *d.current, true
}

// Username names the current user, or "" when nobody is logged in.
func (d *Directory) Username() string {
	u, ok := d.Current()
	if !ok {
		return ""
	}
	return u.Username
}
