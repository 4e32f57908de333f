package dto

import "time"

type LoginInput struct {
	Username string
	Password string
}

type SignUpInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
}

type DetailsInput struct {
	FirstName string
	LastName  string
}

type UserOutput struct {
	Username    string
	DisplayName string
	FirstName   string
	LastName    string
	WatchSynced bool
	LoggedInAt  time.Time
}
