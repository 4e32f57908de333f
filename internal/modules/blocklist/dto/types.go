package dto

type BlockListOutput struct {
	Apps []string
}

type AppOutput struct {
	ID       string
	Name     string
	Selected bool
}
