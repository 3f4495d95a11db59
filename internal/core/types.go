package core

const (
	AppName       = "gomibot"
	UserAgent     = "gomibot/0.1"
	RepositoryURL = "https://github.com/sandevgo/gomibot"
	Version       = "0.1.0"
)
