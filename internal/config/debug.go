package config

import "os"

func IsDebug() bool {
	return os.Getenv("GOMI_DEBUG") == "1"
}
