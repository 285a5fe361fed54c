package main

import (
	"github.com/jaeaeich/nbrun/internal/api"
)

func handleServeCmd() {
	api.Start()
}
