package main

import (
	"github.com/rksnider/SensorCollar/pkg/cli/sh"
	"github.com/rksnider/SensorCollar/pkg/config"
)

func init() {
	config.SetupFlags()
}

func main() {
	sh.Main()
}
