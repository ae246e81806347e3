package main

import (
	"github.com/mj1618/weel/cmd"

	_ "github.com/mj1618/weel/internal/platform/darwin"
	_ "github.com/mj1618/weel/internal/platform/linux"
)

func main() {
	cmd.Execute()
}
