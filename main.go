package main

import (
	"github.com/yashkamboj/portfolio/cmd"
	_ "github.com/yashkamboj/portfolio/cmd/cli"
	_ "github.com/yashkamboj/portfolio/cmd/server"
)

func main() {
	cmd.Execute()
}
