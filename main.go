package main

import "github.com/xcfem/xc-sub010/cmd"

func main() {
	cmd.Execute()
}
