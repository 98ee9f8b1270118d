package main

import "github.com/frahmantamala/pos-identity/cmd"

func main() {
	cmd.Execute()
}
