package main

import "questvault/cmd/qv/root"

func main() {
	root.Execute()
}
