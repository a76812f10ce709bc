package main

import "monitoria-system/cmd/server"

func main() {
	server.Init()
	server.Run()
}
