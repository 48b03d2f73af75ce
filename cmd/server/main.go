package main

import "github.com/rlemos/roombook/internal/server"

func main() {
	server.New().Run()
}
