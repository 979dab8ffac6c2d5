package main

import "trailswipe-backend/cmd"

func main() {
	cmd.Run()
}
