package main

import "github.com/messmate/messmate/app"

func main() {
	app.New(nil).Run()
}
