package main

import (
	"github.com/muhammadkh97/bawwabty-marketplace/internal/app"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
