package main

import (
	"log"
	"os"
	"runtime"

	app "github.com/richinsley/firstgl/app"
	options "github.com/richinsley/firstgl/options"
)

// GLFW event polling and the GL context must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	opts, err := options.Load(".env")
	if err != nil {
		log.Printf("Invalid configuration: %v", err)
		os.Exit(1)
	}

	wm, err := app.NewWindowManager(opts)
	if err != nil {
		log.Printf("Failed to create window manager: %v", err)
		os.Exit(1)
	}

	code := app.New(wm, opts).GLMain()
	if code < 0 {
		// Exit statuses are unsigned.
		code = 1
	}
	os.Exit(code)
}
