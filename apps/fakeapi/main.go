// Command fakeapi serves the courses API fixtures for local development and end-to-end runs.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/Eddy-Prime/SE-Complete-Project/tests/courseapi"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	logger := log.New(os.Stdout, "FAKEAPI : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger.Printf("courses api fixtures listening on %s", *addr)
	if err := courseapi.New().Start(*addr); err != nil {
		logger.Fatal(err)
	}
}
