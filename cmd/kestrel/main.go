// Command kestrel is a UCI chess engine. It speaks UCI over stdin/stdout,
// the same read-dispatch loop as zurichess's cmd/zurichess/main.go.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/kestrel-engine/kestrel/internal/engine"
	"github.com/kestrel-engine/kestrel/internal/nnue"
	"github.com/kestrel-engine/kestrel/internal/uci"
)

var (
	buildVersion = "(devel)"

	evalFile = flag.String("evalfile", "", "path to the NNUE weights file")
	version  = flag.Bool("version", false, "only print version and exit")
)

func main() {
	fmt.Printf("kestrel %v, built with %v, running on %v\n", buildVersion, runtime.Version(), runtime.GOARCH)

	flag.Parse()
	if *version {
		return
	}

	log.SetOutput(os.Stdout)
	log.SetPrefix("info string ")
	log.SetFlags(log.Lshortfile)

	if *evalFile == "" {
		log.Fatal("missing -evalfile: kestrel requires NNUE weights to evaluate positions")
	}
	f, err := os.Open(*evalFile)
	if err != nil {
		log.Fatal(err)
	}
	weights, err := nnue.Load(f)
	f.Close()
	if err != nil {
		log.Fatal(err)
	}

	srv := uci.NewServer(os.Stdout, weights, engine.NoopTablebase{})

	bio := bufio.NewReader(os.Stdin)
	for {
		line, _, err := bio.ReadLine()
		if err != nil {
			log.Println("error:", err)
			break
		}
		if err := srv.Execute(string(line)); err != nil {
			if err != uci.ErrQuit {
				log.Println("for line:", string(line))
				log.Println("error:", err)
			} else {
				break
			}
		}
	}
}
