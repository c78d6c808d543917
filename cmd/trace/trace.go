package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gookit/color"
	"github.com/lumen-dev/lumen/asm"
	"github.com/lumen-dev/lumen/interp"
	"github.com/lumen-dev/lumen/vm"
)

var (
	file    = flag.String("file", "", "Program file")
	noPause = flag.Bool("no-pause", true, "Ignore PAUSE instructions")
	full    = flag.Bool("full", false, "Print the whole machine state, not just registers")
)

func main() {
	flag.Parse()
	if *file == "" {
		log.Fatal("--file is required")
	}
	p, err := asm.LoadFile(*file)
	if err != nil {
		log.Fatalf("couldn't load: %s", err)
	}
	trace(p)
}

func trace(prog *vm.Program) {
	m := interp.NewMachine(interp.Options{NoPause: *noPause})
	m.Load(prog)
	ctx := context.Background()
	for {
		fmt.Println("*******")
		prettyPrint(m)
		v, err := m.Step(ctx)
		if err != nil {
			log.Fatalln(color.Red.Sprint("Got err:"), err)
		}
		if v == interp.StopStep {
			fmt.Println(color.Green.Sprint("Finished"))
			break
		} else {
			fmt.Println("Continuing")
		}
	}
	fmt.Fprint(os.Stdout, m.PrettyPrint())
}

func prettyPrint(m *interp.Machine) {
	if *full {
		fmt.Print(m.PrettyPrint())
	} else {
		fmt.Print(m.Registers().PrettyPrint())
	}
	pc := m.Registers().PC
	code := m.Program().Code
	if pc < 0 || pc >= len(code) {
		fmt.Println(color.Yellow.Sprint("End of instructions"))
	} else {
		fmt.Println(color.Cyan.Sprintf("NextOp: %03d %s", pc, code[pc]))
	}
}
