package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.creack.net/intcode/assets"
	"go.creack.net/intcode/disasm"
	"go.creack.net/intcode/program"
)

// searchKnownProgram looks for an embedded program with the same fingerprint.
func searchKnownProgram(fp uint64) (string, error) {
	for _, name := range assets.Names() {
		p, err := assets.Load(name)
		if err != nil {
			return "", fmt.Errorf("failed to load known program: %w", err)
		}
		if program.Fingerprint(p) == fp {
			return name, nil
		}
	}
	return "", nil
}

func disas(prog []int64, raw, comments bool) error {
	known, err := searchKnownProgram(program.Fingerprint(prog))
	if err != nil {
		return fmt.Errorf("failed to search known programs: %w", err)
	}
	if known != "" {
		log.Printf("Found match in known programs: %s.\n", known)
	}

	for _, elem := range disasm.Disasm(prog) {
		var notes []string
		if raw {
			end := elem.Addr + int64(elem.Size())
			notes = append(notes, program.Format(prog[elem.Addr:end]))
		}
		if comments && elem.Comment() != "" {
			notes = append(notes, elem.Comment())
		}
		if len(notes) == 0 {
			fmt.Printf("%s\n", elem)
			continue
		}
		fmt.Printf("%-40s ; %s\n", elem, strings.Join(notes, " ; "))
	}
	return nil
}

func main() {
	raw := flag.Bool("raw", false, "show the raw cells next to each line")
	comments := flag.Bool("comments", false, "describe each instruction")
	embedded := flag.String("embedded", "", "disassemble an embedded program instead of a file ("+strings.Join(assets.Names(), ", ")+")")
	flag.Parse()
	f := flag.Arg(0)
	if f == "" && *embedded == "" {
		tmp := strings.Split(os.Args[0], "/")
		binName := tmp[len(tmp)-1]
		fmt.Fprintf(os.Stderr, "usage: %s <program path> [options]\n", binName)
		flag.PrintDefaults()
		return
	}

	var (
		prog []int64
		err  error
	)
	if *embedded != "" {
		prog, err = assets.Load(*embedded)
	} else {
		prog, err = program.Load(f)
	}
	if err != nil {
		log.Fatalf("failed to load program: %s", err)
	}
	if err := disas(prog, *raw, *comments); err != nil {
		println("Fail:", err.Error())
		os.Exit(1)
	}
}
