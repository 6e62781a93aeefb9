// Package fakesim is a scriptable stand-in for the simulation binary used by
// tests. A test binary calls RunIfRequested from TestMain and then executes
// itself with Env() set to act as the simulator.
//
// The fake reads its input file line by line:
//
//	echo TEXT       print TEXT to stdout
//	echo@N TEXT     print TEXT only when the file contains "async N"
//	stderr TEXT     print TEXT to stderr
//	sleep DURATION  sleep before continuing
//	exit N          exit with status N after the whole file is processed
//
// Every other line is ignored. "--version" exits 0 without reading anything.
package fakesim

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// EnvVar switches a test binary into simulator mode.
const EnvVar = "SIMCHECK_FAKE_BINARY"

// Env returns the environment assignment that enables simulator mode.
func Env() string {
	return EnvVar + "=1"
}

// RunIfRequested runs the fake simulator and exits when EnvVar is set. It
// returns normally otherwise.
func RunIfRequested() {
	if os.Getenv(EnvVar) != "1" {
		return
	}
	os.Exit(Main(os.Args[1:], os.Stdout, os.Stderr))
}

var asyncLine = regexp.MustCompile(`(?m)^\s*async\s+(\d+)\s*$`)

// Main interprets args the way the simulator would and returns its exit status.
func Main(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: fakesim INPUT")
		return 64
	}
	if args[0] == "--version" {
		fmt.Fprintln(stdout, "fakesim 1.0")
		return 0
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 66
	}

	async := -1
	if m := asyncLine.FindSubmatch(data); m != nil {
		async, _ = strconv.Atoi(string(m[1]))
	}

	status := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		cmd, rest, _ := strings.Cut(line, " ")
		switch {
		case cmd == "echo":
			fmt.Fprintln(stdout, rest)
		case strings.HasPrefix(cmd, "echo@"):
			n, err := strconv.Atoi(strings.TrimPrefix(cmd, "echo@"))
			if err == nil && n == async {
				fmt.Fprintln(stdout, rest)
			}
		case cmd == "stderr":
			fmt.Fprintln(stderr, rest)
		case cmd == "sleep":
			d, err := time.ParseDuration(rest)
			if err == nil {
				time.Sleep(d)
			}
		case cmd == "exit":
			status, _ = strconv.Atoi(rest)
		}
	}
	return status
}
