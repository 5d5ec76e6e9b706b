// mimic pretends to be a metadata-extraction tool running in
// interactive batch mode.  It reads newline-delimited arguments from
// stdin, executes them when an -execute<N> line arrives, terminates
// its stdout with {ready<N>}, and honors -echo4 directives (with
// ${status} substitution) on stderr.  Its behavior is deterministic,
// which makes it useful as a stand-in for the real tool in tests.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const version = "12.76"

func main() {
	var failOnStartup bool
	flag.BoolVar(&failOnStartup, "fail-on-startup", false,
		"Exit with an error before reading any commands.")
	flag.Parse()
	if failOnStartup {
		fmt.Fprintln(os.Stderr, "ordered to fail on startup")
		os.Exit(1)
	}
	run(os.Stdin, os.Stdout, os.Stderr)
}

func run(in io.Reader, out, errOut io.Writer) {
	sc := bufio.NewScanner(in)
	var args []string
	awaitingStayOpen := false
	for sc.Scan() {
		line := sc.Text()
		if awaitingStayOpen {
			awaitingStayOpen = false
			if strings.EqualFold(line, "False") {
				return
			}
			continue
		}
		if line == "-stay_open" {
			awaitingStayOpen = true
			continue
		}
		if id, ok := strings.CutPrefix(line, "-execute"); ok {
			execute(args, id, out, errOut)
			args = args[:0]
			continue
		}
		args = append(args, line)
	}
}

type request struct {
	echoErr []string
	tags    []string
	files   []string
	jsonOut bool
	binOut  bool
	preview bool
	showVer bool
}

func parse(args []string) request {
	var r request
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-echo4":
			if i+1 < len(args) {
				i++
				r.echoErr = append(r.echoErr, args[i])
			}
		case a == "-ver":
			r.showVer = true
		case a == "-j":
			r.jsonOut = true
		case a == "-b":
			r.binOut = true
		case a == "-PreviewImage":
			r.preview = true
		case strings.HasPrefix(a, "-"):
			r.tags = append(r.tags, strings.TrimPrefix(a, "-"))
		default:
			r.files = append(r.files, a)
		}
	}
	return r
}

func execute(args []string, id string, out, errOut io.Writer) {
	r := parse(args)
	status := 0
	var found []string
	for _, f := range r.files {
		// Any file with "missing" in its name doesn't exist.
		if strings.Contains(f, "missing") {
			fmt.Fprintf(errOut, "Error: File not found - %s\n", f)
			status = 1
			continue
		}
		found = append(found, f)
	}
	switch {
	case r.showVer:
		fmt.Fprintln(out, version)
	case r.jsonOut:
		writeJSON(out, found, r.tags)
	case r.binOut && r.preview:
		for _, f := range found {
			fmt.Fprintf(out, "PREVIEW:%s", f)
		}
	default:
		for _, f := range found {
			fmt.Fprintf(out, "File: %s\n", f)
		}
	}
	fmt.Fprintf(out, "{ready%s}\n", id)
	for _, e := range r.echoErr {
		fmt.Fprintln(errOut,
			strings.ReplaceAll(e, "${status}", strconv.Itoa(status)))
	}
}

func writeJSON(out io.Writer, files, tags []string) {
	objs := make([]map[string]string, 0, len(files))
	for _, f := range files {
		o := map[string]string{"SourceFile": f}
		for _, t := range tags {
			o[t] = t + "-of-" + f
		}
		objs = append(objs, o)
	}
	b, err := json.Marshal(objs)
	if err != nil {
		fmt.Fprintln(out, "[]")
		return
	}
	fmt.Fprintf(out, "%s\n", b)
}
