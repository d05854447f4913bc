package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/logrusorgru/aurora"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/ezrec/asmsim/asm"
	"github.com/ezrec/asmsim/flow"
	"github.com/ezrec/asmsim/runner"
	"github.com/ezrec/asmsim/sim"
)

// run is one analysis of the program, in one direction.
type run struct {
	Name     string
	Backward bool

	graph *runner.Graph
	end   *sim.State
}

// execute runs the analysis in its own Tools.
func (r *run) execute(fl *flow.Flow, config sim.Config) (err error) {
	tools := sim.NewTools(config)
	if r.Backward {
		r.graph, err = runner.Backward(fl, fl.NLines(), config.MaxSteps, tools)
	} else {
		r.graph, err = runner.Forward(fl, 0, config.MaxSteps, tools)
	}
	if err != nil {
		err = fmt.Errorf("%v: %w", r.Name, err)
		return
	}

	r.end, err = r.graph.EndState()
	if errors.Is(err, runner.ErrNoEndState) {
		err = nil
	}
	return
}

// report writes the end state, or the truncated leaves when no path
// completed.
func (r *run) report(w io.Writer, au aurora.Aurora, verbose bool) {
	fmt.Fprintf(w, "; %v %v\n", r.Name, r.graph.Tools().RunID)
	if verbose {
		fmt.Fprint(w, r.graph.String())
	}
	if r.end != nil {
		fmt.Fprint(w, colorize(au, r.end.String()))
		return
	}
	for _, leaf := range r.graph.Leaves() {
		fmt.Fprintf(w, "; line %d: stopped\n", leaf.LineNo)
		fmt.Fprint(w, colorize(au, leaf.State.String()))
	}
}

// load assembles a program file and builds its flow.
func load(path string, verbose bool) (fl *flow.Flow, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	assembler := &asm.Assembler{Verbose: verbose}
	prog, err := assembler.Parse(inf)
	if err != nil {
		return
	}

	fl, err = flow.New(prog)
	if err != nil {
		return
	}
	fl.Verbose = verbose
	fl.Compact()
	return
}

func main() {
	var configFile string
	var timeout time.Duration
	var forward, backward, both bool
	var steps int
	var dotFile string
	var regs string
	var showFlow bool
	var verbose bool

	flag.StringVar(&configFile, "config", "", "Run description (.yaml or .toml)")
	flag.DurationVar(&timeout, "timeout", 0, "Solver timeout per query")
	flag.BoolVar(&forward, "forward", false, "Run forward from the first line (default)")
	flag.BoolVar(&backward, "backward", false, "Run backward from the program exit")
	flag.BoolVar(&both, "both", false, "Run forward and backward")
	flag.IntVar(&steps, "steps", 0, "Maximum lines executed per run")
	flag.StringVar(&dotFile, "dot", "", "Write the run graphs to a .dot file")
	flag.StringVar(&regs, "regs", "", "Comma separated registers and flags to report")
	flag.BoolVar(&showFlow, "flow", false, "Print the static control flow")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: expected one program, got: %v", os.Args[0], flag.Args())
	}
	source := flag.Arg(0)

	config := sim.DefaultConfig()
	if len(configFile) != 0 {
		if err := loadConfig(configFile, &config); err != nil {
			log.Fatalf("%v: %v", configFile, err)
		}
	}
	applyEnv(&config)
	if timeout > 0 {
		config.Timeout = timeout
	}
	if steps > 0 {
		config.MaxSteps = steps
	}
	if verbose {
		config.Verbose = true
	}
	if len(regs) != 0 {
		sc, err := sim.ParseStateConfig(regs)
		if err != nil {
			log.Fatalf("%v: %v", regs, err)
		}
		config.StateConfig = sc
	}

	fl, err := load(source, config.Verbose)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}
	if showFlow {
		fmt.Print(fl.String())
	}

	var runs []*run
	if forward || both || !backward {
		runs = append(runs, &run{Name: "forward"})
	}
	if backward || both {
		runs = append(runs, &run{Name: "backward", Backward: true})
	}

	var eg errgroup.Group
	for _, r := range runs {
		eg.Go(func() error {
			return r.execute(fl, config)
		})
	}
	if err := eg.Wait(); err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	au := aurora.NewAurora(term.IsTerminal(int(os.Stdout.Fd())))
	for _, r := range runs {
		r.report(os.Stdout, au, config.Verbose)
	}

	if len(dotFile) != 0 {
		ouf, err := os.Create(dotFile)
		if err != nil {
			log.Fatalf("%v: %v", dotFile, err)
		}
		defer ouf.Close()
		for _, r := range runs {
			fmt.Fprint(ouf, r.graph.Dot())
		}
	}
}
