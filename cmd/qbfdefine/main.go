// Command qbfdefine finds propositional definitions of existential
// variables in a QDIMACS-encoded quantified Boolean formula.
package main

import (
	"fmt"
	"os"

	"github.com/fslivovsky/go-definitions"
	"github.com/fslivovsky/go-definitions/internal/qdimacs"
	"github.com/mitchellh/go-sat/cnf"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	basic bool
	debug bool
)

var rootCmd = &cobra.Command{
	Use:           "qbfdefine <input>",
	Short:         "Find propositional definitions of existential variables",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	rootCmd.Flags().BoolVar(&basic, "basic", false, "use the basic forward-order enumeration strategy")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "log per-variable diagnostics")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if cause := errors.Cause(err); os.IsNotExist(cause) {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string) error {
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	f, err := qdimacs.Open(path)
	if err != nil {
		return err
	}

	extractor := definitions.New()
	extractor.AppendFormula(cnf.Formula(f.Clauses))

	var nrDefined, nrExistential int
	if basic {
		nrDefined, nrExistential = runBasic(extractor, f)
	} else {
		nrDefined, nrExistential = runTransitiveSupport(extractor, f)
	}

	fmt.Println()
	fmt.Printf("Number of defined existential variables: %d/%d\n", nrDefined, nrExistential)
	return nil
}

// runBasic walks variables in QDIMACS order, accumulating every variable
// seen so far as a candidate definer for the next existential one.
func runBasic(extractor *definitions.Extractor, f *qdimacs.Formula) (nrDefined, nrExistential int) {
	var defining []int
	for i, v := range f.Vars {
		displayProgress(float64(i+1) / float64(f.NumVars))
		if f.IsExistential[i] {
			nrExistential++
			logrus.Debugf("checking variable %d against %d candidates", v, len(defining))
			if extractor.HasDefinition(v, defining, nil) {
				nrDefined++
				extractor.GetDefinition(false)
			}
		}
		defining = append(defining, v)
	}
	return nrDefined, nrExistential
}

// runTransitiveSupport walks variables in reverse QDIMACS order. Each
// existential variable is checked against every universal variable plus
// every other existential variable not yet shown to be transitively
// supported by it -- a defined variable x is excluded from y's candidate set
// once y turns out to already be part of x's own transitive support, since
// offering x as a potential definer for y in that case would make the
// definition circular.
func runTransitiveSupport(extractor *definitions.Extractor, f *qdimacs.Formula) (nrDefined, nrExistential int) {
	var universals, existentials []int
	for i, v := range f.Vars {
		if f.IsExistential[i] {
			existentials = append(existentials, v)
		} else {
			universals = append(universals, v)
		}
	}

	defined := make(map[int]bool)
	transitiveSupport := make(map[int]map[int]struct{})

	n := len(f.Vars)
	for i := n - 1; i >= 0; i-- {
		displayProgress(float64(n-i) / float64(f.NumVars))
		if !f.IsExistential[i] {
			continue
		}
		y := f.Vars[i]
		nrExistential++

		var defining []int
		defining = append(defining, universals...)
		for _, x := range existentials {
			if x == y {
				continue
			}
			if defined[x] {
				if _, supported := transitiveSupport[x][y]; !supported {
					defining = append(defining, x)
				}
			} else {
				defining = append(defining, x)
			}
		}

		logrus.Debugf("checking variable %d against %d candidates", y, len(defining))
		if !extractor.HasDefinition(y, defining, nil) {
			continue
		}
		nrDefined++

		clauses, _, err := extractor.GetDefinition(false)
		if err != nil {
			logrus.Debugf("get_definition failed for %d despite has_definition: %v", y, err)
			continue
		}

		definingSet := make(map[int]struct{}, len(defining))
		for _, v := range defining {
			definingSet[v] = struct{}{}
		}
		directSupport := make(map[int]struct{})
		for _, c := range clauses {
			for _, l := range c {
				v := int(l)
				if v < 0 {
					v = -v
				}
				if v == y {
					continue
				}
				if _, ok := definingSet[v]; ok {
					directSupport[v] = struct{}{}
				}
			}
		}

		tSupport := make(map[int]struct{}, len(directSupport))
		for z := range directSupport {
			tSupport[z] = struct{}{}
			for w := range transitiveSupport[z] {
				tSupport[w] = struct{}{}
			}
		}

		defined[y] = true
		transitiveSupport[y] = tSupport
	}
	return nrDefined, nrExistential
}

// displayProgress renders a 70-column terminal progress bar.
func displayProgress(progress float64) {
	const barWidth = 70
	pos := int(barWidth * progress)

	fmt.Print("[")
	for i := 0; i < barWidth; i++ {
		switch {
		case i < pos:
			fmt.Print("=")
		case i == pos:
			fmt.Print(">")
		default:
			fmt.Print(" ")
		}
	}
	fmt.Printf("] %.1f%%\r", progress*100.0)
}
